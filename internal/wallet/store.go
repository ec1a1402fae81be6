// Package wallet holds the lobby balance shared by every game.
package wallet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount is returned for amounts the store cannot apply.
	ErrInvalidAmount = errors.New("invalid amount")
)

// DefaultStartingBalance matches the mock user the lobby starts with.
var DefaultStartingBalance = decimal.NewFromInt(10)

// Store is the single source of truth for the player's balance.
// Amounts are kept at cent precision.
type Store struct {
	mu      sync.Mutex
	balance decimal.Decimal
	logger  *log.Logger
}

// NewStore creates a store with the given opening balance. Negative
// balances are clamped to zero.
func NewStore(initial decimal.Decimal, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	if initial.IsNegative() {
		initial = decimal.Zero
	}
	return &Store{
		balance: initial.Round(2),
		logger:  logger.WithPrefix("wallet"),
	}
}

// Balance returns the current balance.
func (s *Store) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Debit removes amount from the balance.
func (s *Store) Debit(amount decimal.Decimal) error {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return fmt.Errorf("debit %s: %w", amount.StringFixed(2), ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.GreaterThan(s.balance) {
		return fmt.Errorf("debit %s from %s: %w", amount.StringFixed(2), s.balance.StringFixed(2), ErrInsufficientFunds)
	}
	s.balance = s.balance.Sub(amount)
	s.logger.Debug("debit", "amount", amount.StringFixed(2), "balance", s.balance.StringFixed(2))
	return nil
}

// Credit adds amount to the balance. A zero credit is accepted and ignored.
func (s *Store) Credit(amount decimal.Decimal) error {
	amount = amount.Round(2)
	if amount.IsNegative() {
		return fmt.Errorf("credit %s: %w", amount.StringFixed(2), ErrInvalidAmount)
	}
	if amount.IsZero() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.balance = s.balance.Add(amount)
	s.logger.Debug("credit", "amount", amount.StringFixed(2), "balance", s.balance.StringFixed(2))
	return nil
}

// Deposit tops the balance up from the wallet screen.
func (s *Store) Deposit(amount decimal.Decimal) error {
	if !amount.Round(2).IsPositive() {
		return fmt.Errorf("deposit %s: %w", amount.String(), ErrInvalidAmount)
	}
	return s.Credit(amount)
}
