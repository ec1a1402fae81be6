// Package roundid generates sortable identifiers for game rounds.
package roundid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the size of an encoded round ID.
const Length = 26

// Generator creates round IDs from a source of random bytes and a clock.
type Generator struct {
	random io.Reader
	now    func() time.Time
}

// NewGenerator creates a generator stamped with the wall clock. A nil reader
// uses crypto/rand.
func NewGenerator(random io.Reader) *Generator {
	return NewGeneratorWithClock(random, nil)
}

// NewGeneratorWithClock creates a generator that takes its timestamps from
// now, so a seeded reader and a replayed clock give the same IDs.
func NewGeneratorWithClock(random io.Reader, now func() time.Time) *Generator {
	if random == nil {
		random = rand.Reader
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{random: random, now: now}
}

// New creates a round ID from crypto/rand.
func New() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a UUIDv7 and encodes it as a 26-character base32 string.
// IDs created in later milliseconds sort after earlier ones.
func (g *Generator) Generate() string {
	return encodeBase32(g.newUUID())
}

// newUUID lays out a UUIDv7: 48 bits of unix milliseconds from g.now, then
// the version and variant bits over random bytes.
func (g *Generator) newUUID() uuid.UUID {
	var id uuid.UUID
	if _, err := io.ReadFull(g.random, id[:]); err != nil {
		// Only a failing reader gets here; fall back to the system source.
		return uuid.Must(uuid.NewV7())
	}

	var ms [8]byte
	binary.BigEndian.PutUint64(ms[:], uint64(g.now().UnixMilli()))
	copy(id[:6], ms[2:])
	id[6] = 0x70 | id[6]&0x0f
	id[8] = 0x80 | id[8]&0x3f
	return id
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string
func encodeBase32(data uuid.UUID) string {
	result := make([]byte, Length)

	// Each character carries 5 bits; the final character holds the last 3.
	for i := 0; i < Length; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}

		result[i] = alphabet[value]
	}

	return string(result)
}

// Validate checks if a round ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
