// Package metrics records round activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/minicasino/internal/round"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names
const (
	MetricNameRoundsTotal     = "minicasino_rounds_total"
	MetricNameWageredTotal    = "minicasino_wagered_total"
	MetricNamePaidTotal       = "minicasino_paid_total"
	MetricNameRoundStepsTotal = "minicasino_round_steps_total"
	MetricNameBalance         = "minicasino_balance"
)

// Label names
const (
	LabelGame    = "game"
	LabelOutcome = "outcome"
)

// Recorder turns engine events into metrics. Subscribe it to every
// engine's bus.
type Recorder struct {
	rounds  *prometheus.CounterVec
	wagered *prometheus.CounterVec
	paid    *prometheus.CounterVec
	steps   *prometheus.CounterVec
	balance prometheus.Gauge
}

// NewRecorder registers the metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		rounds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNameRoundsTotal,
			Help: "Total number of settled rounds",
		}, []string{LabelGame, LabelOutcome}),
		wagered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNameWageredTotal,
			Help: "Total amount wagered",
		}, []string{LabelGame}),
		paid: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNamePaidTotal,
			Help: "Total amount credited back to the player",
		}, []string{LabelGame}),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricNameRoundStepsTotal,
			Help: "Total number of round steps, including paced reveal steps",
		}, []string{LabelGame}),
		balance: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricNameBalance,
			Help: "Player balance after the latest transition",
		}),
	}
}

// OnEvent implements round.Subscriber.
func (r *Recorder) OnEvent(event round.Event) {
	snap := event.Snapshot
	r.balance.Set(snap.Balance.InexactFloat64())

	switch event.Type {
	case round.EventRoundStart:
		r.wagered.WithLabelValues(snap.Game).Add(snap.Wager.InexactFloat64())
	case round.EventRoundStep:
		r.steps.WithLabelValues(snap.Game).Inc()
	case round.EventRoundSettled:
		r.rounds.WithLabelValues(snap.Game, snap.Outcome.String()).Inc()
		r.paid.WithLabelValues(snap.Game).Add(snap.Payout.InexactFloat64())
	}
}

// Serve exposes reg on addr at /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
