package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lox/minicasino/internal/round"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(t round.EventType, game string, wager, payout string, outcome round.Outcome) round.Event {
	return round.Event{Type: t, Snapshot: round.Snapshot{
		Game:    game,
		Wager:   decimal.RequireFromString(wager),
		Payout:  decimal.RequireFromString(payout),
		Balance: decimal.RequireFromString("7.5"),
		Outcome: outcome,
	}}
}

func TestRecorderCountsRounds(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.OnEvent(event(round.EventRoundStart, "mines", "2", "0", round.NoOutcome))
	r.OnEvent(event(round.EventRoundStep, "mines", "2", "0", round.NoOutcome))
	r.OnEvent(event(round.EventRoundStep, "mines", "2", "0", round.NoOutcome))
	r.OnEvent(event(round.EventRoundSettled, "mines", "2", "3.12", round.Win))
	r.OnEvent(event(round.EventRoundStart, "wheel", "1", "0", round.NoOutcome))
	r.OnEvent(event(round.EventRoundSettled, "wheel", "1", "0.5", round.Loss))
	r.OnEvent(event(round.EventRoundReset, "wheel", "0", "0", round.NoOutcome))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.rounds.WithLabelValues("mines", "win")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rounds.WithLabelValues("wheel", "loss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.wagered.WithLabelValues("mines")))
	assert.InDelta(t, 3.12, testutil.ToFloat64(r.paid.WithLabelValues("mines")), 1e-9)
	assert.InDelta(t, 0.5, testutil.ToFloat64(r.paid.WithLabelValues("wheel")), 1e-9)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.steps.WithLabelValues("mines")))
	assert.Equal(t, 7.5, testutil.ToFloat64(r.balance))
	assert.Equal(t, 2, testutil.CollectAndCount(r.rounds))
}

func TestRecorderExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.OnEvent(event(round.EventRoundSettled, "coinflip", "1", "2", round.Win))

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), `minicasino_rounds_total{game="coinflip",outcome="win"} 1`), string(body))
}

func TestRecorderOnEngineBus(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	bus := round.NewEventBus()
	bus.Subscribe(r)

	bus.Publish(event(round.EventRoundSettled, "tower", "1", "0", round.Loss))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rounds.WithLabelValues("tower", "loss")))
}
