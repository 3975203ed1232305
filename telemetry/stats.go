// Package telemetry turns combat events into Prometheus metrics.
package telemetry

import (
	"github.com/milk9111/slotbattler/battle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "slotbattler"

// Stats holds the combat metrics. Register it once per registry.
type Stats struct {
	CardsUsed        *prometheus.CounterVec
	CardsSpawned     *prometheus.CounterVec
	CardsExecuted    *prometheus.CounterVec
	StateTransitions *prometheus.CounterVec
	CombatsStarted   prometheus.Counter
	CombatsEnded     *prometheus.CounterVec
	Revives          prometheus.Counter
	TurnCount        prometheus.Gauge
}

// New creates the metrics on reg. A nil reg leaves them unregistered.
func New(reg prometheus.Registerer) *Stats {
	f := promauto.With(reg)
	return &Stats{
		CardsUsed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_used_total",
			Help:      "Cards resolved from the battle slot, excluding turn markers.",
		}, []string{"side"}),
		CardsSpawned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_spawned_total",
			Help:      "Cards inserted into the queue.",
		}, []string{"side"}),
		CardsExecuted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_executed_total",
			Help:      "Card executions, including turn markers.",
		}, []string{"side"}),
		StateTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Combat state machine transitions by target state.",
		}, []string{"state"}),
		CombatsStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combats_started_total",
			Help:      "Combats started.",
		}),
		CombatsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combats_ended_total",
			Help:      "Combats ended by outcome.",
		}, []string{"outcome"}),
		Revives: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_revives_total",
			Help:      "Revive items consumed.",
		}),
		TurnCount: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "turn_count",
			Help:      "Current turn count.",
		}),
	}
}

// Attach subscribes s to bus and returns the unsubscribe func.
func (s *Stats) Attach(bus *battle.Bus) func() {
	return bus.Subscribe(s.Observe)
}

// Observe records one event.
func (s *Stats) Observe(evt battle.Event) {
	switch data := evt.Data.(type) {
	case battle.CardUse:
		s.CardsUsed.WithLabelValues(data.Side.String()).Inc()
	case battle.CardSpawn:
		s.CardsSpawned.WithLabelValues(data.Side.String()).Inc()
	case battle.CardExecution:
		if data.Card != nil {
			s.CardsExecuted.WithLabelValues(data.Card.Owner.String()).Inc()
		}
	case battle.StateChange:
		s.StateTransitions.WithLabelValues(data.Next.String()).Inc()
	case battle.CombatStart:
		s.CombatsStarted.Inc()
	case battle.CombatEnd:
		s.CombatsEnded.WithLabelValues(outcome(data.Victory)).Inc()
	case battle.PlayerRevive:
		s.Revives.Inc()
	case battle.TurnCountChange:
		s.TurnCount.Set(float64(data.Count))
	}
}

func outcome(victory bool) string {
	if victory {
		return "victory"
	}
	return "defeat"
}
