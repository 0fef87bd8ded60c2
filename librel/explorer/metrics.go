package explorer

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "relplan"
	metricsSubsystem = "explorer"
)

// Metrics holds the Prometheus metrics of an Explorer.
type Metrics struct {
	expanded   prometheus.Counter
	discovered prometheus.Counter
	duplicates prometheus.Counter
	subsumed   prometheus.Counter
	falsified  prometheus.Counter
	retained   prometheus.Gauge
}

// NewMetrics creates the explorer metrics, registering them with reg if non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		expanded:   counter("expanded_total", "Work items expanded"),
		discovered: counter("discovered_total", "Compound actions kept for further search"),
		duplicates: counter("duplicates_total", "Compound actions isomorphic to one already cataloged"),
		subsumed:   counter("subsumed_total", "Actions dropped as subsumed by another action"),
		falsified:  counter("falsified_total", "Compound actions rejected by the constraint"),
		retained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "retained",
			Help:      "Actions retained by the last compile",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.expanded,
			m.discovered,
			m.duplicates,
			m.subsumed,
			m.falsified,
			m.retained,
		} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
