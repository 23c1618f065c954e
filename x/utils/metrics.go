package utils

import (
	"time"

	"github.com/iov-one/barter"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and observes
// their processing time. Each measurement is labeled with the message path,
// the ABCI phase and the result.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ barter.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator with all collectors registered in
// given registry. Registering the same collectors twice returns an error.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	txs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barter",
		Name:      "txs_total",
		Help:      "Total number of processed transactions.",
	}, []string{"path", "phase", "result"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "barter",
		Name:      "tx_duration_seconds",
		Help:      "Transaction processing time.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	}, []string{"path", "phase"})

	for _, c := range []prometheus.Collector{txs, duration} {
		if err := reg.Register(c); err != nil {
			return Metrics{}, err
		}
	}
	return Metrics{txs: txs, duration: duration}, nil
}

// Check measures the check phase.
func (m Metrics) Check(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Checker) (*barter.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe(tx, "check", start, err)
	return res, err
}

// Deliver measures the deliver phase.
func (m Metrics) Deliver(ctx barter.Context, store barter.KVStore, tx barter.Tx, next barter.Deliverer) (*barter.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe(tx, "deliver", start, err)
	return res, err
}

func (m Metrics) observe(tx barter.Tx, phase string, start time.Time, err error) {
	path := barter.GetPath(tx)
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.txs.WithLabelValues(path, phase, result).Inc()
	m.duration.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
}
