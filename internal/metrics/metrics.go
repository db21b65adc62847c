package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const namespace = "taskdash"

// Metrics groups the store and worker collectors. A nil *Metrics records nothing.
type Metrics struct {
	Mutations     *prometheus.CounterVec
	SaveFailures  prometheus.Counter
	SaveDuration  prometheus.Histogram
	Tasks         *prometheus.GaugeVec
	Notifications *prometheus.CounterVec
	Imported      *prometheus.CounterVec
	ReminderDrops prometheus.Counter
	Reminders     prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Store mutations by operation.",
		}, []string{"op"}),
		SaveFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_save_failures_total",
			Help:      "Write-through saves that returned an error.",
		}),
		SaveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_save_duration_seconds",
			Help:      "Duration of write-through saves.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		Tasks: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks",
			Help:      "Tasks currently held, by set.",
		}, []string{"set"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications emitted, by type.",
		}, []string{"type"}),
		Imported: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Import records by outcome.",
		}, []string{"outcome"}),
		ReminderDrops: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_drops_total",
			Help:      "Due reminders dropped because the consumer was slow.",
		}),
		Reminders: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_fired_total",
			Help:      "Due reminders delivered.",
		}),
	}
}

func (m *Metrics) Mutation(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) Saved(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.SaveDuration.Observe(d.Seconds())
	if err != nil {
		m.SaveFailures.Inc()
	}
}

func (m *Metrics) TaskCounts(active, archived int) {
	if m == nil {
		return
	}
	m.Tasks.WithLabelValues("active").Set(float64(active))
	m.Tasks.WithLabelValues("archived").Set(float64(archived))
}

func (m *Metrics) Notified(kind string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind).Inc()
}

func (m *Metrics) ImportRecord(outcome string) {
	if m == nil {
		return
	}
	m.Imported.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ReminderFired() {
	if m == nil {
		return
	}
	m.Reminders.Inc()
}

func (m *Metrics) ReminderDropped() {
	if m == nil {
		return
	}
	m.ReminderDrops.Inc()
}

// Serve exposes g on addr at /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
