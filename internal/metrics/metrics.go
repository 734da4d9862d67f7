package metrics

import (
	"net/http"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Registry accumulates pipeline counters and serves them at /metrics.
// The zero value is not usable; call New.
type Registry struct {
	mu sync.Mutex

	checks           float64
	checkFailures    float64
	entriesProcessed float64
	alertsSent       float64
	deliveryFailures float64
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// RecordCheck counts one completed check and its per-entry outcomes.
func (r *Registry) RecordCheck(processed, alertsSent, deliveryFailures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks++
	r.entriesProcessed += float64(processed)
	r.alertsSent += float64(alertsSent)
	r.deliveryFailures += float64(deliveryFailures)
}

// RecordCheckFailure counts one check that failed before completing.
func (r *Registry) RecordCheckFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks++
	r.checkFailures++
}

// ServeHTTP writes all counters in Prometheus text exposition format.
func (r *Registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.mu.Lock()
	families := []*dto.MetricFamily{
		counter("edgewatch_checks_total", "Total pipeline checks attempted.", r.checks),
		counter("edgewatch_check_failures_total", "Checks that failed before completing.", r.checkFailures),
		counter("edgewatch_entries_processed_total", "Log entries fetched across all checks.", r.entriesProcessed),
		counter("edgewatch_alerts_sent_total", "Qualifying entries dispatched for notification.", r.alertsSent),
		counter("edgewatch_delivery_failures_total", "Notification sends that failed.", r.deliveryFailures),
	}
	r.mu.Unlock()

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

// counter builds a single-sample counter family.
func counter(name, help string, value float64) *dto.MetricFamily {
	mt := dto.MetricType_COUNTER
	return &dto.MetricFamily{
		Name: &name,
		Help: &help,
		Type: &mt,
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: &value}},
		},
	}
}
