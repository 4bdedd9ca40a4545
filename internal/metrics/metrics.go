// Package metrics owns the Prometheus registry for the process.
//
// Sessions receive a *Registry and may be given nil in tests; every
// recording method is a no-op on a nil receiver.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	// Deals
	PagesFetched  prometheus.Counter
	FetchErrors   prometheus.Counter
	EndOfData     prometheus.Counter
	DealsCached   prometheus.Gauge
	FetchDuration prometheus.Histogram

	// Registry
	StudentsRegistered prometheus.Counter
	StudentsRejected   prometheus.Counter
	StudentsDeleted    prometheus.Counter
	StudentsTotal      prometheus.Gauge
	StoreWriteFailures prometheus.Counter
	StoreLoadFailures  prometheus.Counter

	// Transport
	HTTPRequests *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	pages := prometheus.NewCounter(prometheus.CounterOpts{Name: "deals_pages_fetched_total"})
	fetchErrors := prometheus.NewCounter(prometheus.CounterOpts{Name: "deals_fetch_errors_total"})
	endOfData := prometheus.NewCounter(prometheus.CounterOpts{Name: "deals_end_of_data_total"})
	cached := prometheus.NewGauge(prometheus.GaugeOpts{Name: "deals_cached"})
	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "deals_fetch_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	registered := prometheus.NewCounter(prometheus.CounterOpts{Name: "registry_students_registered_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "registry_students_rejected_total"})
	deleted := prometheus.NewCounter(prometheus.CounterOpts{Name: "registry_students_deleted_total"})
	total := prometheus.NewGauge(prometheus.GaugeOpts{Name: "registry_students"})
	writeFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "registry_store_write_failures_total"})
	loadFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "registry_store_load_failures_total"})

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
	}, []string{"method", "code"})

	r.MustRegister(pages, fetchErrors, endOfData, cached, fetchDuration,
		registered, rejected, deleted, total, writeFailures, loadFailures, requests)

	return &Registry{
		reg:                r,
		PagesFetched:       pages,
		FetchErrors:        fetchErrors,
		EndOfData:          endOfData,
		DealsCached:        cached,
		FetchDuration:      fetchDuration,
		StudentsRegistered: registered,
		StudentsRejected:   rejected,
		StudentsDeleted:    deleted,
		StudentsTotal:      total,
		StoreWriteFailures: writeFailures,
		StoreLoadFailures:  loadFailures,
		HTTPRequests:       requests,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ObserveFetch records one page request to the remote source.
func (r *Registry) ObserveFetch(started time.Time, err error) {
	if r == nil {
		return
	}
	r.FetchDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		r.FetchErrors.Inc()
		return
	}
	r.PagesFetched.Inc()
}

func (r *Registry) ObserveEndOfData() {
	if r == nil {
		return
	}
	r.EndOfData.Inc()
}

func (r *Registry) SetDealsCached(n int) {
	if r == nil {
		return
	}
	r.DealsCached.Set(float64(n))
}

func (r *Registry) ObserveRegistration(valid bool, total int) {
	if r == nil {
		return
	}
	if !valid {
		r.StudentsRejected.Inc()
		return
	}
	r.StudentsRegistered.Inc()
	r.StudentsTotal.Set(float64(total))
}

func (r *Registry) ObserveDeletion(total int) {
	if r == nil {
		return
	}
	r.StudentsDeleted.Inc()
	r.StudentsTotal.Set(float64(total))
}

func (r *Registry) SetStudentsTotal(total int) {
	if r == nil {
		return
	}
	r.StudentsTotal.Set(float64(total))
}

func (r *Registry) ObserveStoreWriteFailure() {
	if r == nil {
		return
	}
	r.StoreWriteFailures.Inc()
}

func (r *Registry) ObserveStoreLoadFailure() {
	if r == nil {
		return
	}
	r.StoreLoadFailures.Inc()
}

func (r *Registry) ObserveRequest(method string, code int) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}
