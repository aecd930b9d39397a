package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPLatencySec *prometheus.HistogramVec

	QuotesCreated     prometheus.Counter
	QuotesRejected    prometheus.Counter
	PDFsRendered      prometheus.Counter
	EmailsSent        *prometheus.CounterVec
	UploadsStored     prometheus.Counter
	CalendarEventsNew prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "offermaster_http_requests_total",
		Help: "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "offermaster_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	created := prometheus.NewCounter(prometheus.CounterOpts{Name: "offermaster_quotes_created_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offermaster_quote_submits_rejected_total",
		Help: "Quote submits turned away because one was already in flight.",
	})
	pdfs := prometheus.NewCounter(prometheus.CounterOpts{Name: "offermaster_quote_pdfs_rendered_total"})
	emails := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "offermaster_emails_sent_total"}, []string{"kind", "result"})
	uploads := prometheus.NewCounter(prometheus.CounterOpts{Name: "offermaster_uploads_stored_total"})
	events := prometheus.NewCounter(prometheus.CounterOpts{Name: "offermaster_calendar_events_created_total"})

	r.MustRegister(requests, latency, created, rejected, pdfs, emails, uploads, events)
	r.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Registry{
		reg:               r,
		HTTPRequests:      requests,
		HTTPLatencySec:    latency,
		QuotesCreated:     created,
		QuotesRejected:    rejected,
		PDFsRendered:      pdfs,
		EmailsSent:        emails,
		UploadsStored:     uploads,
		CalendarEventsNew: events,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
