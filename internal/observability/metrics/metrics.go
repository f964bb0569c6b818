package metrics

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the base labels attached to every metric.
type Config struct {
	ServiceName string
	Environment string
}

func (c Config) serviceName() string {
	if c.ServiceName == "" {
		return "rentfolio"
	}
	return c.ServiceName
}

func (c Config) environment() string {
	if c.Environment == "" {
		return "development"
	}
	return c.Environment
}

const (
	SchedulerJobReasonDeadlineExceeded = "deadline_exceeded"
	SchedulerJobReasonDB               = "db"
	SchedulerJobReasonUnknown          = "unknown"
)

var (
	mu        sync.Mutex
	scheduler *SchedulerMetrics
	importM   *ImportMetrics
	sweep     *DelinquencyMetrics
	httpM     *HTTPMetrics
)

// SchedulerMetrics instruments background job execution.
type SchedulerMetrics struct {
	base        prometheus.Labels
	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobTimeouts *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	runLoopLag  *prometheus.HistogramVec
}

// Scheduler returns the process-wide scheduler metrics, creating them with
// default labels on first use.
func Scheduler() *SchedulerMetrics {
	return SchedulerWithConfig(Config{})
}

func SchedulerWithConfig(cfg Config) *SchedulerMetrics {
	mu.Lock()
	defer mu.Unlock()
	if scheduler != nil {
		return scheduler
	}

	base := prometheus.Labels{
		"service": cfg.serviceName(),
		"env":     cfg.environment(),
	}
	scheduler = &SchedulerMetrics{
		base: base,
		jobRuns: newCounterVec("rentfolio_scheduler_job_runs_total",
			"Scheduler job executions.", base, "job"),
		jobErrors: newCounterVec("rentfolio_scheduler_job_errors_total",
			"Scheduler job failures by reason.", base, "job", "reason"),
		jobTimeouts: newCounterVec("rentfolio_scheduler_job_timeouts_total",
			"Scheduler jobs that hit their deadline.", base, "job"),
		jobDuration: newHistogramVec("rentfolio_scheduler_job_duration_seconds",
			"Scheduler job wall time.", base, "job"),
		runLoopLag: newHistogramVec("rentfolio_scheduler_run_loop_lag_seconds",
			"How far behind schedule the run loop started.", base),
	}
	return scheduler
}

func (m *SchedulerMetrics) IncJobRun(job string) {
	m.jobRuns.With(m.labels("job", job)).Inc()
}

func (m *SchedulerMetrics) IncJobError(job string, err error) {
	m.jobErrors.With(m.labels("job", job, "reason", classifyJobError(err))).Inc()
}

func (m *SchedulerMetrics) IncJobTimeout(job string) {
	m.jobTimeouts.With(m.labels("job", job)).Inc()
}

func (m *SchedulerMetrics) ObserveJobDuration(job string, d time.Duration) {
	m.jobDuration.With(m.labels("job", job)).Observe(d.Seconds())
}

func (m *SchedulerMetrics) ObserveRunLoopLag(d time.Duration) {
	m.runLoopLag.With(m.labels()).Observe(d.Seconds())
}

func (m *SchedulerMetrics) labels(kv ...string) prometheus.Labels {
	labels := prometheus.Labels{}
	for k, v := range m.base {
		labels[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		labels[kv[i]] = kv[i+1]
	}
	return labels
}

func classifyJobError(err error) string {
	switch {
	case err == nil:
		return SchedulerJobReasonUnknown
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return SchedulerJobReasonDeadlineExceeded
	default:
		return SchedulerJobReasonUnknown
	}
}

// ImportMetrics instruments the bulk import pipeline.
type ImportMetrics struct {
	base         prometheus.Labels
	rows         *prometheus.CounterVec
	jobs         *prometheus.CounterVec
	executeTimer *prometheus.HistogramVec
}

func Import() *ImportMetrics {
	return ImportWithConfig(Config{})
}

func ImportWithConfig(cfg Config) *ImportMetrics {
	mu.Lock()
	defer mu.Unlock()
	if importM != nil {
		return importM
	}

	base := prometheus.Labels{
		"service": cfg.serviceName(),
		"env":     cfg.environment(),
	}
	importM = &ImportMetrics{
		base: base,
		rows: newCounterVec("rentfolio_import_rows_total",
			"Import rows processed, by data type and result.", base, "data_type", "result"),
		jobs: newCounterVec("rentfolio_import_jobs_total",
			"Import jobs by terminal status.", base, "data_type", "status"),
		executeTimer: newHistogramVec("rentfolio_import_execute_duration_seconds",
			"Import execution wall time.", base, "data_type", "dry_run"),
	}
	return importM
}

func (m *ImportMetrics) AddRows(dataType, result string, n int) {
	if n <= 0 {
		return
	}
	m.rows.With(m.labels("data_type", dataType, "result", result)).Add(float64(n))
}

func (m *ImportMetrics) IncJob(dataType, status string) {
	m.jobs.With(m.labels("data_type", dataType, "status", status)).Inc()
}

func (m *ImportMetrics) ObserveExecute(dataType string, dryRun bool, d time.Duration) {
	m.executeTimer.With(m.labels("data_type", dataType, "dry_run", strconv.FormatBool(dryRun))).Observe(d.Seconds())
}

func (m *ImportMetrics) labels(kv ...string) prometheus.Labels {
	labels := prometheus.Labels{}
	for k, v := range m.base {
		labels[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		labels[kv[i]] = kv[i+1]
	}
	return labels
}

// DelinquencyMetrics instruments the escalation sweep.
type DelinquencyMetrics struct {
	base    prometheus.Labels
	sweeps  *prometheus.CounterVec
	actions *prometheus.CounterVec
	errorsC *prometheus.CounterVec
}

func Delinquency() *DelinquencyMetrics {
	return DelinquencyWithConfig(Config{})
}

func DelinquencyWithConfig(cfg Config) *DelinquencyMetrics {
	mu.Lock()
	defer mu.Unlock()
	if sweep != nil {
		return sweep
	}

	base := prometheus.Labels{
		"service": cfg.serviceName(),
		"env":     cfg.environment(),
	}
	sweep = &DelinquencyMetrics{
		base: base,
		sweeps: newCounterVec("rentfolio_delinquency_sweeps_total",
			"Delinquency sweep executions.", base),
		actions: newCounterVec("rentfolio_delinquency_actions_total",
			"Delinquency actions recorded, by send status.", base, "status"),
		errorsC: newCounterVec("rentfolio_delinquency_payment_errors_total",
			"Per-payment errors during sweeps.", base),
	}
	return sweep
}

func (m *DelinquencyMetrics) IncSweep() {
	m.sweeps.With(m.labels()).Inc()
}

func (m *DelinquencyMetrics) IncAction(status string) {
	m.actions.With(m.labels("status", status)).Inc()
}

func (m *DelinquencyMetrics) AddPaymentErrors(n int) {
	if n <= 0 {
		return
	}
	m.errorsC.With(m.labels()).Add(float64(n))
}

func (m *DelinquencyMetrics) labels(kv ...string) prometheus.Labels {
	labels := prometheus.Labels{}
	for k, v := range m.base {
		labels[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		labels[kv[i]] = kv[i+1]
	}
	return labels
}

// HTTPMetrics instruments inbound requests.
type HTTPMetrics struct {
	base     prometheus.Labels
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func HTTP() *HTTPMetrics {
	return HTTPWithConfig(Config{})
}

func HTTPWithConfig(cfg Config) *HTTPMetrics {
	mu.Lock()
	defer mu.Unlock()
	if httpM != nil {
		return httpM
	}

	base := prometheus.Labels{
		"service": cfg.serviceName(),
		"env":     cfg.environment(),
	}
	httpM = &HTTPMetrics{
		base: base,
		requests: newCounterVec("rentfolio_http_requests_total",
			"HTTP requests by route and status.", base, "method", "route", "status"),
		duration: newHistogramVec("rentfolio_http_request_duration_seconds",
			"HTTP request wall time.", base, "method", "route"),
	}
	return httpM
}

// GinMiddleware records request counts and latency per route.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		labels := prometheus.Labels{}
		for k, v := range m.base {
			labels[k] = v
		}
		labels["method"] = c.Request.Method
		labels["route"] = route

		durLabels := prometheus.Labels{}
		for k, v := range labels {
			durLabels[k] = v
		}
		m.duration.With(durLabels).Observe(time.Since(start).Seconds())

		labels["status"] = strconv.Itoa(c.Writer.Status())
		m.requests.With(labels).Inc()
	}
}

// ResetForTest drops all cached collectors so tests can re-register them
// against a fresh registry.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	scheduler = nil
	importM = nil
	sweep = nil
	httpM = nil
}

func newCounterVec(name, help string, base prometheus.Labels, labels ...string) *prometheus.CounterVec {
	keys := make([]string, 0, len(base)+len(labels))
	for k := range base {
		keys = append(keys, k)
	}
	keys = append(keys, labels...)
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, keys)
	prometheus.DefaultRegisterer.MustRegister(vec)
	return vec
}

func newHistogramVec(name, help string, base prometheus.Labels, labels ...string) *prometheus.HistogramVec {
	keys := make([]string, 0, len(base)+len(labels))
	for k := range base {
		keys = append(keys, k)
	}
	keys = append(keys, labels...)
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: prometheus.DefBuckets,
	}, keys)
	prometheus.DefaultRegisterer.MustRegister(vec)
	return vec
}
