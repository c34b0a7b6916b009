package observability

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter
	apiReqGood  *Counter

	aggregateOps      *CounterVec
	aggregateLatency  *HistogramVec
	aggregateConflict *CounterVec
	aggregateRetry    *CounterVec

	enrollments         *CounterVec
	chapterTransitions  *CounterVec
	assessmentSubmits   *CounterVec
	certificatesIssued  *Counter
	likeToggles         *CounterVec
	accessDecisions     *CounterVec
	realtimeClients     *Gauge
	realtimeDelivered   *CounterVec
	pgStats             *GaugeVec
	redisUp             *Gauge
	redisPing           *Gauge
	sloLatencyThreshold float64
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return parseBoolEnv("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func parseBoolEnv(key string, fallback bool) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if val == "" {
		return fallback
	}
	switch val {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func scrapeInterval() time.Duration {
	v := strings.TrimSpace(os.Getenv("METRICS_SCRAPE_INTERVAL_SECONDS"))
	if v == "" {
		return 10 * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n) * time.Second
}

// Init returns the process-wide registry, or nil when METRICS_ENABLED is off.
// Every method on *Metrics is nil-safe.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("metrics enabled", "slo_latency_threshold_seconds", instance.sloLatencyThreshold)
		}
	})
	return instance
}

func newMetrics() *Metrics {
	latencyThreshold := 0.5
	if v := strings.TrimSpace(os.Getenv("SLO_API_LATENCY_THRESHOLD_SECONDS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			latencyThreshold = f
		}
	}
	return &Metrics{
		apiRequests: NewCounterVec("cw_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"cw_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("cw_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("cw_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("cw_api_requests_error_total", "Total API requests with 5xx status."),
		apiReqGood:  NewCounter("cw_api_requests_good_latency_total", "Total API requests under SLO latency threshold."),

		aggregateOps: NewCounterVec("cw_aggregate_writes_total", "Aggregate writes by aggregate/operation/status.", []string{"aggregate", "operation", "status"}),
		aggregateLatency: NewHistogramVec(
			"cw_aggregate_write_duration_seconds",
			"Aggregate write latency in seconds by operation/status.",
			[]string{"operation", "status"},
			[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		),
		aggregateConflict: NewCounterVec("cw_aggregate_conflicts_total", "Aggregate writes that lost a uniqueness or concurrency race.", []string{"operation"}),
		aggregateRetry:    NewCounterVec("cw_aggregate_retryable_total", "Aggregate writes that failed with a retryable error.", []string{"operation"}),

		enrollments:        NewCounterVec("cw_enrollments_total", "Enrollment attempts by result.", []string{"result"}),
		chapterTransitions: NewCounterVec("cw_chapter_state_transitions_total", "Chapter progress transitions by from/to state.", []string{"from", "to"}),
		assessmentSubmits:  NewCounterVec("cw_assessment_submissions_total", "Graded assessment submissions by outcome.", []string{"outcome"}),
		certificatesIssued: NewCounter("cw_certificates_issued_total", "Certificates newly issued."),
		likeToggles:        NewCounterVec("cw_like_toggles_total", "Like toggles by target kind and resulting state.", []string{"kind", "liked"}),
		accessDecisions:    NewCounterVec("cw_access_decisions_total", "Gated resource access decisions.", []string{"resource", "decision"}),
		realtimeClients:    NewGauge("cw_realtime_clients", "Connected SSE clients."),
		realtimeDelivered:  NewCounterVec("cw_realtime_messages_total", "Realtime messages by event/result.", []string{"event", "result"}),
		pgStats:            NewGaugeVec("cw_postgres_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:            NewGauge("cw_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing:          NewGauge("cw_redis_ping_seconds", "Redis ping latency in seconds."),

		sloLatencyThreshold: latencyThreshold,
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError, m.apiReqGood,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflict, m.aggregateRetry,
		m.enrollments, m.chapterTransitions, m.assessmentSubmits, m.certificatesIssued,
		m.likeToggles, m.accessDecisions, m.realtimeClients, m.realtimeDelivered,
		m.pgStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
	if m.sloLatencyThreshold > 0 && dur.Seconds() <= m.sloLatencyThreshold {
		m.apiReqGood.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveAggregateWrite records one aggregate write. Conflicts and retryable failures are also
// counted on their own so a lost race is visible without reading the status breakdown.
func (m *Metrics) ObserveAggregateWrite(aggregate, op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if aggregate == "" {
		aggregate = "unknown"
	}
	if op == "" {
		op = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	m.aggregateOps.Inc(aggregate, op, status)
	m.aggregateLatency.Observe(dur.Seconds(), op, status)
	switch status {
	case "conflict":
		m.aggregateConflict.Inc(op)
	case "retryable":
		m.aggregateRetry.Inc(op)
	}
}

func (m *Metrics) IncEnrollment(result string) {
	if m == nil {
		return
	}
	m.enrollments.Inc(result)
}

func (m *Metrics) IncChapterTransition(from, to string) {
	if m == nil || from == to {
		return
	}
	m.chapterTransitions.Inc(from, to)
}

func (m *Metrics) IncAssessmentSubmission(passed bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.assessmentSubmits.Inc(outcome)
}

func (m *Metrics) IncCertificateIssued() {
	if m == nil {
		return
	}
	m.certificatesIssued.Inc()
}

func (m *Metrics) IncLikeToggle(kind string, liked bool) {
	if m == nil {
		return
	}
	m.likeToggles.Inc(kind, strconv.FormatBool(liked))
}

func (m *Metrics) IncAccessDecision(resource string, allowed bool) {
	if m == nil {
		return
	}
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	m.accessDecisions.Inc(resource, decision)
}

func (m *Metrics) RealtimeClientsInc() {
	if m == nil {
		return
	}
	m.realtimeClients.Inc()
}

func (m *Metrics) RealtimeClientsDec() {
	if m == nil {
		return
	}
	m.realtimeClients.Dec()
}

func (m *Metrics) IncRealtimeMessage(event, result string) {
	if m == nil {
		return
	}
	m.realtimeDelivered.Inc(event, result)
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.recordPoolStats(stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount, stats.WaitDuration)
			}
		}
	}()
}

func (m *Metrics) recordPoolStats(open, inUse, idle int, waitCount int64, waitDur time.Duration) {
	m.pgStats.Set(float64(open), "open_connections")
	m.pgStats.Set(float64(inUse), "in_use")
	m.pgStats.Set(float64(idle), "idle")
	m.pgStats.Set(float64(waitCount), "wait_count")
	m.pgStats.Set(waitDur.Seconds(), "wait_duration_seconds")
}

// StartRedisCollector pings the shared client on every scrape tick. The client
// is owned by the caller and is not closed here.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}
