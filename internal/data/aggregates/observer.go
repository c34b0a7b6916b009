package aggregates

import (
	"time"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/observability"
)

// WriteOutcome is reported once per aggregate write, after commit or rollback.
type WriteOutcome struct {
	Aggregate string
	Op        string
	Code      domainagg.ErrorCode
	Duration  time.Duration
}

// Status is "success" for a committed write, otherwise the error code.
func (o WriteOutcome) Status() string {
	if o.Code == "" {
		return "success"
	}
	return string(o.Code)
}

type WriteObserver interface {
	ObserveWrite(WriteOutcome)
}

type noopObserver struct{}

func (noopObserver) ObserveWrite(WriteOutcome) {}

type metricsObserver struct {
	metrics *observability.Metrics
}

// NewMetricsObserver reports write outcomes to the metrics registry; nil metrics disables reporting.
func NewMetricsObserver(metrics *observability.Metrics) WriteObserver {
	if metrics == nil {
		return noopObserver{}
	}
	return metricsObserver{metrics: metrics}
}

func (o metricsObserver) ObserveWrite(w WriteOutcome) {
	o.metrics.ObserveAggregateWrite(w.Aggregate, w.Op, w.Status(), w.Duration)
}
