package aggregates

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Observer WriteObserver
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Observer == nil {
		d.Observer = noopObserver{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// executeWrite runs fn in one transaction owned by the aggregate and reports the outcome.
// op must be declared in contract.Writes.
func executeWrite(ctx context.Context, deps BaseDeps, contract domainagg.Contract, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if !contract.Owns(op) {
		deps.Log.Error("undeclared aggregate write", "aggregate", contract.Name, "op", op)
		return domainagg.NewError(domainagg.CodeInternal, op, "write not declared by "+contract.Name, nil)
	}

	ctx, span := otel.Tracer("courseware/aggregates").Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("aggregate", contract.Name))

	start := time.Now()
	err := MapError(op, deps.Runner.InTx(ctx, fn))
	outcome := WriteOutcome{Aggregate: contract.Name, Op: op, Duration: time.Since(start)}
	if err != nil {
		outcome.Code = domainagg.CodeOf(err)
		span.SetStatus(codes.Error, string(outcome.Code))
		if outcome.Code == domainagg.CodeInternal {
			deps.Log.Error("aggregate write failed", "aggregate", contract.Name, "op", op, "error", err)
		}
	}
	deps.Observer.ObserveWrite(outcome)
	return err
}

// atOrNow normalizes caller-supplied event times.
func atOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
