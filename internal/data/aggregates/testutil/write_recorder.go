package testutil

import (
	"sync"

	"github.com/yungbote/courseware-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

// WriteRecorder keeps every reported aggregate write outcome.
type WriteRecorder struct {
	mu       sync.Mutex
	outcomes []aggregates.WriteOutcome
}

var _ aggregates.WriteObserver = (*WriteRecorder)(nil)

func (r *WriteRecorder) ObserveWrite(o aggregates.WriteOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *WriteRecorder) Outcomes() []aggregates.WriteOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]aggregates.WriteOutcome(nil), r.outcomes...)
}

// Statuses returns the outcome statuses in call order.
func (r *WriteRecorder) Statuses() []string {
	out := []string{}
	for _, o := range r.Outcomes() {
		out = append(out, o.Status())
	}
	return out
}

// Count returns how many writes of op failed with code.
func (r *WriteRecorder) Count(op string, code domainagg.ErrorCode) int {
	n := 0
	for _, o := range r.Outcomes() {
		if o.Op == op && o.Code == code {
			n++
		}
	}
	return n
}
