package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/courseware-backend/internal/data/aggregates"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

// Stage selects where FaultRunner fails.
type Stage int

const (
	StageNone Stage = iota
	// StageBegin fails before a transaction exists; nothing is rolled back.
	StageBegin
	// StageBody fails after begin without running the body.
	StageBody
	// StageCommit runs the body and then fails the commit.
	StageCommit
)

// FaultRunner runs aggregate bodies without a transaction of its own, so repos write through
// whatever handle they were built with, and fails at Stage with Err.
type FaultRunner struct {
	Stage Stage
	Err   error

	mu        sync.Mutex
	Begins    int
	Commits   int
	Rollbacks int
}

var _ aggregates.TxRunner = (*FaultRunner)(nil)

func (r *FaultRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.count(&r.Begins)
	switch r.Stage {
	case StageBegin:
		return r.Err
	case StageBody:
		r.count(&r.Rollbacks)
		return r.Err
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.count(&r.Rollbacks)
			return err
		}
	}
	if r.Stage == StageCommit {
		r.count(&r.Rollbacks)
		return r.Err
	}
	r.count(&r.Commits)
	return nil
}

func (r *FaultRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
