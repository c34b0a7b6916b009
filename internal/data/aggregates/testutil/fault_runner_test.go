package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
)

func TestFaultRunnerStages(t *testing.T) {
	injected := errors.New("injected")
	bodyErr := errors.New("body failed")
	cases := []struct {
		name      string
		stage     Stage
		body      error
		wantErr   error
		wantBody  bool
		commits   int
		rollbacks int
	}{
		{"commit", StageNone, nil, nil, true, 1, 0},
		{"body error rolls back", StageNone, bodyErr, bodyErr, true, 0, 1},
		{"begin", StageBegin, nil, injected, false, 0, 0},
		{"before body", StageBody, nil, injected, false, 0, 1},
		{"commit failure", StageCommit, nil, injected, true, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &FaultRunner{Stage: tc.stage, Err: injected}
			ran := false
			err := r.InTx(context.Background(), func(_ dbctx.Context) error {
				ran = true
				return tc.body
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err: want %v got %v", tc.wantErr, err)
			}
			if ran != tc.wantBody {
				t.Fatalf("body ran=%v want %v", ran, tc.wantBody)
			}
			if r.Begins != 1 || r.Commits != tc.commits || r.Rollbacks != tc.rollbacks {
				t.Fatalf("counters begin=%d commit=%d rollback=%d", r.Begins, r.Commits, r.Rollbacks)
			}
		})
	}
}
