package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/courseware-backend/internal/data/aggregates"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
)

// InjectedTxRunner injects failures around an aggregate transaction.
// With Inner set the body runs in a real transaction and an injected commit
// failure rolls it back; without Inner the body runs with no database.
type InjectedTxRunner struct {
	Inner aggregates.TxRunner

	mu sync.Mutex

	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin, failCommit := r.FailBegin, r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}
