package aggregates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
)

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestCASGuardUpdateByStatus(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	course, _ := testutil.SeedCourse(t, ctx, tx, "Go", 1)
	e := testutil.SeedEnrollment(t, ctx, tx, uuid.New(), course.ID, types.EnrollmentActive)

	g := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	ok, err := g.UpdateByStatus(dbc, "enrollment", e.ID, []string{"suspended"}, map[string]any{"status": "cancelled"})
	if err != nil || ok {
		t.Fatalf("guard should not match: ok=%v err=%v", ok, err)
	}
	ok, err = g.UpdateByStatus(dbc, "enrollment", e.ID, []string{"active"}, map[string]any{"status": "suspended"})
	if err != nil || !ok {
		t.Fatalf("guard should match: ok=%v err=%v", ok, err)
	}
	if n := testutil.Count(t, ctx, tx, &types.Enrollment{}, "id = ? AND status = ?", e.ID, "suspended"); n != 1 {
		t.Fatalf("status not updated")
	}
	if _, err := g.UpdateByStatus(dbc, "enrollment", 0, []string{"active"}, nil); err == nil {
		t.Fatalf("expected validation error for zero id")
	}
}
