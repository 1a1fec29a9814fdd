package aggregates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/data/repos"
	"github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"gorm.io/gorm"
)

var harnessNow = time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)

type harness struct {
	ctx    context.Context
	db     *gorm.DB
	stores Stores
	hooks  *spyHooks
	stats  *recordingInvalidator
	base   BaseDeps

	enrollments  domainagg.EnrollmentAggregate
	progress     domainagg.ProgressAggregate
	quizzes      domainagg.QuizAggregate
	certificates domainagg.CertificateAggregate
	integrity    domainagg.IntegrityAggregate
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	h := &harness{
		ctx:    context.Background(),
		db:     db,
		stores: NewStores(repos.NewSet(db, testutil.Logger(t))),
		hooks:  &spyHooks{},
		stats:  &recordingInvalidator{},
	}
	h.base = BaseDeps{
		DB:    db,
		Log:   testutil.Logger(t),
		Hooks: h.hooks,
		Now:   func() time.Time { return harnessNow },
	}
	h.enrollments = NewEnrollmentAggregate(EnrollmentAggregateDeps{Base: h.base, Stores: h.stores, Stats: h.stats})
	h.progress = NewProgressAggregate(ProgressAggregateDeps{Base: h.base, Stores: h.stores, Stats: h.stats})
	h.quizzes = NewQuizAggregate(QuizAggregateDeps{Base: h.base, Stores: h.stores, Stats: h.stats})
	h.certificates = NewCertificateAggregate(CertificateAggregateDeps{Base: h.base, Stores: h.stores})
	integrityAgg, err := NewIntegrityAggregate(IntegrityAggregateDeps{Base: h.base, Stores: h.stores, Stats: h.stats})
	if err != nil {
		t.Fatalf("NewIntegrityAggregate: %v", err)
	}
	h.integrity = integrityAgg
	return h
}

func (h *harness) dbc() dbctx.Context {
	return dbctx.Context{Ctx: h.ctx, Tx: h.db}
}

func (h *harness) enrollment(t *testing.T, id uint) *types.Enrollment {
	t.Helper()
	e, err := h.stores.Enrollments.GetByID(h.dbc(), id)
	if err != nil || e == nil {
		t.Fatalf("load enrollment %d: row=%v err=%v", id, e, err)
	}
	return e
}

func (h *harness) enroll(t *testing.T, userID uuid.UUID, courseID uint) *types.Enrollment {
	t.Helper()
	res, err := h.enrollments.Enroll(h.ctx, domainagg.EnrollInput{UserID: userID, CourseID: courseID})
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	return res.Enrollment
}

func (h *harness) completeLesson(t *testing.T, userID uuid.UUID, lessonID uint) domainagg.MarkLessonCompletedResult {
	t.Helper()
	res, err := h.progress.MarkLessonCompleted(h.ctx, domainagg.MarkLessonCompletedInput{UserID: userID, LessonID: lessonID})
	if err != nil {
		t.Fatalf("MarkLessonCompleted(%d): %v", lessonID, err)
	}
	return res
}

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if !domainagg.IsCode(err, code) {
		t.Fatalf("want code=%s got err=%v (code=%q)", code, err, domainagg.CodeOf(err))
	}
}

type recordingInvalidator struct {
	mu      sync.Mutex
	courses []uint
}

func (r *recordingInvalidator) InvalidateCourse(_ context.Context, courseID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses = append(r.courses, courseID)
}

func (r *recordingInvalidator) has(courseID uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.courses {
		if id == courseID {
			return true
		}
	}
	return false
}

// failingCommitRunner runs the body in a real transaction and then fails it.
type failingCommitRunner struct {
	inner TxRunner
}

var errInjectedCommit = errors.New("injected commit failure")

func (r failingCommitRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.inner.InTx(ctx, func(dbc dbctx.Context) error {
		if err := fn(dbc); err != nil {
			return err
		}
		return errInjectedCommit
	})
}
