package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/domain/assessment"
	"gorm.io/gorm"
)

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Category {
	tb.Helper()
	c := &types.Category{Name: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

// SeedCourse creates a published, active course with n lessons.
func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, lessons int) (*types.Course, []*types.Lesson) {
	tb.Helper()
	now := time.Now().UTC()
	c := &types.Course{
		InstructorID: uuid.New(),
		Title:        title,
		Level:        "beginner",
		Price:        49.99,
		IsPublished:  true,
		IsActive:     true,
		PublishedAt:  &now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c, SeedLessons(tb, ctx, tx, c.ID, lessons)
}

func SeedLessons(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uint, n int) []*types.Lesson {
	tb.Helper()
	out := make([]*types.Lesson, 0, n)
	for i := 0; i < n; i++ {
		l := &types.Lesson{
			CourseID:   courseID,
			Title:      fmt.Sprintf("lesson %d", i+1),
			OrderIndex: i + 1,
			IsActive:   true,
		}
		if err := tx.WithContext(ctx).Create(l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
		out = append(out, l)
	}
	return out
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseID uint, status types.EnrollmentStatus) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedCompletedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, lessonID uint) *types.LearningProgress {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.LearningProgress{
		UserID:      userID,
		LessonID:    lessonID,
		Status:      types.ProgressCompleted,
		StartedAt:   &now,
		CompletedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

// SeedQuiz creates an active quiz with platform defaults; configure may adjust it before insert.
func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uint, lessonID *uint, configure func(*types.Quiz)) *types.Quiz {
	tb.Helper()
	q := assessment.NewQuiz(courseID, lessonID, "quiz")
	if configure != nil {
		configure(q)
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

// OptionSpec describes one option of a seeded choice question.
type OptionSpec struct {
	Text    string
	Correct bool
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, quizID uint, qt types.QuestionType, points int, options ...OptionSpec) *types.QuizQuestion {
	tb.Helper()
	q := &types.QuizQuestion{
		QuizID: quizID,
		Text:   "question",
		Type:   qt,
		Points: points,
	}
	for i, o := range options {
		q.Options = append(q.Options, &types.QuizOption{Text: o.Text, IsCorrect: o.Correct, OrderIndex: i})
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

// CorrectOption returns the first correct option of q, or the first option.
func CorrectOption(q *types.QuizQuestion) *types.QuizOption {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o
		}
	}
	if len(q.Options) > 0 {
		return q.Options[0]
	}
	return nil
}

// WrongOption returns the first incorrect option of q.
func WrongOption(q *types.QuizQuestion) *types.QuizOption {
	for _, o := range q.Options {
		if !o.IsCorrect {
			return o
		}
	}
	return nil
}

func Count(tb testing.TB, ctx context.Context, tx *gorm.DB, model interface{}, where string, args ...interface{}) int64 {
	tb.Helper()
	var n int64
	q := tx.WithContext(ctx).Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
