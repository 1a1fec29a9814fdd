package aggregates

import (
	"context"

	"github.com/yungbote/courseware-backend/internal/data/repos"
)

// Stores groups the table repos the course aggregates read and write.
// Every aggregate takes the same bundle so completion and certificate
// evaluation can run inside whichever write triggered them.
type Stores struct {
	Courses      repos.CourseRepo
	Lessons      repos.LessonRepo
	Enrollments  repos.EnrollmentRepo
	Progress     repos.LearningProgressRepo
	Analytics    repos.LearningAnalyticsRepo
	Quizzes      repos.QuizRepo
	Questions    repos.QuizQuestionRepo
	Attempts     repos.QuizAttemptRepo
	Answers      repos.QuizAnswerRepo
	Certificates repos.CertificateRepo
}

func NewStores(set *repos.Set) Stores {
	if set == nil {
		return Stores{}
	}
	return Stores{
		Courses:      set.Course,
		Lessons:      set.Lesson,
		Enrollments:  set.Enrollment,
		Progress:     set.LearningProgress,
		Analytics:    set.LearningAnalytics,
		Quizzes:      set.Quiz,
		Questions:    set.QuizQuestion,
		Attempts:     set.QuizAttempt,
		Answers:      set.QuizAnswer,
		Certificates: set.Certificate,
	}
}

func (s Stores) complete() bool {
	return s.Courses != nil && s.Lessons != nil && s.Enrollments != nil && s.Progress != nil &&
		s.Quizzes != nil && s.Questions != nil && s.Attempts != nil && s.Answers != nil &&
		s.Certificates != nil && s.Analytics != nil
}

// CourseStatsInvalidator drops cached course statistics after a committed write.
type CourseStatsInvalidator interface {
	InvalidateCourse(ctx context.Context, courseID uint)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateCourse(context.Context, uint) {}

func invalidatorOrNoop(inv CourseStatsInvalidator) CourseStatsInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}
