package repos

import (
	"github.com/yungbote/courseware-backend/internal/data/repos/assessment"
	"github.com/yungbote/courseware-backend/internal/data/repos/catalog"
	"github.com/yungbote/courseware-backend/internal/data/repos/credential"
	"github.com/yungbote/courseware-backend/internal/data/repos/learning"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type CourseRepo = catalog.CourseRepo
type LessonRepo = catalog.LessonRepo
type CourseReviewRepo = catalog.CourseReviewRepo
type CourseTagRepo = catalog.CourseTagRepo

type EnrollmentRepo = learning.EnrollmentRepo
type LearningProgressRepo = learning.LearningProgressRepo
type LearningAnalyticsRepo = learning.LearningAnalyticsRepo

type QuizRepo = assessment.QuizRepo
type QuizQuestionRepo = assessment.QuizQuestionRepo
type QuizAttemptRepo = assessment.QuizAttemptRepo
type QuizAnswerRepo = assessment.QuizAnswerRepo

type CertificateRepo = credential.CertificateRepo

// Set holds one instance of every table repo over a shared *gorm.DB.
type Set struct {
	Course       CourseRepo
	Lesson       LessonRepo
	CourseReview CourseReviewRepo
	CourseTag    CourseTagRepo

	Enrollment        EnrollmentRepo
	LearningProgress  LearningProgressRepo
	LearningAnalytics LearningAnalyticsRepo

	Quiz         QuizRepo
	QuizQuestion QuizQuestionRepo
	QuizAttempt  QuizAttemptRepo
	QuizAnswer   QuizAnswerRepo

	Certificate CertificateRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) *Set {
	return &Set{
		Course:       catalog.NewCourseRepo(db, log),
		Lesson:       catalog.NewLessonRepo(db, log),
		CourseReview: catalog.NewCourseReviewRepo(db, log),
		CourseTag:    catalog.NewCourseTagRepo(db, log),

		Enrollment:        learning.NewEnrollmentRepo(db, log),
		LearningProgress:  learning.NewLearningProgressRepo(db, log),
		LearningAnalytics: learning.NewLearningAnalyticsRepo(db, log),

		Quiz:         assessment.NewQuizRepo(db, log),
		QuizQuestion: assessment.NewQuizQuestionRepo(db, log),
		QuizAttempt:  assessment.NewQuizAttemptRepo(db, log),
		QuizAnswer:   assessment.NewQuizAnswerRepo(db, log),

		Certificate: credential.NewCertificateRepo(db, log),
	}
}
