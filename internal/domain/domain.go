package domain

import (
	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/domain/assessment"
	"github.com/yungbote/courseware-backend/internal/domain/catalog"
	"github.com/yungbote/courseware-backend/internal/domain/credential"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/domain/user"
)

// ActorID identifies a learner or instructor. It is issued by the identity
// provider and treated as opaque.
type ActorID = uuid.UUID

type Category = catalog.Category
type Course = catalog.Course
type CourseLevel = catalog.CourseLevel
type Lesson = catalog.Lesson
type LessonResource = catalog.LessonResource
type CourseReview = catalog.CourseReview
type Tag = catalog.Tag
type CourseTag = catalog.CourseTag

type Enrollment = learning.Enrollment
type EnrollmentStatus = learning.EnrollmentStatus
type LearningProgress = learning.LearningProgress
type ProgressStatus = learning.ProgressStatus
type LearningAnalytics = learning.LearningAnalytics
type ClientInfo = learning.ClientInfo

type Quiz = assessment.Quiz
type QuizType = assessment.QuizType
type QuizQuestion = assessment.QuizQuestion
type QuestionType = assessment.QuestionType
type QuizOption = assessment.QuizOption
type QuizAttempt = assessment.QuizAttempt
type QuizAnswer = assessment.QuizAnswer

type Certificate = credential.Certificate

type UserAchievement = user.UserAchievement
type UserSkill = user.UserSkill

const (
	EnrollmentActive    = learning.EnrollmentActive
	EnrollmentCompleted = learning.EnrollmentCompleted
	EnrollmentSuspended = learning.EnrollmentSuspended
	EnrollmentCancelled = learning.EnrollmentCancelled
	EnrollmentExpired   = learning.EnrollmentExpired

	ProgressNotStarted = learning.ProgressNotStarted
	ProgressInProgress = learning.ProgressInProgress
	ProgressCompleted  = learning.ProgressCompleted
	ProgressSkipped    = learning.ProgressSkipped

	ActionView     = learning.ActionView
	ActionComplete = learning.ActionComplete
	ActionQuiz     = learning.ActionQuiz
	ContentLesson  = learning.ContentLesson
	ContentQuiz    = learning.ContentQuiz

	QuestionMultipleChoice = assessment.QuestionMultipleChoice
	QuestionTrueFalse      = assessment.QuestionTrueFalse
	QuestionEssay          = assessment.QuestionEssay
	QuestionFillInBlank    = assessment.QuestionFillInBlank
)

// Models lists every persisted entity in migration order.
func Models() []interface{} {
	return []interface{}{
		&Category{},
		&Course{},
		&Lesson{},
		&LessonResource{},
		&CourseReview{},
		&Tag{},
		&CourseTag{},

		&Enrollment{},
		&LearningProgress{},
		&LearningAnalytics{},

		&Quiz{},
		&QuizQuestion{},
		&QuizOption{},
		&QuizAttempt{},
		&QuizAnswer{},

		&Certificate{},

		&UserAchievement{},
		&UserSkill{},
	}
}
