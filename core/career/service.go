package career

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/notification"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrCareerNotFound   = errors.New("career not found")
	ErrHistoryNotFound  = errors.New("recommendation history not found")
	ErrAlreadyAnswered  = errors.New("question already answered")
)

const cacheTTL = time.Hour

type (
	Repository interface {
		// QueryActiveQuestions returns active questions with their options,
		// ordered by id.
		QueryActiveQuestions(ctx context.Context) ([]Question, error)
		GetQuestionByID(ctx context.Context, id int) (Question, error)
		CreateQuestion(ctx context.Context, q Question) (Question, error)

		CreateAnswer(ctx context.Context, a Answer) (Answer, error)
		QueryStudentAnswers(ctx context.Context, studentID int) ([]Answer, error)
		DeleteStudentAnswers(ctx context.Context, studentID int) error

		QueryActiveCareers(ctx context.Context, limit int) ([]Career, error)
		CreateCareer(ctx context.Context, c Career) (Career, error)

		CreateHistory(ctx context.Context, h History) (History, error)
		GetHistoryByID(ctx context.Context, id int) (History, error)
		QueryStudentHistory(ctx context.Context, studentID, n int) ([]History, error)
		UpdateHistory(ctx context.Context, h History) error
	}

	// Results is the outcome of a completed (or partially completed)
	// questionnaire.
	Results struct {
		Scores        CategoryScores `json:"scores"`
		TopCategories []string       `json:"top_categories"`
		Careers       []Career       `json:"careers"`
		Answered      int            `json:"answered"`
	}

	// AdvancedResult bundles generated recommendations with bridging courses
	// and recent history.
	AdvancedResult struct {
		Profile         Profile          `json:"profile"`
		Recommendations Recommendation   `json:"recommendations"`
		BridgingCourses []BridgingCourse `json:"bridging_courses"`
		History         []History        `json:"history"`
	}

	Service struct {
		repo        Repository
		cache       core.Cache
		recommender *Recommender
		academics   *academics.Service
		notifier    *notification.Service
		logger      core.Logger
	}
)

func NewService(repo Repository, cache core.Cache, recommender *Recommender, academicsSvc *academics.Service, notifier *notification.Service, logger core.Logger) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		recommender: recommender,
		academics:   academicsSvc,
		notifier:    notifier,
		logger:      logger,
	}
}

// ActiveQuestions reads the questionnaire through the cache.
func (svc *Service) ActiveQuestions(ctx context.Context) ([]Question, error) {
	var questions []Question
	if hit, err := svc.cache.Get(ctx, core.CacheKeyQuestions, &questions); err != nil {
		svc.logger.Warn("career: cache read failed", "key", core.CacheKeyQuestions, "error", err)
	} else if hit {
		return questions, nil
	}

	questions, err := svc.repo.QueryActiveQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if err := svc.cache.Set(ctx, core.CacheKeyQuestions, questions, cacheTTL); err != nil {
		svc.logger.Warn("career: cache write failed", "key", core.CacheKeyQuestions, "error", err)
	}
	return questions, nil
}

// ActiveCareers reads the full active career list through the cache.
func (svc *Service) ActiveCareers(ctx context.Context) ([]Career, error) {
	var careers []Career
	if hit, err := svc.cache.Get(ctx, core.CacheKeyCareers, &careers); err != nil {
		svc.logger.Warn("career: cache read failed", "key", core.CacheKeyCareers, "error", err)
	} else if hit {
		return careers, nil
	}

	careers, err := svc.repo.QueryActiveCareers(ctx, 0)
	if err != nil {
		return nil, err
	}
	if err := svc.cache.Set(ctx, core.CacheKeyCareers, careers, cacheTTL); err != nil {
		svc.logger.Warn("career: cache write failed", "key", core.CacheKeyCareers, "error", err)
	}
	return careers, nil
}

// NextQuestion returns the first unanswered active question whose parent
// gate, if any, is satisfied. A nil question means the questionnaire is
// complete (or no question is currently reachable).
func (svc *Service) NextQuestion(ctx context.Context, studentID int) (*Question, error) {
	questions, err := svc.ActiveQuestions(ctx)
	if err != nil {
		return nil, err
	}
	answers, err := svc.repo.QueryStudentAnswers(ctx, studentID)
	if err != nil {
		return nil, err
	}

	answered := make(map[int]Answer, len(answers))
	for _, a := range answers {
		answered[a.QuestionID] = a
	}

	for i := range questions {
		q := questions[i]
		if _, ok := answered[q.ID]; ok {
			continue
		}
		if !q.ParentQuestionID.Valid {
			return &q, nil
		}
		parent, ok := answered[q.ParentQuestionID.Int]
		if ok && q.RequiredAnswer.Valid && parent.Score >= q.RequiredAnswer.Int {
			return &q, nil
		}
	}
	return nil, nil
}

// SubmitAnswer records one answer. It reports whether the questionnaire is
// now complete.
func (svc *Service) SubmitAnswer(ctx context.Context, studentID int, na NewAnswer) (done bool, err error) {
	question, err := svc.repo.GetQuestionByID(ctx, na.QuestionID)
	if err != nil {
		return false, err
	}
	if !question.IsActive {
		return false, ErrQuestionNotFound
	}

	answers, err := svc.repo.QueryStudentAnswers(ctx, studentID)
	if err != nil {
		return false, err
	}
	for _, a := range answers {
		if a.QuestionID == na.QuestionID {
			return false, core.NewValidationError(ErrAlreadyAnswered)
		}
	}

	if _, err = svc.repo.CreateAnswer(ctx, Answer{
		StudentID:  studentID,
		QuestionID: na.QuestionID,
		Score:      na.Score,
	}); err != nil {
		return false, err
	}

	next, err := svc.NextQuestion(ctx, studentID)
	if err != nil {
		return false, err
	}
	return next == nil, nil
}

// Retake wipes the student's answers and invalidates the question cache so a
// fresh run sees current questions.
func (svc *Service) Retake(ctx context.Context, studentID int) error {
	if err := svc.repo.DeleteStudentAnswers(ctx, studentID); err != nil {
		return err
	}
	if err := svc.cache.Delete(ctx, core.CacheKeyQuestions); err != nil {
		svc.logger.Warn("career: cache invalidation failed", "key", core.CacheKeyQuestions, "error", err)
	}
	return nil
}

// Results scores the student's answers and resolves up to three active
// careers per top category. With no positive category scores it falls back to
// the first three active careers.
func (svc *Service) Results(ctx context.Context, studentID int) (Results, error) {
	questions, err := svc.ActiveQuestions(ctx)
	if err != nil {
		return Results{}, err
	}
	answers, err := svc.repo.QueryStudentAnswers(ctx, studentID)
	if err != nil {
		return Results{}, err
	}

	scores := ScoreCategories(answers, questions)
	top := Rank(scores)
	res := Results{Scores: scores, TopCategories: top, Answered: len(answers)}

	careers, err := svc.ActiveCareers(ctx)
	if err != nil {
		return Results{}, err
	}
	for _, cat := range top {
		n := 0
		for _, c := range careers {
			if c.Category != cat {
				continue
			}
			res.Careers = append(res.Careers, c)
			if n++; n == 3 {
				break
			}
		}
	}
	if len(res.Careers) == 0 {
		res.Careers = careers[:min(3, len(careers))]
	}
	return res, nil
}

// AdvancedRecommendations builds the student profile, generates career
// recommendations and bridging courses, appends a history record and
// notifies the student.
func (svc *Service) AdvancedRecommendations(ctx context.Context, studentID int) (AdvancedResult, error) {
	student, err := svc.academics.StudentByID(ctx, studentID)
	if err != nil {
		return AdvancedResult{}, err
	}
	profile, err := svc.buildProfile(ctx, studentID)
	if err != nil {
		return AdvancedResult{}, err
	}

	rec := svc.recommender.Recommend(ctx, profile)
	courses := BridgingCourses(profile.PerformanceGrade, profile.Categories)

	courseNames := make([]string, 0, len(courses))
	for _, c := range courses {
		courseNames = append(courseNames, c.CourseName)
	}
	if _, err := svc.repo.CreateHistory(ctx, History{
		StudentID: studentID,
		Careers:   rec.Careers,
		Skills:    rec.Skills,
		Courses:   courseNames,
		LLMUsed:   rec.LLMUsed,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return AdvancedResult{}, err
	}

	topPick := "Check your dashboard"
	if len(rec.Careers) > 0 {
		topPick = rec.Careers[0]
	}
	if _, err := svc.notifier.Notify(ctx, notification.NewNotification{
		StudentID: null.IntFrom(studentID),
		Email:     student.Email,
		Title:     "New Career Recommendations Available",
		Message: fmt.Sprintf("We have generated personalized career recommendations based on your profile. Top recommendation: %s",
			topPick),
		Type:     notification.TypeCareer,
		Priority: notification.PriorityMedium,
	}); err != nil {
		return AdvancedResult{}, err
	}

	history, err := svc.repo.QueryStudentHistory(ctx, studentID, 3)
	if err != nil {
		return AdvancedResult{}, err
	}
	return AdvancedResult{
		Profile:         profile,
		Recommendations: rec,
		BridgingCourses: courses,
		History:         history,
	}, nil
}

// buildProfile derives the recommender input from academic metrics and
// questionnaire scores. Strong subjects are those averaging 75% or better.
func (svc *Service) buildProfile(ctx context.Context, studentID int) (Profile, error) {
	metrics, err := svc.academics.MetricsFor(ctx, studentID)
	if err != nil {
		return Profile{}, err
	}
	questions, err := svc.ActiveQuestions(ctx)
	if err != nil {
		return Profile{}, err
	}
	answers, err := svc.repo.QueryStudentAnswers(ctx, studentID)
	if err != nil {
		return Profile{}, err
	}

	var strong []string
	for _, subject := range metrics.Subjects {
		if metrics.SubjectAverages[subject] >= 75 {
			strong = append(strong, subject)
		}
	}

	liked := interested(ScoreCategories(answers, questions))
	interests := liked[:min(3, len(liked))]
	if len(interests) == 0 {
		interests = []string{"Technology"}
	}
	categories := liked[:min(2, len(liked))]
	if len(categories) == 0 {
		categories = []string{"Tech"}
	}

	return Profile{
		PerformanceGrade: metrics.TestAverage,
		StrongSubjects:   strong,
		Interests:        interests,
		Skills:           []string{"Problem Solving", "Critical Thinking"},
		Categories:       categories,
		TestAverage:      metrics.TestAverage,
	}, nil
}

// RateRecommendation records a 1 to 5 usefulness rating on one of the
// student's own history entries.
func (svc *Service) RateRecommendation(ctx context.Context, studentID, historyID, rating int) error {
	if rating < 1 || rating > 5 {
		return core.NewValidationError(nil, core.FieldError{Field: "rating", Error: "must be between 1 and 5"})
	}
	h, err := svc.repo.GetHistoryByID(ctx, historyID)
	if err != nil {
		return err
	}
	if h.StudentID != studentID {
		return ErrHistoryNotFound
	}
	h.FeedbackRating = null.IntFrom(rating)
	return svc.repo.UpdateHistory(ctx, h)
}

func (svc *Service) RecommendationHistory(ctx context.Context, studentID, n int) ([]History, error) {
	return svc.repo.QueryStudentHistory(ctx, studentID, n)
}

// AddQuestion creates a questionnaire question and drops the cached set.
func (svc *Service) AddQuestion(ctx context.Context, nq NewQuestion) (Question, error) {
	q, err := svc.repo.CreateQuestion(ctx, Question{
		Text:     nq.Text,
		Category: nq.Category,
		IsActive: true,
		Options:  nq.Options,
	})
	if err != nil {
		return Question{}, err
	}
	if err := svc.cache.Delete(ctx, core.CacheKeyQuestions); err != nil {
		svc.logger.Warn("career: cache invalidation failed", "key", core.CacheKeyQuestions, "error", err)
	}
	return q, nil
}

// AddCareer creates a career and drops the cached career list.
func (svc *Service) AddCareer(ctx context.Context, nc NewCareer) (Career, error) {
	c, err := svc.repo.CreateCareer(ctx, Career{
		Name:        nc.Name,
		Description: nc.Description,
		Category:    nc.Category,
		IsActive:    true,
	})
	if err != nil {
		return Career{}, err
	}
	if err := svc.cache.Delete(ctx, core.CacheKeyCareers); err != nil {
		svc.logger.Warn("career: cache invalidation failed", "key", core.CacheKeyCareers, "error", err)
	}
	return c, nil
}
