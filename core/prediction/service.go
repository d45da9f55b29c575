package prediction

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
	ErrPredictionNotFound = errors.New("prediction not found")
	ErrStrategyNotFound   = errors.New("strategy not found")
	ErrFeedbackExists     = errors.New("feedback already submitted for this prediction")
)

type (
	Repository interface {
		CreatePrediction(ctx context.Context, p PerformancePrediction) (PerformancePrediction, error)
		GetPredictionByID(ctx context.Context, id int) (PerformancePrediction, error)
		// QueryStudentPredictions returns predictions most recent first,
		// limited to n (0 = all).
		QueryStudentPredictions(ctx context.Context, studentID, n int) ([]PerformancePrediction, error)

		CreateStrategies(ctx context.Context, strategies []ImprovementStrategy) error
		GetStrategyByID(ctx context.Context, id int) (ImprovementStrategy, error)
		QueryStudentStrategies(ctx context.Context, studentID int, activeOnly bool) ([]ImprovementStrategy, error)
		UpdateStrategy(ctx context.Context, s ImprovementStrategy) error

		CreateFeedback(ctx context.Context, f Feedback) (Feedback, error)
		HasFeedbackForPrediction(ctx context.Context, predictionID int) (bool, error)
		// QueryTrainingRows joins feedback carrying an actual grade with the
		// factor vectors of the predictions they rate.
		QueryTrainingRows(ctx context.Context) ([]TrainingRow, error)
	}

	Service struct {
		repo      Repository
		engine    *Engine
		academics *academics.Service
		notifier  *notification.Service
		logger    core.Logger
	}
)

func NewService(repo Repository, engine *Engine, academicsSvc *academics.Service, notifier *notification.Service, logger core.Logger) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		academics: academicsSvc,
		notifier:  notifier,
		logger:    logger,
	}
}

// Predict runs the full per-student pipeline: aggregate records into a
// feature vector, predict, persist the audit record, derive and persist
// improvement strategies, and notify the student.
func (svc *Service) Predict(ctx context.Context, studentID int) (Outcome, error) {
	student, err := svc.academics.StudentByID(ctx, studentID)
	if err != nil {
		return Outcome{}, err
	}

	vector, err := svc.academics.FeatureVectorFor(ctx, studentID)
	if err != nil {
		return Outcome{}, err
	}
	res := svc.engine.Predict(vector)

	pred, err := svc.repo.CreatePrediction(ctx, PerformancePrediction{
		StudentID:      studentID,
		PredictedGrade: res.PredictedGrade,
		PredictionDate: time.Now().UTC(),
		Confidence:     res.Confidence,
		Trend:          res.Trend,
		Factors:        vector,
	})
	if err != nil {
		return Outcome{}, err
	}

	bundle := GenerateStrategies(vector, res)
	if err := svc.persistStrategies(ctx, studentID, bundle); err != nil {
		return Outcome{}, err
	}

	priority := notification.PriorityMedium
	if res.PredictedGrade < 60 {
		priority = notification.PriorityHigh
	}
	if _, err := svc.notifier.Notify(ctx, notification.NewNotification{
		StudentID: null.IntFrom(studentID),
		Email:     student.Email,
		Title:     "New Performance Prediction Available",
		Message: fmt.Sprintf("Your predicted grade is %.2f%% with %s confidence. Your performance trend is %s.",
			res.PredictedGrade, res.Confidence, res.Trend),
		Type:     notification.TypePerformance,
		Priority: priority,
	}); err != nil {
		return Outcome{}, err
	}

	return Outcome{Prediction: pred, Strategies: bundle, Factors: vector}, nil
}

// persistStrategies stores one row per strategy text: High priority for the
// first two entries, Medium after that. Every row carries the first fired
// priority area as its category ("general" when none fired).
func (svc *Service) persistStrategies(ctx context.Context, studentID int, bundle StrategyBundle) error {
	if len(bundle.Strategies) == 0 {
		return nil
	}
	category := AreaGeneral
	if len(bundle.PriorityAreas) > 0 {
		category = bundle.PriorityAreas[0]
	}
	now := time.Now().UTC()
	rows := make([]ImprovementStrategy, 0, len(bundle.Strategies))
	for i, text := range bundle.Strategies {
		priority := PriorityMedium
		if i < 2 {
			priority = PriorityHigh
		}
		rows = append(rows, ImprovementStrategy{
			StudentID:    studentID,
			StrategyText: text,
			Priority:     priority,
			Category:     category,
			IsActive:     true,
			CreatedAt:    now,
		})
	}
	return svc.repo.CreateStrategies(ctx, rows)
}

func (svc *Service) RecentPredictions(ctx context.Context, studentID, n int) ([]PerformancePrediction, error) {
	return svc.repo.QueryStudentPredictions(ctx, studentID, n)
}

// SubmitFeedback records a student's rating of one of their own predictions.
func (svc *Service) SubmitFeedback(ctx context.Context, studentID int, nf NewFeedback) (Feedback, error) {
	pred, err := svc.repo.GetPredictionByID(ctx, nf.PredictionID)
	if err != nil {
		return Feedback{}, err
	}
	if pred.StudentID != studentID {
		return Feedback{}, ErrPredictionNotFound
	}
	if exists, err := svc.repo.HasFeedbackForPrediction(ctx, nf.PredictionID); err != nil {
		return Feedback{}, err
	} else if exists {
		return Feedback{}, core.NewValidationError(ErrFeedbackExists)
	}
	return svc.repo.CreateFeedback(ctx, Feedback{
		PredictionID:     nf.PredictionID,
		StudentID:        studentID,
		AccuracyRating:   nf.AccuracyRating,
		UsefulnessRating: nf.UsefulnessRating,
		Comments:         nf.Comments,
		ActualGrade:      nf.ActualGrade,
		CreatedAt:        time.Now().UTC(),
	})
}

// Strategies returns a student's active strategies plus the five most recent
// completed ones and the overall completion rate.
func (svc *Service) Strategies(ctx context.Context, studentID int) (active, completed []ImprovementStrategy, completionRate float64, err error) {
	all, err := svc.repo.QueryStudentStrategies(ctx, studentID, false)
	if err != nil {
		return nil, nil, 0, err
	}
	for _, s := range all {
		switch {
		case s.Completed:
			if len(completed) < 5 {
				completed = append(completed, s)
			}
		case s.IsActive:
			active = append(active, s)
		}
	}
	var completedTotal int
	for _, s := range all {
		if s.Completed {
			completedTotal++
		}
	}
	if total := len(active) + completedTotal; total > 0 {
		completionRate = float64(completedTotal) / float64(total) * 100
	}
	return active, completed, completionRate, nil
}

func (svc *Service) CompleteStrategy(ctx context.Context, studentID, strategyID int) error {
	return svc.updateStrategy(ctx, studentID, strategyID, func(s *ImprovementStrategy) {
		s.Completed = true
	})
}

func (svc *Service) DismissStrategy(ctx context.Context, studentID, strategyID int) error {
	return svc.updateStrategy(ctx, studentID, strategyID, func(s *ImprovementStrategy) {
		s.IsActive = false
	})
}

func (svc *Service) updateStrategy(ctx context.Context, studentID, strategyID int, apply func(*ImprovementStrategy)) error {
	s, err := svc.repo.GetStrategyByID(ctx, strategyID)
	if err != nil {
		return err
	}
	if s.StudentID != studentID {
		return ErrStrategyNotFound
	}
	apply(&s)
	return svc.repo.UpdateStrategy(ctx, s)
}

// TrainingRows exposes the labeled history used by the training command.
func (svc *Service) TrainingRows(ctx context.Context) ([]TrainingRow, error) {
	return svc.repo.QueryTrainingRows(ctx)
}
