package dummydb

import (
	"context"
	"sort"

	"github.com/edusight/edusight/core/prediction"
)

type predictionRepository struct {
	db *predictionTables
}

var _ prediction.Repository = (*predictionRepository)(nil) // interface compliance check

func NewPredictionRepository(db *DB) prediction.Repository {
	return &predictionRepository{db: db.prediction}
}

func (repo *predictionRepository) CreatePrediction(ctx context.Context, p prediction.PerformancePrediction) (prediction.PerformancePrediction, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.predictionPK++
	p.ID = repo.db.predictionPK
	repo.db.predictions[p.ID] = &p
	return p, nil
}

func (repo *predictionRepository) GetPredictionByID(ctx context.Context, id int) (prediction.PerformancePrediction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.predictions[id]; ok {
		return *p, nil
	}
	return prediction.PerformancePrediction{}, prediction.ErrPredictionNotFound
}

func (repo *predictionRepository) QueryStudentPredictions(ctx context.Context, studentID, n int) ([]prediction.PerformancePrediction, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []prediction.PerformancePrediction
	for _, p := range repo.db.predictions {
		if p.StudentID == studentID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PredictionDate.After(out[j].PredictionDate) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (repo *predictionRepository) CreateStrategies(ctx context.Context, strategies []prediction.ImprovementStrategy) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range strategies {
		repo.db.strategyPK++
		s.ID = repo.db.strategyPK
		repo.db.strategies[s.ID] = &s
	}
	return nil
}

func (repo *predictionRepository) GetStrategyByID(ctx context.Context, id int) (prediction.ImprovementStrategy, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.strategies[id]; ok {
		return *s, nil
	}
	return prediction.ImprovementStrategy{}, prediction.ErrStrategyNotFound
}

func (repo *predictionRepository) QueryStudentStrategies(ctx context.Context, studentID int, activeOnly bool) ([]prediction.ImprovementStrategy, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var out []prediction.ImprovementStrategy
	for _, s := range repo.db.strategies {
		if s.StudentID != studentID {
			continue
		}
		if activeOnly && (!s.IsActive || s.Completed) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (repo *predictionRepository) UpdateStrategy(ctx context.Context, s prediction.ImprovementStrategy) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.strategies[s.ID]; !ok {
		return prediction.ErrStrategyNotFound
	}
	repo.db.strategies[s.ID] = &s
	return nil
}

func (repo *predictionRepository) CreateFeedback(ctx context.Context, f prediction.Feedback) (prediction.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.feedbackPK++
	f.ID = repo.db.feedbackPK
	repo.db.feedback[f.ID] = &f
	return f, nil
}

func (repo *predictionRepository) HasFeedbackForPrediction(ctx context.Context, predictionID int) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, f := range repo.db.feedback {
		if f.PredictionID == predictionID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *predictionRepository) QueryTrainingRows(ctx context.Context) ([]prediction.TrainingRow, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	feedback := make([]*prediction.Feedback, 0, len(repo.db.feedback))
	for _, f := range repo.db.feedback {
		feedback = append(feedback, f)
	}
	sort.Slice(feedback, func(i, j int) bool { return feedback[i].ID < feedback[j].ID })

	var rows []prediction.TrainingRow
	for _, f := range feedback {
		if !f.ActualGrade.Valid {
			continue
		}
		p, ok := repo.db.predictions[f.PredictionID]
		if !ok {
			continue
		}
		rows = append(rows, prediction.TrainingRow{
			Features:    p.Factors,
			ActualGrade: f.ActualGrade.Float64,
		})
	}
	return rows, nil
}
