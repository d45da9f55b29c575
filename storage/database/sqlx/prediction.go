package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/academics"
	"github.com/edusight/edusight/core/prediction"
)

// factorsColumn stores a feature vector as JSONB.
type factorsColumn academics.FeatureVector

func (f factorsColumn) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *factorsColumn) Scan(src interface{}) error {
	raw, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unsupported factors column type %T", src)
	}
	return json.Unmarshal(raw, f)
}

type predictionRow struct {
	ID             int             `db:"id"`
	StudentID      int             `db:"student_id"`
	PredictedGrade float64         `db:"predicted_grade"`
	ActualGrade    sql.NullFloat64 `db:"actual_grade"`
	PredictionDate time.Time       `db:"prediction_date"`
	Confidence     string          `db:"confidence_level"`
	Trend          string          `db:"trend"`
	Factors        factorsColumn   `db:"factors"`
}

func (r predictionRow) toPrediction() prediction.PerformancePrediction {
	p := prediction.PerformancePrediction{
		ID:             r.ID,
		StudentID:      r.StudentID,
		PredictedGrade: r.PredictedGrade,
		PredictionDate: r.PredictionDate,
		Confidence:     r.Confidence,
		Trend:          r.Trend,
		Factors:        academics.FeatureVector(r.Factors),
	}
	if r.ActualGrade.Valid {
		p.ActualGrade = null.Float64From(r.ActualGrade.Float64)
	}
	return p
}

type predictionRepository struct {
	db *sqlx.DB
}

var _ prediction.Repository = (*predictionRepository)(nil) // interface compliance check

func NewPredictionRepository(db *sqlx.DB) prediction.Repository {
	return &predictionRepository{db: db}
}

func (repo *predictionRepository) CreatePrediction(ctx context.Context, p prediction.PerformancePrediction) (prediction.PerformancePrediction, error) {
	const q = `
INSERT INTO performance_predictions (student_id, predicted_grade, actual_grade, prediction_date, confidence_level, trend, factors)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	var actual interface{}
	if p.ActualGrade.Valid {
		actual = p.ActualGrade.Float64
	}
	err := repo.db.QueryRowContext(
		ctx, q, p.StudentID, p.PredictedGrade, actual, p.PredictionDate, p.Confidence, p.Trend, factorsColumn(p.Factors),
	).Scan(&p.ID)
	if err != nil {
		return prediction.PerformancePrediction{}, errors.Wrap(err, "inserting prediction")
	}
	return p, nil
}

func (repo *predictionRepository) GetPredictionByID(ctx context.Context, id int) (prediction.PerformancePrediction, error) {
	var row predictionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM performance_predictions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return prediction.PerformancePrediction{}, prediction.ErrPredictionNotFound
	}
	if err != nil {
		return prediction.PerformancePrediction{}, errors.Wrap(err, "getting prediction")
	}
	return row.toPrediction(), nil
}

func (repo *predictionRepository) QueryStudentPredictions(ctx context.Context, studentID, n int) ([]prediction.PerformancePrediction, error) {
	q := `SELECT * FROM performance_predictions WHERE student_id = $1 ORDER BY prediction_date DESC, id DESC`
	args := []interface{}{studentID}
	if n > 0 {
		args = append(args, n)
		q += ` LIMIT $2`
	}

	var rows []predictionRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying predictions")
	}
	predictions := make([]prediction.PerformancePrediction, 0, len(rows))
	for _, row := range rows {
		predictions = append(predictions, row.toPrediction())
	}
	return predictions, nil
}

func (repo *predictionRepository) CreateStrategies(ctx context.Context, strategies []prediction.ImprovementStrategy) error {
	if len(strategies) == 0 {
		return nil
	}
	const q = `
INSERT INTO improvement_strategies (student_id, strategy_text, priority, category, is_active, completed, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, s := range strategies {
		if _, err := repo.db.ExecContext(ctx, q, s.StudentID, s.StrategyText, s.Priority, s.Category, s.IsActive, s.Completed, s.CreatedAt); err != nil {
			return errors.Wrap(err, "inserting strategy")
		}
	}
	return nil
}

func (repo *predictionRepository) GetStrategyByID(ctx context.Context, id int) (prediction.ImprovementStrategy, error) {
	var s prediction.ImprovementStrategy
	err := repo.db.GetContext(ctx, &s, `SELECT * FROM improvement_strategies WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return prediction.ImprovementStrategy{}, prediction.ErrStrategyNotFound
	}
	if err != nil {
		return prediction.ImprovementStrategy{}, errors.Wrap(err, "getting strategy")
	}
	return s, nil
}

func (repo *predictionRepository) QueryStudentStrategies(ctx context.Context, studentID int, activeOnly bool) ([]prediction.ImprovementStrategy, error) {
	q := `SELECT * FROM improvement_strategies WHERE student_id = $1`
	if activeOnly {
		q += ` AND is_active`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	strategies := make([]prediction.ImprovementStrategy, 0)
	if err := repo.db.SelectContext(ctx, &strategies, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying strategies")
	}
	return strategies, nil
}

func (repo *predictionRepository) UpdateStrategy(ctx context.Context, s prediction.ImprovementStrategy) error {
	res, err := repo.db.ExecContext(ctx, `
UPDATE improvement_strategies SET strategy_text = $1, priority = $2, category = $3, is_active = $4, completed = $5
WHERE id = $6`, s.StrategyText, s.Priority, s.Category, s.IsActive, s.Completed, s.ID)
	if err != nil {
		return errors.Wrap(err, "updating strategy")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return prediction.ErrStrategyNotFound
	}
	return nil
}

func (repo *predictionRepository) CreateFeedback(ctx context.Context, f prediction.Feedback) (prediction.Feedback, error) {
	const q = `
INSERT INTO prediction_feedback (prediction_id, student_id, accuracy_rating, usefulness_rating, comments, actual_grade, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	var actual interface{}
	if f.ActualGrade.Valid {
		actual = f.ActualGrade.Float64
	}
	err := repo.db.QueryRowContext(
		ctx, q, f.PredictionID, f.StudentID, f.AccuracyRating, f.UsefulnessRating, f.Comments, actual, f.CreatedAt,
	).Scan(&f.ID)
	if err != nil {
		return prediction.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return f, nil
}

func (repo *predictionRepository) HasFeedbackForPrediction(ctx context.Context, predictionID int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `
SELECT EXISTS (SELECT 1 FROM prediction_feedback WHERE prediction_id = $1)`, predictionID)
	if err != nil {
		return false, errors.Wrap(err, "checking feedback")
	}
	return exists, nil
}

func (repo *predictionRepository) QueryTrainingRows(ctx context.Context) ([]prediction.TrainingRow, error) {
	var rows []struct {
		Factors     factorsColumn `db:"factors"`
		ActualGrade float64       `db:"actual_grade"`
	}
	err := repo.db.SelectContext(ctx, &rows, `
SELECT p.factors, f.actual_grade
FROM prediction_feedback f
JOIN performance_predictions p ON p.id = f.prediction_id
WHERE f.actual_grade IS NOT NULL
ORDER BY f.id`)
	if err != nil {
		return nil, errors.Wrap(err, "querying training rows")
	}

	training := make([]prediction.TrainingRow, 0, len(rows))
	for _, row := range rows {
		training = append(training, prediction.TrainingRow{
			Features:    academics.FeatureVector(row.Factors),
			ActualGrade: row.ActualGrade,
		})
	}
	return training, nil
}
