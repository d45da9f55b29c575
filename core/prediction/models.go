package prediction

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/academics"
)

// Confidence levels
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Trends
const (
	TrendImproving = "Improving"
	TrendStable    = "Stable"
	TrendDeclining = "Declining"
)

// Strategy priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Result is the outcome of one prediction request. Immutable once produced.
type Result struct {
	PredictedGrade float64 `json:"predicted_grade"`
	Confidence     string  `json:"confidence"`
	Trend          string  `json:"trend"`
}

// PerformancePrediction is the persisted, append-only audit record of a
// Result together with the feature vector that produced it.
type PerformancePrediction struct {
	ID             int                     `json:"id"`
	StudentID      int                     `json:"student_id"`
	PredictedGrade float64                 `json:"predicted_grade"`
	ActualGrade    null.Float64            `json:"actual_grade"`
	PredictionDate time.Time               `json:"prediction_date"` // UTC
	Confidence     string                  `json:"confidence_level"`
	Trend          string                  `json:"trend"`
	Factors        academics.FeatureVector `json:"factors"`
}

// StrategyBundle is the derived improvement plan for one prediction.
type StrategyBundle struct {
	PriorityAreas        []string `json:"priority_areas"`
	Strategies           []string `json:"strategies"`
	EstimatedImprovement float64  `json:"estimated_improvement"`
	Timeline             string   `json:"timeline"`
}

// ImprovementStrategy is one persisted strategy row with its lifecycle flags.
type ImprovementStrategy struct {
	ID           int       `json:"id"`
	StudentID    int       `json:"student_id"`
	StrategyText string    `json:"strategy_text"`
	Priority     string    `json:"priority"`
	Category     string    `json:"category"`
	IsActive     bool      `json:"is_active"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// Feedback is a student's rating of one prediction.
type Feedback struct {
	ID               int          `json:"id"`
	PredictionID     int          `json:"prediction_id"`
	StudentID        int          `json:"student_id"`
	AccuracyRating   int          `json:"accuracy_rating"`
	UsefulnessRating int          `json:"usefulness_rating"`
	Comments         string       `json:"comments"`
	ActualGrade      null.Float64 `json:"actual_grade"`
	CreatedAt        time.Time    `json:"created_at"` // UTC
}

// NewFeedback is the boundary input for Feedback.
type NewFeedback struct {
	PredictionID     int          `json:"prediction_id" validate:"required"`
	AccuracyRating   int          `json:"accuracy_rating" validate:"required,min=1,max=5"`
	UsefulnessRating int          `json:"usefulness_rating" validate:"required,min=1,max=5"`
	Comments         string       `json:"comments"`
	ActualGrade      null.Float64 `json:"actual_grade"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	return validate.Struct(nf)
}

// Outcome bundles everything one prediction request produces.
type Outcome struct {
	Prediction PerformancePrediction `json:"prediction"`
	Strategies StrategyBundle        `json:"strategies"`
	Factors    academics.FeatureVector `json:"factors"`
}
