package prediction

import (
	"math"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/academics"
)

// Fallback formula weights.
const (
	baseScore           = 70.0
	attendanceWeight    = 0.3
	testWeight          = 0.4
	participationWeight = 0.3
)

// Engine maps a feature vector to a prediction result, via the persisted
// regression artifact when one is loaded and the deterministic fallback
// formula otherwise.
type Engine struct {
	artifact *Artifact
}

func NewEngine(artifact *Artifact) *Engine {
	return &Engine{artifact: artifact}
}

// HasModel reports whether a trained artifact is loaded.
func (e *Engine) HasModel() bool { return e.artifact.valid() }

func (e *Engine) Predict(v academics.FeatureVector) Result {
	if !e.HasModel() {
		return e.defaultPrediction(v)
	}

	predicted := core.Clamp(e.artifact.Apply(v), 0, 100)
	return Result{
		PredictedGrade: round2(predicted),
		Confidence:     calculateConfidence(v),
		Trend:          analyzeTrend(v),
	}
}

// defaultPrediction is the deterministic fallback used when no trained
// artifact is present.
func (e *Engine) defaultPrediction(v academics.FeatureVector) Result {
	predicted := baseScore +
		(v.AttendanceRate-75)*attendanceWeight +
		(v.TestAverage-70)*testWeight +
		(v.ParticipationScore-70)*participationWeight

	return Result{
		PredictedGrade: round2(core.Clamp(predicted, 0, 100)),
		Confidence:     ConfidenceMedium,
		Trend:          TrendStable,
	}
}

// calculateConfidence buckets data completeness: the count of available
// completeness fields (attendance rate, test average, assignments) is divided
// by the full feature-set size of 7, not by 3. Kept as-is for parity with
// historical predictions.
func calculateConfidence(v academics.FeatureVector) string {
	completenessFields := []float64{v.AttendanceRate, v.TestAverage, v.AssignmentsCompleted}
	completeness := float64(len(completenessFields)) / float64(featureCount)

	switch {
	case completeness > 0.8:
		return ConfidenceHigh
	case completeness > 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func analyzeTrend(v academics.FeatureVector) string {
	current, previous := v.TestAverage, v.PreviousGrade
	switch {
	case current-previous > 5:
		return TrendImproving
	case previous-current > 5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
