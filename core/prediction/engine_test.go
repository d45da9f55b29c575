package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edusight/edusight/core/academics"
)

func TestEngine_Predict_Fallback(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("deterministic", func(t *testing.T) {
		v := academics.FeatureVector{
			AttendanceRate:     85,
			TestAverage:        72,
			ParticipationScore: 64,
		}
		first := engine.Predict(v)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, engine.Predict(v))
		}
	})

	t.Run("formula", func(t *testing.T) {
		v := academics.FeatureVector{
			AttendanceRate:     85,
			TestAverage:        80,
			ParticipationScore: 60,
		}
		// 70 + 0.3*10 + 0.4*10 + 0.3*(-10) = 74
		res := engine.Predict(v)
		assert.InDelta(t, 74.0, res.PredictedGrade, 1e-9)
		assert.Equal(t, ConfidenceMedium, res.Confidence)
		assert.Equal(t, TrendStable, res.Trend)
	})

	t.Run("neutral input stays at the base score", func(t *testing.T) {
		v := academics.FeatureVector{AttendanceRate: 75, TestAverage: 70, ParticipationScore: 70}
		assert.Equal(t, 70.0, engine.Predict(v).PredictedGrade)
	})

	t.Run("output clamped to [0, 100]", func(t *testing.T) {
		zero := engine.Predict(academics.FeatureVector{})
		assert.GreaterOrEqual(t, zero.PredictedGrade, 0.0)

		perfect := engine.Predict(academics.FeatureVector{
			AttendanceRate:     100,
			TestAverage:        100,
			ParticipationScore: 100,
		})
		assert.LessOrEqual(t, perfect.PredictedGrade, 100.0)
	})
}

func TestEngine_Predict_Model(t *testing.T) {
	// identity scaler, weight 1 on test average only
	artifact := &Artifact{
		Intercept:    0,
		Coefficients: []float64{0, 1, 0, 0, 0, 0, 0},
		Means:        make([]float64, featureCount),
		Stds:         []float64{1, 1, 1, 1, 1, 1, 1},
	}
	engine := NewEngine(artifact)
	assert.True(t, engine.HasModel())

	t.Run("applies scaled regression and clamps", func(t *testing.T) {
		res := engine.Predict(academics.FeatureVector{TestAverage: 88})
		assert.Equal(t, 88.0, res.PredictedGrade)

		over := engine.Predict(academics.FeatureVector{TestAverage: 250})
		assert.Equal(t, 100.0, over.PredictedGrade)
	})

	t.Run("confidence counts against the full feature set", func(t *testing.T) {
		// 3 completeness fields over 7 features is 0.43, which is Low
		res := engine.Predict(academics.FeatureVector{TestAverage: 88, AttendanceRate: 90})
		assert.Equal(t, ConfidenceLow, res.Confidence)
	})

	t.Run("trend", func(t *testing.T) {
		improving := engine.Predict(academics.FeatureVector{TestAverage: 80, PreviousGrade: 70})
		assert.Equal(t, TrendImproving, improving.Trend)

		declining := engine.Predict(academics.FeatureVector{TestAverage: 60, PreviousGrade: 70})
		assert.Equal(t, TrendDeclining, declining.Trend)

		stable := engine.Predict(academics.FeatureVector{TestAverage: 72, PreviousGrade: 70})
		assert.Equal(t, TrendStable, stable.Trend)
	})
}

func TestEngine_MalformedArtifactFallsBack(t *testing.T) {
	engine := NewEngine(&Artifact{Coefficients: []float64{1, 2}})
	assert.False(t, engine.HasModel())

	res := engine.Predict(academics.FeatureVector{AttendanceRate: 75, TestAverage: 70, ParticipationScore: 70})
	assert.Equal(t, 70.0, res.PredictedGrade)
	assert.Equal(t, ConfidenceMedium, res.Confidence)
}
