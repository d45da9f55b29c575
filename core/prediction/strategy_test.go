package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edusight/edusight/core/academics"
)

func TestGenerateStrategies(t *testing.T) {
	t.Run("all areas fire and the attendance pool takes precedence", func(t *testing.T) {
		v := academics.FeatureVector{
			AttendanceRate:       40,
			TestAverage:          55,
			ParticipationScore:   45,
			AssignmentsCompleted: 60,
		}
		bundle := GenerateStrategies(v, Result{PredictedGrade: 48})

		assert.Equal(t, []string{AreaAttendance, AreaTestScores, AreaParticipation, AreaAssignments}, bundle.PriorityAreas)
		assert.Len(t, bundle.Strategies, maxStrategies)
		// first 4 are the attendance pool, then the test pool starts
		assert.Equal(t, attendanceStrategies, bundle.Strategies[:4])
		assert.Equal(t, testStrategies[:2], bundle.Strategies[4:])
		assert.Equal(t, 25.0, bundle.EstimatedImprovement) // min(10+15+8+12, 25)
		assert.Equal(t, "3-4 months for significant improvement", bundle.Timeline)
	})

	t.Run("no areas fire", func(t *testing.T) {
		v := academics.FeatureVector{
			AttendanceRate:       90,
			TestAverage:          85,
			ParticipationScore:   80,
			AssignmentsCompleted: 95,
		}
		bundle := GenerateStrategies(v, Result{PredictedGrade: 85})

		assert.Empty(t, bundle.PriorityAreas)
		assert.Equal(t, []string{
			"Maintain current study habits",
			"Challenge yourself with advanced materials",
		}, bundle.Strategies)
		assert.Equal(t, 0.0, bundle.EstimatedImprovement)
		assert.Equal(t, "Maintain current performance", bundle.Timeline)
	})

	t.Run("grade tiers append exactly two strategies", func(t *testing.T) {
		v := academics.FeatureVector{
			AttendanceRate:       80,
			TestAverage:          70,
			ParticipationScore:   55,
			AssignmentsCompleted: 60,
		}

		failing := GenerateStrategies(v, Result{PredictedGrade: 45})
		assert.Contains(t, failing.Strategies, "Consider scheduling tutoring sessions")
		assert.Contains(t, failing.Strategies, "Meet with academic advisor weekly")

		middling := GenerateStrategies(v, Result{PredictedGrade: 65})
		assert.Contains(t, middling.Strategies, "Dedicate 2 extra hours daily for focused study")

		strong := GenerateStrategies(v, Result{PredictedGrade: 82})
		assert.Contains(t, strong.Strategies, "Maintain current study habits")
	})

	t.Run("single area timelines and caps", func(t *testing.T) {
		v := academics.FeatureVector{
			AttendanceRate:       70,
			TestAverage:          75,
			ParticipationScore:   60,
			AssignmentsCompleted: 90,
		}
		bundle := GenerateStrategies(v, Result{PredictedGrade: 72})
		assert.Equal(t, []string{AreaAttendance}, bundle.PriorityAreas)
		assert.Equal(t, 10.0, bundle.EstimatedImprovement)
		assert.Equal(t, "4-6 weeks for targeted improvement", bundle.Timeline)
		assert.Len(t, bundle.Strategies, 6) // 4 attendance + 2 tier
	})

	t.Run("two areas", func(t *testing.T) {
		v := academics.FeatureVector{
			AttendanceRate:       70,
			TestAverage:          55,
			ParticipationScore:   60,
			AssignmentsCompleted: 90,
		}
		bundle := GenerateStrategies(v, Result{PredictedGrade: 60})
		assert.Equal(t, []string{AreaAttendance, AreaTestScores}, bundle.PriorityAreas)
		assert.Equal(t, 25.0, bundle.EstimatedImprovement)
		assert.Equal(t, "2-3 months for noticeable improvement", bundle.Timeline)
	})

	t.Run("never more than six strategies", func(t *testing.T) {
		for _, grade := range []float64{10, 55, 90} {
			v := academics.FeatureVector{} // everything fires at zero
			bundle := GenerateStrategies(v, Result{PredictedGrade: grade})
			assert.LessOrEqual(t, len(bundle.Strategies), maxStrategies)
		}
	})
}
