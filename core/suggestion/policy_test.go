package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusight/edusight/core/academics"
)

func TestEvaluate(t *testing.T) {
	t.Run("healthy metrics produce nothing", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 90, GradeAverage: 75, TestAverage: 80}
		assert.Empty(t, Evaluate(m, nil))
	})

	t.Run("low attendance", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 60, GradeAverage: 70}
		out := Evaluate(m, nil)
		require.Len(t, out, 1)

		s := out[0].Suggestion
		assert.Equal(t, "Time Management & Attendance Improvement Program", s.CourseName)
		assert.Equal(t, PriorityHigh, s.Priority)
		assert.Equal(t, "General", s.SubjectArea)
		assert.Equal(t, "Current attendance is 60.0%. Target: 75%+", s.Reason)
		assert.Equal(t, 60.0, s.BasedOnAttendance.Float64)

		require.NotNil(t, out[0].Notice)
		assert.Equal(t, "Course Suggestion Based on Attendance", out[0].Notice.Title)
		assert.Equal(t, "Your attendance is 60.0%. A support program has been recommended.", out[0].Notice.Message)
	})

	t.Run("critically low attendance escalates", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 45, GradeAverage: 70}
		out := Evaluate(m, nil)
		require.Len(t, out, 1)
		assert.Equal(t, PriorityCritical, out[0].Suggestion.Priority)
	})

	t.Run("low grades", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 85, GradeAverage: 55}
		out := Evaluate(m, nil)
		require.Len(t, out, 1)

		s := out[0].Suggestion
		assert.Equal(t, "Foundation Strengthening Course", s.CourseName)
		assert.Equal(t, PriorityHigh, s.Priority)
		assert.Equal(t, "Core Subjects", s.SubjectArea)
		require.NotNil(t, out[0].Notice)
		assert.Equal(t, "Course Suggestion Based on Grades", out[0].Notice.Title)
	})

	t.Run("failing grades escalate", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 85, GradeAverage: 35}
		out := Evaluate(m, nil)
		require.Len(t, out, 1)
		assert.Equal(t, PriorityCritical, out[0].Suggestion.Priority)
	})

	t.Run("zero grade average means no grades yet, not failure", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 85, GradeAverage: 0}
		assert.Empty(t, Evaluate(m, nil))
	})

	t.Run("both triggers fire together", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 40, GradeAverage: 30}
		out := Evaluate(m, nil)
		require.Len(t, out, 2)
		assert.Equal(t, "Time Management & Attendance Improvement Program", out[0].Suggestion.CourseName)
		assert.Equal(t, "Foundation Strengthening Course", out[1].Suggestion.CourseName)
	})

	t.Run("subject remedial", func(t *testing.T) {
		m := academics.Metrics{
			AttendanceRate:  90,
			GradeAverage:    65,
			Subjects:        []string{"Math", "English"},
			SubjectAverages: map[string]float64{"Math": 42, "English": 70},
		}
		out := Evaluate(m, nil)
		require.Len(t, out, 1)

		s := out[0].Suggestion
		assert.Equal(t, "Math Remedial Program", s.CourseName)
		assert.Equal(t, PriorityCritical, s.Priority)
		assert.Equal(t, "Math", s.SubjectArea)
		assert.Equal(t, "Current Math average: 42.0%", s.Reason)
		assert.Equal(t, "Improve Math to 60%+", s.TargetImprovement)
		require.NotNil(t, out[0].Notice)
		assert.Equal(t, "Your Math average is 42.0%. A remedial program has been recommended.", out[0].Notice.Message)
	})

	t.Run("idempotent within the dedup window", func(t *testing.T) {
		m := academics.Metrics{
			AttendanceRate:  40,
			GradeAverage:    35,
			Subjects:        []string{"Math"},
			SubjectAverages: map[string]float64{"Math": 42},
		}
		first := Evaluate(m, nil)
		require.Len(t, first, 3)

		existing := make([]CourseSuggestion, 0, len(first))
		for _, o := range first {
			existing = append(existing, o.Suggestion)
		}
		assert.Empty(t, Evaluate(m, existing))
	})

	t.Run("dedup matches course name case-insensitively", func(t *testing.T) {
		m := academics.Metrics{AttendanceRate: 60, GradeAverage: 70}
		existing := []CourseSuggestion{{CourseName: "ATTENDANCE Bootcamp"}}
		assert.Empty(t, Evaluate(m, existing))
	})
}
