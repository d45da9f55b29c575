package academics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func attendanceSeq(statuses ...string) []Attendance {
	entries := make([]Attendance, 0, len(statuses))
	for i, s := range statuses {
		entries = append(entries, Attendance{StudentID: 1, Date: day(i + 1), Status: s})
	}
	return entries
}

func testSeq(scores ...float64) []WeeklyTest {
	tests := make([]WeeklyTest, 0, len(scores))
	for i, s := range scores {
		tests = append(tests, WeeklyTest{StudentID: 1, TestDate: day(i + 1), Score: s})
	}
	return tests
}

func grade(subject, gradeType string, pct float64) Grade {
	return Grade{StudentID: 1, Subject: subject, GradeType: gradeType, Percentage: pct}
}

func TestBuildFeatureVector(t *testing.T) {
	t.Run("no records yields a zero-filled vector", func(t *testing.T) {
		v := BuildFeatureVector(nil, nil, nil)
		assert.Equal(t, 0.0, v.AttendanceRate)
		assert.Equal(t, 0.0, v.TestAverage)
		assert.Equal(t, 0.0, v.AssignmentsCompleted)
		assert.Equal(t, 0.0, v.ParticipationScore)
		assert.Equal(t, 0.0, v.PreviousGrade)
		assert.Equal(t, 0.0, v.QuizScores)
		// study hours are still clamped to the floor
		assert.Equal(t, 2.0, v.StudyHours)
	})

	t.Run("attendance rate", func(t *testing.T) {
		v := BuildFeatureVector(attendanceSeq(StatusPresent, StatusPresent, StatusAbsent, StatusPresent), nil, nil)
		assert.InDelta(t, 75.0, v.AttendanceRate, 1e-9)
	})

	t.Run("assignment and quiz percentages fall back to test average", func(t *testing.T) {
		v := BuildFeatureVector(nil, testSeq(60, 80), nil)
		assert.Equal(t, 70.0, v.TestAverage)
		assert.Equal(t, 70.0, v.AssignmentsCompleted)
		assert.Equal(t, 70.0, v.QuizScores)
		assert.Equal(t, 70.0, v.PreviousGrade)
	})

	t.Run("typed grades override the fallback", func(t *testing.T) {
		grades := []Grade{
			grade("Math", GradeAssignment, 90),
			grade("Math", GradeAssignment, 70),
			grade("Math", GradeQuiz, 40),
			grade("Science", GradeFinal, 100),
		}
		v := BuildFeatureVector(attendanceSeq(StatusPresent, StatusPresent), testSeq(50), grades)
		assert.Equal(t, 80.0, v.AssignmentsCompleted)
		assert.Equal(t, 40.0, v.QuizScores)
		assert.Equal(t, 75.0, v.PreviousGrade) // mean of all four percentages
		assert.InDelta(t, 0.5*100+0.5*40, v.ParticipationScore, 1e-9)
	})

	t.Run("study hours clamp", func(t *testing.T) {
		low := BuildFeatureVector(nil, testSeq(10), nil)
		assert.Equal(t, 2.0, low.StudyHours)

		mid := BuildFeatureVector(nil, testSeq(55), nil)
		assert.InDelta(t, 5.5, mid.StudyHours, 1e-9)

		high := BuildFeatureVector(nil, testSeq(100), nil)
		assert.Equal(t, 10.0, high.StudyHours)
	})
}

func TestComputeMetrics(t *testing.T) {
	t.Run("no attendance history defaults to 100", func(t *testing.T) {
		m := ComputeMetrics(nil, nil, nil)
		assert.Equal(t, 100.0, m.AttendanceRate)
		assert.Equal(t, 0.0, m.GradeAverage)
	})

	t.Run("subject averages keep first-occurrence order", func(t *testing.T) {
		grades := []Grade{
			grade("Math", GradeQuiz, 40),
			grade("Science", GradeQuiz, 80),
			grade("Math", GradeFinal, 60),
		}
		m := ComputeMetrics(attendanceSeq(StatusAbsent), nil, grades)
		assert.Equal(t, 0.0, m.AttendanceRate)
		assert.Equal(t, []string{"Math", "Science"}, m.Subjects)
		assert.Equal(t, 50.0, m.SubjectAverages["Math"])
		assert.Equal(t, 80.0, m.SubjectAverages["Science"])
		assert.Equal(t, 60.0, m.GradeAverage)
	})
}
