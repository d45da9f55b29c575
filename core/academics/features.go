package academics

import "github.com/edusight/edusight/core"

// FeatureVector is the fixed feature set consumed by the prediction engine.
// Every rate/percentage field is in [0, 100]; StudyHours is clamped to [2, 10].
// Missing source data resolves to 0 or to the documented fallback field,
// never to an error.
type FeatureVector struct {
	AttendanceRate       float64 `json:"attendance_rate"`
	TestAverage          float64 `json:"test_average"`
	AssignmentsCompleted float64 `json:"assignments_completed"`
	ParticipationScore   float64 `json:"participation_score"`
	PreviousGrade        float64 `json:"previous_grade"`
	StudyHours           float64 `json:"study_hours"`
	QuizScores           float64 `json:"quiz_scores"`
}

// BuildFeatureVector aggregates raw per-student records into a FeatureVector:
//   - attendance rate = present/total*100, 0 when there are no entries;
//   - test average = mean weekly-test score, 0 when there are none;
//   - assignment and quiz percentages fall back to the test average when no
//     grades of that type exist, as does the overall previous grade;
//   - participation = 0.5*attendance + 0.5*quiz;
//   - study hours = test average / 10, clamped to [2, 10].
func BuildFeatureVector(attendance []Attendance, tests []WeeklyTest, grades []Grade) FeatureVector {
	var present int
	for _, a := range attendance {
		if a.Status == StatusPresent {
			present++
		}
	}
	var attendanceRate float64
	if len(attendance) > 0 {
		attendanceRate = float64(present) / float64(len(attendance)) * 100
	}

	testScores := make([]float64, 0, len(tests))
	for _, t := range tests {
		testScores = append(testScores, t.Score)
	}
	testAverage := core.Mean(testScores)

	assignments := meanPercentageOr(grades, GradeAssignment, testAverage)
	quizzes := meanPercentageOr(grades, GradeQuiz, testAverage)

	allPercentages := make([]float64, 0, len(grades))
	for _, g := range grades {
		allPercentages = append(allPercentages, g.Percentage)
	}
	previousGrade := testAverage
	if len(allPercentages) > 0 {
		previousGrade = core.Mean(allPercentages)
	}

	return FeatureVector{
		AttendanceRate:       attendanceRate,
		TestAverage:          testAverage,
		AssignmentsCompleted: assignments,
		ParticipationScore:   0.5*attendanceRate + 0.5*quizzes,
		PreviousGrade:        previousGrade,
		StudyHours:           core.Clamp(testAverage/10, 2, 10),
		QuizScores:           quizzes,
	}
}

func meanPercentageOr(grades []Grade, gradeType string, fallback float64) float64 {
	var vals []float64
	for _, g := range grades {
		if g.GradeType == gradeType {
			vals = append(vals, g.Percentage)
		}
	}
	if len(vals) == 0 {
		return fallback
	}
	return core.Mean(vals)
}

// Metrics are the signals consumed by the course-suggestion policy. Unlike
// FeatureVector, an empty attendance history counts as 100% here so that a
// student with no records yet does not trigger attendance suggestions.
type Metrics struct {
	AttendanceRate  float64
	GradeAverage    float64
	TestAverage     float64
	Subjects        []string // insertion order of first occurrence
	SubjectAverages map[string]float64
}

// ComputeMetrics derives suggestion-policy metrics from raw records.
func ComputeMetrics(attendance []Attendance, tests []WeeklyTest, grades []Grade) Metrics {
	attendanceRate := 100.0
	if len(attendance) > 0 {
		var present int
		for _, a := range attendance {
			if a.Status == StatusPresent {
				present++
			}
		}
		attendanceRate = float64(present) / float64(len(attendance)) * 100
	}

	testScores := make([]float64, 0, len(tests))
	for _, t := range tests {
		testScores = append(testScores, t.Score)
	}

	allPercentages := make([]float64, 0, len(grades))
	subjects := make([]string, 0)
	perSubject := make(map[string][]float64)
	for _, g := range grades {
		allPercentages = append(allPercentages, g.Percentage)
		if _, ok := perSubject[g.Subject]; !ok {
			subjects = append(subjects, g.Subject)
		}
		perSubject[g.Subject] = append(perSubject[g.Subject], g.Percentage)
	}
	subjectAverages := make(map[string]float64, len(perSubject))
	for subj, vals := range perSubject {
		subjectAverages[subj] = core.Mean(vals)
	}

	return Metrics{
		AttendanceRate:  attendanceRate,
		GradeAverage:    core.Mean(allPercentages),
		TestAverage:     core.Mean(testScores),
		Subjects:        subjects,
		SubjectAverages: subjectAverages,
	}
}
