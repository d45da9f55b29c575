package prediction

import (
	"github.com/edusight/edusight/core/academics"
)

// Priority areas, in evaluation order.
const (
	AreaAttendance    = "attendance"
	AreaTestScores    = "test_scores"
	AreaParticipation = "participation"
	AreaAssignments   = "assignments"
	AreaGeneral       = "general"
)

const maxStrategies = 6

var (
	attendanceStrategies = []string{
		"Set daily reminders for classes",
		"Create a consistent morning routine",
		"Find a study buddy for accountability",
		"Review missed class materials within 24 hours",
	}
	testStrategies = []string{
		"Practice with past exam papers",
		"Create comprehensive study notes",
		"Join or form a study group",
		"Schedule regular review sessions",
		"Use active recall techniques",
	}
	participationStrategies = []string{
		"Prepare questions before each class",
		"Set a goal to contribute once per class",
		"Review materials before class",
		"Practice speaking in smaller groups first",
	}
	assignmentStrategies = []string{
		"Break assignments into smaller tasks",
		"Use a planner to track deadlines",
		"Start assignments early to avoid rush",
		"Seek help from teachers when stuck",
	}

	// estimated grade-point improvement per addressed area, capped at 25 total
	improvementPotential = map[string]float64{
		AreaAttendance:    10,
		AreaTestScores:    15,
		AreaParticipation: 8,
		AreaAssignments:   12,
	}
)

// GenerateStrategies derives a prioritized improvement plan from the feature
// vector and its prediction. Threshold pools fire independently and are
// concatenated in a fixed order (attendance, tests, participation,
// assignments), two grade-tier strategies are appended, and the list is
// truncated to 6 entries, so earlier pools take precedence.
func GenerateStrategies(v academics.FeatureVector, res Result) StrategyBundle {
	var strategies []string
	var priorityAreas []string

	if v.AttendanceRate < 75 {
		priorityAreas = append(priorityAreas, AreaAttendance)
		strategies = append(strategies, attendanceStrategies...)
	}
	if v.TestAverage < 60 {
		priorityAreas = append(priorityAreas, AreaTestScores)
		strategies = append(strategies, testStrategies...)
	}
	if v.ParticipationScore < 50 {
		priorityAreas = append(priorityAreas, AreaParticipation)
		strategies = append(strategies, participationStrategies...)
	}
	if v.AssignmentsCompleted < 80 {
		priorityAreas = append(priorityAreas, AreaAssignments)
		strategies = append(strategies, assignmentStrategies...)
	}

	switch {
	case res.PredictedGrade < 50:
		strategies = append(strategies,
			"Consider scheduling tutoring sessions",
			"Meet with academic advisor weekly")
	case res.PredictedGrade < 70:
		strategies = append(strategies,
			"Dedicate 2 extra hours daily for focused study",
			"Review and revise notes after each class")
	default:
		strategies = append(strategies,
			"Maintain current study habits",
			"Challenge yourself with advanced materials")
	}

	if len(strategies) > maxStrategies {
		strategies = strategies[:maxStrategies]
	}

	return StrategyBundle{
		PriorityAreas:        priorityAreas,
		Strategies:           strategies,
		EstimatedImprovement: estimateImprovement(priorityAreas),
		Timeline:             suggestTimeline(priorityAreas),
	}
}

func estimateImprovement(priorityAreas []string) float64 {
	var total float64
	for _, area := range priorityAreas {
		total += improvementPotential[area]
	}
	if total > 25 {
		total = 25
	}
	return total
}

func suggestTimeline(priorityAreas []string) string {
	switch {
	case len(priorityAreas) >= 3:
		return "3-4 months for significant improvement"
	case len(priorityAreas) == 2:
		return "2-3 months for noticeable improvement"
	case len(priorityAreas) == 1:
		return "4-6 weeks for targeted improvement"
	default:
		return "Maintain current performance"
	}
}
