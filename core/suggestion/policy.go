package suggestion

import (
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core/academics"
)

// Notice is an optional student-facing alert attached to a generated
// suggestion.
type Notice struct {
	Title   string
	Message string
}

// Outcome is one suggestion produced by the evaluation policy, with its
// alert when the trigger warrants one.
type Outcome struct {
	Suggestion CourseSuggestion
	Notice     *Notice
}

// Evaluate applies the remedial-course policy to a student's metrics.
// existing must hold the student's suggestions from the dedup window; a
// trigger whose course is already represented there stays silent, which
// makes the policy idempotent within the window.
func Evaluate(m academics.Metrics, existing []CourseSuggestion) []Outcome {
	var out []Outcome

	if m.AttendanceRate < 75 || m.GradeAverage < 60 {
		if m.AttendanceRate < 75 && !hasCourseContaining(existing, "attendance") {
			priority := PriorityHigh
			if m.AttendanceRate < 50 {
				priority = PriorityCritical
			}
			out = append(out, Outcome{
				Suggestion: CourseSuggestion{
					CourseName:        "Time Management & Attendance Improvement Program",
					CourseDescription: "Structured program to improve attendance and time management skills",
					Reason:            fmt.Sprintf("Current attendance is %.1f%%. Target: 75%%+", m.AttendanceRate),
					Priority:          priority,
					SubjectArea:       "General",
					TargetImprovement: "Increase attendance to 75%",
					BasedOnGrade:      null.Float64From(m.GradeAverage),
					BasedOnAttendance: null.Float64From(m.AttendanceRate),
				},
				Notice: &Notice{
					Title:   "Course Suggestion Based on Attendance",
					Message: fmt.Sprintf("Your attendance is %.1f%%. A support program has been recommended.", m.AttendanceRate),
				},
			})
		}

		if m.GradeAverage < 60 && m.GradeAverage > 0 && !hasCourseContaining(existing, "foundation") {
			priority := PriorityHigh
			if m.GradeAverage < 40 {
				priority = PriorityCritical
			}
			out = append(out, Outcome{
				Suggestion: CourseSuggestion{
					CourseName:        "Foundation Strengthening Course",
					CourseDescription: "Comprehensive course to strengthen fundamental concepts",
					Reason:            fmt.Sprintf("Current average grade is %.1f%%. Target: 60%%+", m.GradeAverage),
					Priority:          priority,
					SubjectArea:       "Core Subjects",
					TargetImprovement: "Improve grades to 60%",
					BasedOnGrade:      null.Float64From(m.GradeAverage),
					BasedOnAttendance: null.Float64From(m.AttendanceRate),
				},
				Notice: &Notice{
					Title:   "Course Suggestion Based on Grades",
					Message: fmt.Sprintf("Your average grade is %.1f%%. A foundation course has been recommended.", m.GradeAverage),
				},
			})
		}
	}

	for _, subject := range m.Subjects {
		avg := m.SubjectAverages[subject]
		if avg >= 50 || hasSubjectArea(existing, subject) {
			continue
		}
		out = append(out, Outcome{
			Suggestion: CourseSuggestion{
				CourseName:        fmt.Sprintf("%s Remedial Program", subject),
				CourseDescription: fmt.Sprintf("Focused program to improve %s performance", subject),
				Reason:            fmt.Sprintf("Current %s average: %.1f%%", subject, avg),
				Priority:          PriorityCritical,
				SubjectArea:       subject,
				TargetImprovement: fmt.Sprintf("Improve %s to 60%%+", subject),
				BasedOnGrade:      null.Float64From(avg),
				BasedOnAttendance: null.Float64From(m.AttendanceRate),
			},
			Notice: &Notice{
				Title:   "Course Suggestion Based on Subject Performance",
				Message: fmt.Sprintf("Your %s average is %.1f%%. A remedial program has been recommended.", subject, avg),
			},
		})
	}

	return out
}

func hasCourseContaining(existing []CourseSuggestion, keyword string) bool {
	for _, s := range existing {
		if strings.Contains(strings.ToLower(s.CourseName), keyword) {
			return true
		}
	}
	return false
}

func hasSubjectArea(existing []CourseSuggestion, subject string) bool {
	for _, s := range existing {
		if s.SubjectArea == subject {
			return true
		}
	}
	return false
}
