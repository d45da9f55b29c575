package career

import "strings"

// BridgingCourse is a course suggested to close the gap between a student's
// current level and their career goals.
type BridgingCourse struct {
	CourseName   string   `json:"course_name"`
	Category     string   `json:"category"`
	Level        string   `json:"level"`
	Duration     string   `json:"duration"`
	Priority     string   `json:"priority"`
	SkillsGained []string `json:"skills_gained"`
}

var courseDatabase = map[string]map[string][]string{
	"Tech": {
		"beginner":     {"Introduction to Programming", "Web Development Basics", "Computer Science Fundamentals"},
		"intermediate": {"Data Structures and Algorithms", "Database Management", "Full Stack Development"},
		"advanced":     {"Machine Learning", "Cloud Computing", "Cybersecurity"},
	},
	"Creative": {
		"beginner":     {"Introduction to Design", "Digital Art Basics", "Creative Writing"},
		"intermediate": {"Advanced Graphic Design", "Video Production", "Brand Development"},
		"advanced":     {"Motion Graphics", "3D Modeling", "Creative Direction"},
	},
	"Analytical": {
		"beginner":     {"Introduction to Statistics", "Business Analytics Basics", "Excel Fundamentals"},
		"intermediate": {"Data Visualization", "Financial Analysis", "Research Methods"},
		"advanced":     {"Predictive Analytics", "Advanced Statistics", "Business Intelligence"},
	},
	"Collaborative": {
		"beginner":     {"Communication Skills", "Team Building", "Introduction to Management"},
		"intermediate": {"Project Management", "Conflict Resolution", "Leadership Development"},
		"advanced":     {"Strategic Management", "Organizational Behavior", "Executive Leadership"},
	},
}

var courseDurations = map[string]string{
	"beginner":     "4-6 weeks",
	"intermediate": "8-12 weeks",
	"advanced":     "12-16 weeks",
}

// courseSkills maps course-name keywords to the skills a course teaches,
// checked in order.
var courseSkills = []struct {
	keyword string
	skills  []string
}{
	{"Programming", []string{"Python", "JavaScript", "Problem Solving"}},
	{"Design", []string{"UI/UX", "Color Theory", "Typography"}},
	{"Analytics", []string{"Data Analysis", "Visualization", "Reporting"}},
	{"Management", []string{"Leadership", "Planning", "Communication"}},
	{"Development", []string{"Coding", "Testing", "Debugging"}},
	{"Statistics", []string{"Analysis", "Probability", "Modeling"}},
}

// BridgingCourses picks up to two courses per category (at most two
// categories) matched to the student's grade level. The first category is the
// strongest interest and gets High priority.
func BridgingCourses(averageGrade float64, categories []string) []BridgingCourse {
	if len(categories) == 0 {
		categories = []string{"Tech"}
	}
	level := courseLevel(averageGrade)

	var out []BridgingCourse
	for i, cat := range categories[:min(2, len(categories))] {
		levels, ok := courseDatabase[cat]
		if !ok {
			continue
		}
		priority := "Medium"
		if i == 0 {
			priority = "High"
		}
		courses := levels[level]
		for _, name := range courses[:min(2, len(courses))] {
			out = append(out, BridgingCourse{
				CourseName:   name,
				Category:     cat,
				Level:        level,
				Duration:     courseDurations[level],
				Priority:     priority,
				SkillsGained: skillsForCourse(name),
			})
		}
	}
	return out
}

func courseLevel(grade float64) string {
	switch {
	case grade >= 80:
		return "advanced"
	case grade >= 60:
		return "intermediate"
	default:
		return "beginner"
	}
}

func skillsForCourse(name string) []string {
	lower := strings.ToLower(name)
	for _, entry := range courseSkills {
		if strings.Contains(lower, strings.ToLower(entry.keyword)) {
			return entry.skills
		}
	}
	return []string{"Critical Thinking", "Problem Solving", "Application"}
}
