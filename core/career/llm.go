package career

import (
	"encoding/json"
	"fmt"
	"strings"
)

const recommenderSystemPrompt = "You are an expert career counselor specializing in student guidance."

func buildPrompt(profile Profile) string {
	var b strings.Builder
	b.WriteString("Based on the following student profile, provide personalized career recommendations:\n\n")
	b.WriteString("Student Profile:\n")
	fmt.Fprintf(&b, "- Academic Performance: %.1f%%\n", profile.PerformanceGrade)
	fmt.Fprintf(&b, "- Strong Subjects: %s\n", strings.Join(profile.StrongSubjects, ", "))
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(profile.Interests, ", "))
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(profile.Skills, ", "))
	fmt.Fprintf(&b, "- Career Preference Categories: %s\n", strings.Join(profile.Categories, ", "))
	fmt.Fprintf(&b, "- Test Scores Average: %.1f%%\n\n", profile.TestAverage)
	b.WriteString("Please provide:\n")
	b.WriteString("1. Top 3 career recommendations with explanations\n")
	b.WriteString("2. Required skills for each career\n")
	b.WriteString("3. Suggested courses or certifications\n")
	b.WriteString("4. Industry trends and job market outlook\n")
	b.WriteString("5. Potential salary ranges\n\n")
	b.WriteString("Format the response as structured JSON.")
	return b.String()
}

// parseResponse turns a model reply into a Recommendation. A valid JSON reply
// is decoded directly; anything else is scanned line by line, where heading
// keywords ("career", "skill", "course") open a section and subsequent bullet
// lines fill it.
func parseResponse(response string) Recommendation {
	var rec Recommendation
	if err := json.Unmarshal([]byte(response), &rec); err == nil {
		return rec
	}

	rec = Recommendation{}
	section := ""
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "career") || strings.Contains(lower, "recommendation"):
			section = "careers"
		case strings.Contains(lower, "skill"):
			section = "skills"
		case strings.Contains(lower, "course") || strings.Contains(lower, "certification"):
			section = "courses"
		case line != "" && section != "":
			switch section {
			case "careers":
				if hasBulletPrefix(line, "1.", "2.", "3.", "-", "•") {
					rec.Careers = append(rec.Careers, strings.TrimLeft(line, "1234567890.-• "))
				}
			case "skills":
				if hasBulletPrefix(line, "-", "•") {
					rec.Skills = append(rec.Skills, strings.TrimLeft(line, "-• "))
				}
			case "courses":
				if hasBulletPrefix(line, "-", "•") {
					rec.Courses = append(rec.Courses, strings.TrimLeft(line, "-• "))
				}
			}
		}
	}
	return rec
}

func hasBulletPrefix(line string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
