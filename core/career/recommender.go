package career

import (
	"context"

	"github.com/edusight/edusight/core"
)

// careerMap drives the offline recommendation tables, keyed by category and
// performance tier.
var careerMap = map[string]map[string][]string{
	"Tech": {
		"high":   {"Software Engineer", "Data Scientist", "AI/ML Engineer"},
		"medium": {"Web Developer", "IT Support Specialist", "QA Engineer"},
		"low":    {"Technical Writer", "IT Support", "Digital Marketing"},
	},
	"Creative": {
		"high":   {"UX/UI Designer", "Creative Director", "Product Designer"},
		"medium": {"Graphic Designer", "Content Creator", "Video Editor"},
		"low":    {"Social Media Manager", "Content Writer", "Marketing Assistant"},
	},
	"Analytical": {
		"high":   {"Data Analyst", "Financial Analyst", "Research Scientist"},
		"medium": {"Business Analyst", "Market Researcher", "Operations Analyst"},
		"low":    {"Data Entry Specialist", "Research Assistant", "Report Analyst"},
	},
	"Collaborative": {
		"high":   {"Project Manager", "Team Lead", "Consultant"},
		"medium": {"HR Manager", "Account Manager", "Community Manager"},
		"low":    {"Customer Service", "Sales Representative", "Administrative Assistant"},
	},
}

// Recommender produces career recommendations, preferring a configured text
// generator and falling back to the static tables on any failure.
type Recommender struct {
	gen    core.TextGenerator
	logger core.Logger
}

func NewRecommender(gen core.TextGenerator, logger core.Logger) *Recommender {
	return &Recommender{gen: gen, logger: logger}
}

func (r *Recommender) Enabled() bool { return r.gen != nil }

func (r *Recommender) Recommend(ctx context.Context, profile Profile) Recommendation {
	if r.gen == nil {
		return fallbackRecommendation(profile)
	}
	reply, err := r.gen.GenerateText(ctx, recommenderSystemPrompt, buildPrompt(profile))
	if err != nil {
		r.logger.Warn("career: text generation failed, using fallback tables", "error", err)
		return fallbackRecommendation(profile)
	}
	rec := parseResponse(reply)
	rec.LLMUsed = true
	return rec
}

func performanceTier(grade float64) string {
	switch {
	case grade >= 80:
		return "high"
	case grade >= 60:
		return "medium"
	default:
		return "low"
	}
}

func fallbackRecommendation(profile Profile) Recommendation {
	categories := profile.Categories
	if len(categories) == 0 {
		categories = []string{"Tech"}
	}
	tier := performanceTier(profile.PerformanceGrade)

	rec := Recommendation{
		Trends:             "Technology and data-driven roles are in high demand",
		AdditionalInsights: "Focus on continuous learning and skill development",
	}
	for _, cat := range categories[:min(2, len(categories))] {
		if tiers, ok := careerMap[cat]; ok {
			careers := tiers[tier]
			rec.Careers = append(rec.Careers, careers[:min(2, len(careers))]...)
		}
	}

	switch {
	case contains(categories, "Tech"):
		rec.Skills = []string{"Programming", "Problem Solving", "Data Analysis"}
		rec.Courses = []string{"Python Programming", "Data Structures", "Web Development"}
	case contains(categories, "Creative"):
		rec.Skills = []string{"Design Thinking", "Adobe Creative Suite", "Communication"}
		rec.Courses = []string{"Graphic Design", "UI/UX Fundamentals", "Digital Marketing"}
	case contains(categories, "Analytical"):
		rec.Skills = []string{"Statistical Analysis", "Excel", "Critical Thinking"}
		rec.Courses = []string{"Statistics", "Data Analytics", "Business Intelligence"}
	default:
		rec.Skills = []string{"Communication", "Leadership", "Team Management"}
		rec.Courses = []string{"Project Management", "Business Communication", "Leadership"}
	}
	return rec
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
