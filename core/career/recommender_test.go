package career

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	return s.reply, s.err
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

func TestFallbackRecommendation(t *testing.T) {
	t.Run("tiers", func(t *testing.T) {
		high := fallbackRecommendation(Profile{PerformanceGrade: 85, Categories: []string{"Tech"}})
		assert.Equal(t, []string{"Software Engineer", "Data Scientist"}, high.Careers)

		medium := fallbackRecommendation(Profile{PerformanceGrade: 65, Categories: []string{"Tech"}})
		assert.Equal(t, []string{"Web Developer", "IT Support Specialist"}, medium.Careers)

		low := fallbackRecommendation(Profile{PerformanceGrade: 40, Categories: []string{"Tech"}})
		assert.Equal(t, []string{"Technical Writer", "IT Support"}, low.Careers)
	})

	t.Run("two careers per category, top two categories", func(t *testing.T) {
		rec := fallbackRecommendation(Profile{
			PerformanceGrade: 85,
			Categories:       []string{"Creative", "Collaborative", "Tech"},
		})
		assert.Equal(t, []string{"UX/UI Designer", "Creative Director", "Project Manager", "Team Lead"}, rec.Careers)
	})

	t.Run("skills and courses follow the first matching category", func(t *testing.T) {
		creative := fallbackRecommendation(Profile{PerformanceGrade: 70, Categories: []string{"Creative"}})
		assert.Equal(t, []string{"Design Thinking", "Adobe Creative Suite", "Communication"}, creative.Skills)
		assert.Equal(t, []string{"Graphic Design", "UI/UX Fundamentals", "Digital Marketing"}, creative.Courses)

		collab := fallbackRecommendation(Profile{PerformanceGrade: 70, Categories: []string{"Collaborative"}})
		assert.Equal(t, []string{"Communication", "Leadership", "Team Management"}, collab.Skills)
	})

	t.Run("empty categories default to Tech", func(t *testing.T) {
		rec := fallbackRecommendation(Profile{PerformanceGrade: 70})
		assert.Equal(t, []string{"Web Developer", "IT Support Specialist"}, rec.Careers)
	})

	t.Run("always carries trends and insights", func(t *testing.T) {
		rec := fallbackRecommendation(Profile{})
		assert.Equal(t, "Technology and data-driven roles are in high demand", rec.Trends)
		assert.Equal(t, "Focus on continuous learning and skill development", rec.AdditionalInsights)
		assert.False(t, rec.LLMUsed)
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("structured JSON decodes directly", func(t *testing.T) {
		rec := parseResponse(`{"careers":["Data Scientist"],"skills":["Python"],"courses":["Statistics"],"trends":"growing"}`)
		assert.Equal(t, []string{"Data Scientist"}, rec.Careers)
		assert.Equal(t, []string{"Python"}, rec.Skills)
		assert.Equal(t, "growing", rec.Trends)
	})

	t.Run("free text falls back to line scanning", func(t *testing.T) {
		rec := parseResponse(`Career Recommendations:
1. Software Engineer
2. Data Analyst
- Cloud Architect

Required Skills:
- Programming
- Communication

Suggested Courses:
- Data Structures
• Machine Learning`)
		assert.Equal(t, []string{"Software Engineer", "Data Analyst", "Cloud Architect"}, rec.Careers)
		assert.Equal(t, []string{"Programming", "Communication"}, rec.Skills)
		assert.Equal(t, []string{"Data Structures", "Machine Learning"}, rec.Courses)
	})

	t.Run("non-bullet lines are ignored", func(t *testing.T) {
		rec := parseResponse("Careers:\nthese are great options\n- Engineer")
		assert.Equal(t, []string{"Engineer"}, rec.Careers)
	})
}

func TestRecommender(t *testing.T) {
	profile := Profile{PerformanceGrade: 85, Categories: []string{"Tech"}}

	t.Run("uses the generator when it succeeds", func(t *testing.T) {
		gen := &stubGenerator{reply: `{"careers":["Robotics Engineer"]}`}
		rec := NewRecommender(gen, nopLogger{}).Recommend(context.Background(), profile)
		require.Equal(t, []string{"Robotics Engineer"}, rec.Careers)
		assert.True(t, rec.LLMUsed)
	})

	t.Run("falls back on generator error", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("timeout")}
		rec := NewRecommender(gen, nopLogger{}).Recommend(context.Background(), profile)
		assert.Equal(t, []string{"Software Engineer", "Data Scientist"}, rec.Careers)
		assert.False(t, rec.LLMUsed)
	})

	t.Run("nil generator means offline mode", func(t *testing.T) {
		r := NewRecommender(nil, nopLogger{})
		assert.False(t, r.Enabled())
		rec := r.Recommend(context.Background(), profile)
		assert.Equal(t, []string{"Software Engineer", "Data Scientist"}, rec.Careers)
	})
}

func TestBridgingCourses(t *testing.T) {
	t.Run("levels and priorities", func(t *testing.T) {
		courses := BridgingCourses(85, []string{"Tech", "Analytical"})
		require.Len(t, courses, 4)
		assert.Equal(t, "Machine Learning", courses[0].CourseName)
		assert.Equal(t, "advanced", courses[0].Level)
		assert.Equal(t, "12-16 weeks", courses[0].Duration)
		assert.Equal(t, "High", courses[0].Priority)
		assert.Equal(t, "Medium", courses[2].Priority)
		assert.Equal(t, "Predictive Analytics", courses[2].CourseName)
	})

	t.Run("beginner level under 60", func(t *testing.T) {
		courses := BridgingCourses(45, []string{"Creative"})
		require.Len(t, courses, 2)
		assert.Equal(t, "Introduction to Design", courses[0].CourseName)
		assert.Equal(t, "4-6 weeks", courses[0].Duration)
	})

	t.Run("skills come from name keywords", func(t *testing.T) {
		courses := BridgingCourses(65, []string{"Tech"})
		// "Data Structures and Algorithms" has no keyword, "Database Management" does
		assert.Equal(t, []string{"Critical Thinking", "Problem Solving", "Application"}, courses[0].SkillsGained)
		assert.Equal(t, []string{"Leadership", "Planning", "Communication"}, courses[1].SkillsGained)
	})

	t.Run("defaults to Tech", func(t *testing.T) {
		courses := BridgingCourses(70, nil)
		require.NotEmpty(t, courses)
		assert.Equal(t, "Tech", courses[0].Category)
	})
}
