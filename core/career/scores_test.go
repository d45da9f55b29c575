package career

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func questionsFixture() []Question {
	return []Question{
		{ID: 1, Category: "Tech", IsActive: true},
		{ID: 2, Category: "Tech", IsActive: true},
		{ID: 3, Category: "Creative", IsActive: true},
		{ID: 4, Category: "Analytical", IsActive: true},
		{ID: 5, Category: "Collaborative", IsActive: true},
	}
}

func TestScoreCategories(t *testing.T) {
	questions := questionsFixture()

	t.Run("averages per category", func(t *testing.T) {
		answers := []Answer{
			{StudentID: 1, QuestionID: 1, Score: 4},
			{StudentID: 1, QuestionID: 2, Score: 5},
			{StudentID: 1, QuestionID: 3, Score: 2},
			{StudentID: 1, QuestionID: 5, Score: 3},
		}
		scores := ScoreCategories(answers, questions)
		assert.Equal(t, CategoryScores{
			"Tech":          4.5,
			"Creative":      2.0,
			"Analytical":    0,
			"Collaborative": 3.0,
		}, scores)
	})

	t.Run("unknown questions and categories are skipped", func(t *testing.T) {
		withBad := append(questionsFixture(), Question{ID: 9, Category: "Sports", IsActive: true})
		answers := []Answer{
			{QuestionID: 1, Score: 4},
			{QuestionID: 9, Score: 5},  // unknown category
			{QuestionID: 42, Score: 5}, // unknown question
		}
		scores := ScoreCategories(answers, withBad)
		assert.Equal(t, 4.0, scores["Tech"])
		assert.NotContains(t, scores, "Sports")
	})

	t.Run("no answers yields all zeros", func(t *testing.T) {
		scores := ScoreCategories(nil, questions)
		for _, cat := range Categories {
			assert.Zero(t, scores[cat])
		}
	})
}

func TestRank(t *testing.T) {
	t.Run("top two by score", func(t *testing.T) {
		ranked := Rank(CategoryScores{
			"Tech":          4.5,
			"Creative":      2.0,
			"Analytical":    0,
			"Collaborative": 3.0,
		})
		assert.Equal(t, []string{"Tech", "Collaborative"}, ranked)
	})

	t.Run("ties keep declaration order", func(t *testing.T) {
		ranked := Rank(CategoryScores{
			"Tech":          3.0,
			"Creative":      3.0,
			"Analytical":    3.0,
			"Collaborative": 3.0,
		})
		assert.Equal(t, []string{"Tech", "Creative"}, ranked)
	})

	t.Run("zero scores excluded", func(t *testing.T) {
		assert.Empty(t, Rank(CategoryScores{}))
		assert.Equal(t, []string{"Analytical"}, Rank(CategoryScores{"Analytical": 1.5}))
	})
}

func TestInterested(t *testing.T) {
	liked := interested(CategoryScores{
		"Tech":          3.5,
		"Creative":      4.0,
		"Analytical":    3.0, // threshold is strict
		"Collaborative": 1.0,
	})
	assert.Equal(t, []string{"Creative", "Tech"}, liked)
}
