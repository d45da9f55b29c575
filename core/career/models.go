package career

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/edusight/edusight/core"
)

// Categories is the fixed set of interest domains, in declaration order.
// Ranking ties are broken by this order.
var Categories = []string{"Tech", "Creative", "Analytical", "Collaborative"}

func ValidCategory(cat string) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

type Question struct {
	ID               int      `json:"id"`
	Text             string   `json:"text"`
	Category         string   `json:"category"`
	ParentQuestionID null.Int `json:"parent_question"`
	RequiredAnswer   null.Int `json:"required_answer"`
	IsActive         bool     `json:"is_active"`
	Options          []Option `json:"options"`
}

type Option struct {
	ID         int    `json:"id"`
	QuestionID int    `json:"question_id"`
	Text       string `json:"text"`
	Value      int    `json:"value"`
}

// Answer belongs to exactly one student and one question, is immutable once
// created, and is deleted wholesale on retake.
type Answer struct {
	ID         int `json:"id"`
	StudentID  int `json:"student_id"`
	QuestionID int `json:"question_id"`
	Score      int `json:"score"`
}

type Career struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsActive    bool   `json:"is_active"`
}

// Profile is the structured student profile fed to the recommender.
type Profile struct {
	PerformanceGrade float64  `json:"performance_grade"`
	StrongSubjects   []string `json:"strong_subjects"`
	Interests        []string `json:"interests"`
	Skills           []string `json:"skills"`
	Categories       []string `json:"categories"`
	TestAverage      float64  `json:"test_average"`
}

// Recommendation is the recommender output; LLMUsed records provenance.
type Recommendation struct {
	Careers            []string `json:"careers"`
	Skills             []string `json:"skills"`
	Courses            []string `json:"courses"`
	Trends             string   `json:"trends"`
	AdditionalInsights string   `json:"additional_insights"`
	LLMUsed            bool     `json:"llm_used"`
}

// History is the append-only record of one recommendation generation.
type History struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"student_id"`
	Careers        []string  `json:"careers"`
	Skills         []string  `json:"skills_recommended"`
	Courses        []string  `json:"courses_suggested"`
	LLMUsed        bool      `json:"llm_used"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	FeedbackRating null.Int  `json:"feedback_rating"`
}

// NewAnswer is the boundary input for answering one question.
type NewAnswer struct {
	QuestionID int `json:"question_id" validate:"required"`
	Score      int `json:"score" validate:"min=1,max=5"`
}

func (na *NewAnswer) Validate(validate *validator.Validate) error {
	return validate.Struct(na)
}

// NewQuestion is the admin-side input for adding a questionnaire question.
type NewQuestion struct {
	Text     string   `json:"text" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Options  []Option `json:"options"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Text = core.CleanString(nq.Text)
	nq.Category = core.CleanString(nq.Category)
	if err := validate.Struct(nq); err != nil {
		return err
	}
	if !ValidCategory(nq.Category) {
		return core.NewValidationError(nil, core.FieldError{Field: "category", Error: "invalid category"})
	}
	return nil
}

// NewCareer is the admin-side input for adding a career.
type NewCareer struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

func (nc *NewCareer) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Category = core.CleanString(nc.Category)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	if !ValidCategory(nc.Category) {
		return core.NewValidationError(nil, core.FieldError{Field: "category", Error: "invalid category"})
	}
	return nil
}
