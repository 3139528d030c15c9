// Package assessment holds the online-assessment data models.
//
// Models are plain structs exposed to paths and forms through
// property.Schema tables; they carry no persistence.
package assessment

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/solatis/ambrosia/internal/property"
)

// QuestionKind selects how a question is answered and graded.
type QuestionKind string

const (
	KindSingle   QuestionKind = "single"
	KindMultiple QuestionKind = "multiple"
	KindText     QuestionKind = "text"
	KindEssay    QuestionKind = "essay"
	KindUpload   QuestionKind = "upload"
)

// AutoGraded reports whether answers can be scored without a grader.
func (k QuestionKind) AutoGraded() bool {
	return k == KindSingle || k == KindMultiple
}

// Choice is one option of a choice question.
type Choice struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Correct bool   `yaml:"correct,omitempty"`
}

var choiceSchema = property.NewSchema[Choice]().
	Text("id", func(c *Choice) string { return c.ID }, nil).
	Text("label", func(c *Choice) string { return c.Label }, func(c *Choice, v *string) { c.Label = deref(v) }).
	Bool("correct", func(c *Choice) bool { return c.Correct }, func(c *Choice, v *bool) { c.Correct = v != nil && *v })

func (c *Choice) Property(name string) (any, bool)           { return choiceSchema.Get(c, name) }
func (c *Choice) Setter(name string) (property.Setter, bool) { return choiceSchema.Setter(c, name) }

// Question is one item of an assessment.
type Question struct {
	ID       string       `yaml:"id"`
	Prompt   string       `yaml:"prompt"`
	Kind     QuestionKind `yaml:"kind"`
	Choices  []*Choice    `yaml:"choices,omitempty"`
	Points   int32        `yaml:"points"`
	Required bool         `yaml:"required,omitempty"`
}

var questionSchema = property.NewSchema[Question]().
	Text("id", func(q *Question) string { return q.ID }, nil).
	Text("prompt", func(q *Question) string { return q.Prompt }, func(q *Question, v *string) { q.Prompt = deref(v) }).
	Text("kind", func(q *Question) string { return string(q.Kind) }, func(q *Question, v *string) {
		if v != nil {
			q.Kind = QuestionKind(*v)
		}
	}).
	Value("choices", func(q *Question) any { return q.Choices }).
	Int("points", func(q *Question) int32 { return q.Points }, func(q *Question, v *int32) {
		if v != nil && *v >= 0 {
			q.Points = *v
		}
	}).
	Bool("required", func(q *Question) bool { return q.Required }, func(q *Question, v *bool) { q.Required = v != nil && *v })

func (q *Question) Property(name string) (any, bool)           { return questionSchema.Get(q, name) }
func (q *Question) Setter(name string) (property.Setter, bool) { return questionSchema.Setter(q, name) }

// Correct returns the ids of the correct choices.
func (q *Question) Correct() []string {
	var ids []string
	for _, c := range q.Choices {
		if c.Correct {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Assessment is a published set of questions.
type Assessment struct {
	ID           string      `yaml:"id"`
	Title        string      `yaml:"title"`
	Instructions string      `yaml:"instructions,omitempty"`
	Opens        time.Time   `yaml:"opens,omitempty"`
	Closes       time.Time   `yaml:"closes,omitempty"`
	Published    bool        `yaml:"published"`
	Questions    []*Question `yaml:"questions"`
}

var assessmentSchema = property.NewSchema[Assessment]().
	Text("id", func(a *Assessment) string { return a.ID }, nil).
	Text("title", func(a *Assessment) string { return a.Title }, func(a *Assessment, v *string) { a.Title = deref(v) }).
	Text("instructions", func(a *Assessment) string { return a.Instructions }, func(a *Assessment, v *string) { a.Instructions = deref(v) }).
	Time("opens", func(a *Assessment) time.Time { return a.Opens }, func(a *Assessment, v *time.Time) { a.Opens = derefTime(v) }).
	Time("closes", func(a *Assessment) time.Time { return a.Closes }, func(a *Assessment, v *time.Time) { a.Closes = derefTime(v) }).
	Bool("published", func(a *Assessment) bool { return a.Published }, func(a *Assessment, v *bool) { a.Published = v != nil && *v }).
	Value("questions", func(a *Assessment) any { return a.Questions }).
	Value("maxPoints", func(a *Assessment) any { return a.MaxPoints() })

func (a *Assessment) Property(name string) (any, bool)           { return assessmentSchema.Get(a, name) }
func (a *Assessment) Setter(name string) (property.Setter, bool) { return assessmentSchema.Setter(a, name) }

// IsOpen reports whether submissions are accepted at now.
func (a *Assessment) IsOpen(now time.Time) bool {
	if !a.Published {
		return false
	}
	if !a.Opens.IsZero() && now.Before(a.Opens) {
		return false
	}
	return a.Closes.IsZero() || now.Before(a.Closes)
}

// MaxPoints sums the points of every question.
func (a *Assessment) MaxPoints() int64 {
	var total int64
	for _, q := range a.Questions {
		total += int64(q.Points)
	}
	return total
}

// Question returns the question with id.
func (a *Assessment) Question(id string) (*Question, bool) {
	for _, q := range a.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return nil, false
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefTime(v *time.Time) time.Time {
	if v == nil {
		return time.Time{}
	}
	return *v
}

// LoadAssessment decodes an assessment from YAML.
func LoadAssessment(data []byte) (*Assessment, error) {
	var a Assessment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode assessment: %w", err)
	}
	if a.ID == "" {
		return nil, fmt.Errorf("decode assessment: missing id")
	}
	for i, q := range a.Questions {
		if q == nil || q.ID == "" {
			return nil, fmt.Errorf("decode assessment: question %d has no id", i)
		}
	}
	return &a, nil
}
