package assessment

import (
	"slices"
	"time"

	"github.com/solatis/ambrosia/internal/property"
)

// Answer is the response to one question.
type Answer struct {
	QuestionID string          `yaml:"questionId"`
	Text       *string         `yaml:"text,omitempty"`
	Selected   []string        `yaml:"selected,omitempty"`
	Upload     property.Upload `yaml:"-"`
}

var answerSchema = property.NewSchema[Answer]().
	Text("questionId", func(a *Answer) string { return a.QuestionID }, nil).
	Value("text", func(a *Answer) any { return a.Text }).
	TextList("selected", func(a *Answer) []string { return a.Selected }, func(a *Answer, v []*string) {
		a.Selected = a.Selected[:0]
		for _, s := range v {
			if s != nil {
				a.Selected = append(a.Selected, *s)
			}
		}
	}).
	File("upload", func(a *Answer) property.Upload { return a.Upload }, func(a *Answer, u property.Upload) { a.Upload = u })

func (a *Answer) Property(name string) (any, bool) { return answerSchema.Get(a, name) }

// Setter also exposes "text", whose getter is a raw pointer so that an
// unanswered question reads as MISSING rather than empty.
func (a *Answer) Setter(name string) (property.Setter, bool) {
	if name == "text" {
		return property.Setter{Type: property.FieldTypeText, Set: func(v any) {
			s, _ := v.(*string)
			a.Text = s
		}}, true
	}
	return answerSchema.Setter(a, name)
}

// Answered reports whether the answer holds any response.
func (a *Answer) Answered() bool {
	return a.Text != nil || len(a.Selected) > 0 || a.Upload != nil
}

// Score is the result of grading a submission.
type Score struct {
	Points int64 `yaml:"points"`
	Max    int64 `yaml:"max"`
	Graded bool  `yaml:"graded"` // false while some answers await manual grading
}

var scoreSchema = property.NewSchema[Score]().
	Long("points", func(s *Score) int64 { return s.Points }, nil).
	Long("max", func(s *Score) int64 { return s.Max }, nil).
	Bool("graded", func(s *Score) bool { return s.Graded }, nil)

func (s *Score) Property(name string) (any, bool) { return scoreSchema.Get(s, name) }

// Submission is one participant's set of answers.
type Submission struct {
	ID           string    `yaml:"id"`
	AssessmentID string    `yaml:"assessmentId"`
	Submitted    time.Time `yaml:"submitted,omitempty"`
	Answers      []*Answer `yaml:"answers"`
	Score        *Score    `yaml:"score,omitempty"`
}

var submissionSchema = property.NewSchema[Submission]().
	Text("id", func(s *Submission) string { return s.ID }, nil).
	Text("assessmentId", func(s *Submission) string { return s.AssessmentID }, nil).
	Time("submitted", func(s *Submission) time.Time { return s.Submitted }, nil).
	Value("answers", func(s *Submission) any { return s.Answers }).
	Value("score", func(s *Submission) any { return s.Score })

func (s *Submission) Property(name string) (any, bool) { return submissionSchema.Get(s, name) }

// NewSubmission returns a submission with one empty answer per question,
// in question order, so answers.[i] pairs with questions.[i].
func NewSubmission(id string, a *Assessment) *Submission {
	s := &Submission{ID: id, AssessmentID: a.ID}
	for _, q := range a.Questions {
		s.Answers = append(s.Answers, &Answer{QuestionID: q.ID})
	}
	return s
}

// Answer returns the answer to question id.
func (s *Submission) Answer(questionID string) (*Answer, bool) {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return nil, false
}

// Missing returns the ids of required questions without an answer.
func (s *Submission) Missing(a *Assessment) []string {
	var ids []string
	for _, q := range a.Questions {
		if !q.Required {
			continue
		}
		if ans, ok := s.Answer(q.ID); !ok || !ans.Answered() {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Grade scores the submission against a and stores the result. Choice
// questions score full points when the selected set equals the correct
// set; other kinds leave the score ungraded.
func (s *Submission) Grade(a *Assessment) *Score {
	score := &Score{Max: a.MaxPoints(), Graded: true}
	for _, q := range a.Questions {
		if !q.Kind.AutoGraded() {
			score.Graded = false
			continue
		}
		ans, ok := s.Answer(q.ID)
		if !ok {
			continue
		}
		if sameSet(ans.Selected, q.Correct()) {
			score.Points += int64(q.Points)
		}
	}
	s.Score = score
	return score
}

func sameSet(a, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
