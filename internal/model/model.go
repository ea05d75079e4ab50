package model

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Collection is the unit of persistence: a named set of documents plus the topics
// and questions used to annotate them.
type Collection struct {
	Name      string     `json:"name"`
	Tasks     []Task     `json:"tasks"`
	Topics    []Topic    `json:"topics,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

// Task is a single document to annotate.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Sentences []Sentence `json:"sentences"`

	// Annotations maps Question.Prop to the selected answer value.
	// nil means "never annotated"; an empty map is kept as {}.
	Annotations Annotations `json:"annotations,omitzero"`

	Extra Extra `json:"-"`

	// numericID is set when the imported id was a JSON number; it is exported as one.
	numericID bool
}

type Sentence struct {
	Text  string  `json:"text"`
	Topic TopicID `json:"topic"`
	Extra Extra   `json:"-"`
}

type Topic struct {
	ID    TopicID  `json:"id"`
	Name  string   `json:"name"`
	Color string   `json:"color,omitempty"`
	Count *float64 `json:"count,omitempty"`
	Extra Extra    `json:"-"`

	// hasColor keeps an imported "color": "" on export.
	hasColor bool
}

type Question struct {
	Text    string   `json:"text"`
	Prop    string   `json:"prop"`
	Answers []Answer `json:"answers"`

	// Relevancy is an AND of OR blocks over other questions' answers.
	Relevancy      [][]RelevancyTest `json:"relevancy,omitzero"`
	RelevantTopics []string          `json:"relevantTopics,omitzero"`
	Extra          Extra             `json:"-"`
}

type Answer struct {
	Label string `json:"label"`
	Value Value  `json:"value,omitzero"`
	Color string `json:"color,omitempty"`
	Extra Extra  `json:"-"`

	hasColor bool
}

type RelevancyTest struct {
	Prop  string `json:"prop"`
	Value Value  `json:"value,omitzero"`
}

// Annotations stores answers keyed by question prop. Undefined values are never stored.
type Annotations map[string]Value

func (a Annotations) Clone() Annotations {
	if a == nil {
		return nil
	}
	out := make(Annotations, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Get returns the stored value for prop, or the undefined Value.
func (a Annotations) Get(prop string) Value {
	if a == nil {
		return Value{}
	}
	return a[prop]
}

// NumericID reports whether the document id was imported as a JSON number.
func (t Task) NumericID() bool { return t.numericID }

// UnmarshalJSON accepts numeric document ids and stores them in their decimal form.
func (t *Task) UnmarshalJSON(b []byte) error {
	type wire Task
	var w struct {
		wire
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = Task(w.wire)
	id, numeric, err := rawID(w.ID)
	if err != nil {
		return err
	}
	t.ID, t.numericID = id, numeric
	t.Extra, err = splitExtra(b, "id", "title", "sentences", "annotations")
	return err
}

func (t Task) MarshalJSON() ([]byte, error) {
	type wire Task
	var id any = t.ID
	if t.numericID {
		id = json.Number(t.ID)
	}
	b, err := json.Marshal(struct {
		wire
		ID any `json:"id"`
	}{wire(t), id})
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, t.Extra)
}

func rawID(raw json.RawMessage) (string, bool, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", false, nil
	}
	if strings.HasPrefix(s, `"`) {
		id, err := strconv.Unquote(s)
		return id, false, err
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s, true, nil
	}
	return "", false, errors.New("task id must be a string or a number")
}

func (s *Sentence) UnmarshalJSON(b []byte) error {
	type wire Sentence
	if err := json.Unmarshal(b, (*wire)(s)); err != nil {
		return err
	}
	var err error
	s.Extra, err = splitExtra(b, "text", "topic")
	return err
}

func (s Sentence) MarshalJSON() ([]byte, error) {
	type wire Sentence
	b, err := json.Marshal(wire(s))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, s.Extra)
}

func (t *Topic) UnmarshalJSON(b []byte) error {
	type wire Topic
	if err := json.Unmarshal(b, (*wire)(t)); err != nil {
		return err
	}
	extra, err := splitExtra(b, "id", "name", "count")
	if err != nil {
		return err
	}
	_, t.hasColor = extra["color"]
	delete(extra, "color")
	if len(extra) == 0 {
		extra = nil
	}
	t.Extra = extra
	return nil
}

func (t Topic) MarshalJSON() ([]byte, error) {
	type wire Topic
	b, err := json.Marshal(wire(t))
	if err != nil {
		return nil, err
	}
	if t.hasColor && t.Color == "" {
		b, err = mergeExtra(b, Extra{"color": json.RawMessage(`""`)})
		if err != nil {
			return nil, err
		}
	}
	return mergeExtra(b, t.Extra)
}

func (q *Question) UnmarshalJSON(b []byte) error {
	type wire Question
	if err := json.Unmarshal(b, (*wire)(q)); err != nil {
		return err
	}
	var err error
	q.Extra, err = splitExtra(b, "text", "prop", "answers", "relevancy", "relevantTopics")
	return err
}

func (q Question) MarshalJSON() ([]byte, error) {
	type wire Question
	b, err := json.Marshal(wire(q))
	if err != nil {
		return nil, err
	}
	return mergeExtra(b, q.Extra)
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	type wire Answer
	if err := json.Unmarshal(b, (*wire)(a)); err != nil {
		return err
	}
	extra, err := splitExtra(b, "label", "value")
	if err != nil {
		return err
	}
	_, a.hasColor = extra["color"]
	delete(extra, "color")
	if len(extra) == 0 {
		extra = nil
	}
	a.Extra = extra
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	type wire Answer
	b, err := json.Marshal(wire(a))
	if err != nil {
		return nil, err
	}
	if a.hasColor && a.Color == "" {
		b, err = mergeExtra(b, Extra{"color": json.RawMessage(`""`)})
		if err != nil {
			return nil, err
		}
	}
	return mergeExtra(b, a.Extra)
}

func (t Task) Clone() Task {
	out := t
	if t.Sentences != nil {
		out.Sentences = make([]Sentence, len(t.Sentences))
		for i, s := range t.Sentences {
			s.Extra = s.Extra.Clone()
			out.Sentences[i] = s
		}
	}
	out.Annotations = t.Annotations.Clone()
	out.Extra = t.Extra.Clone()
	return out
}

// HasTopicIn reports whether any sentence references one of the given topic keys.
func (t Task) HasTopicIn(keys map[string]bool) bool {
	for _, s := range t.Sentences {
		if keys[s.Topic.Key()] {
			return true
		}
	}
	return false
}

// HasTopic reports whether any sentence references the topic (loose id comparison).
func (t Task) HasTopic(id TopicID) bool {
	k := id.Key()
	for _, s := range t.Sentences {
		if s.Topic.Key() == k {
			return true
		}
	}
	return false
}

func (t Topic) Clone() Topic {
	out := t
	if t.Count != nil {
		c := *t.Count
		out.Count = &c
	}
	out.Extra = t.Extra.Clone()
	return out
}

func (q Question) Clone() Question {
	out := q
	if q.Answers != nil {
		out.Answers = make([]Answer, len(q.Answers))
		for i, a := range q.Answers {
			a.Extra = a.Extra.Clone()
			out.Answers[i] = a
		}
	}
	out.Extra = q.Extra.Clone()
	if q.Relevancy != nil {
		out.Relevancy = make([][]RelevancyTest, len(q.Relevancy))
		for i, blk := range q.Relevancy {
			if blk != nil {
				out.Relevancy[i] = append([]RelevancyTest(nil), blk...)
			}
		}
	}
	if q.RelevantTopics != nil {
		out.RelevantTopics = append([]string{}, q.RelevantTopics...)
	}
	return out
}

// HasAnswerValue reports whether v is one of the declared answer values.
func (q Question) HasAnswerValue(v Value) bool {
	for _, a := range q.Answers {
		if a.Value.Equal(v) {
			return true
		}
	}
	return false
}

// IsAnsweredBy reports whether the task stores a declared answer for this question.
func (q Question) IsAnsweredBy(t Task) bool {
	v := t.Annotations.Get(q.Prop)
	if v.IsUndefined() {
		return false
	}
	return q.HasAnswerValue(v)
}

func (c Collection) Clone() Collection {
	return Collection{
		Name:      c.Name,
		Tasks:     CloneTasks(c.Tasks),
		Topics:    CloneTopics(c.Topics),
		Questions: CloneQuestions(c.Questions),
	}
}

func CloneTasks(xs []Task) []Task {
	if xs == nil {
		return nil
	}
	out := make([]Task, len(xs))
	for i := range xs {
		out[i] = xs[i].Clone()
	}
	return out
}

func CloneTopics(xs []Topic) []Topic {
	if xs == nil {
		return nil
	}
	out := make([]Topic, len(xs))
	for i := range xs {
		out[i] = xs[i].Clone()
	}
	return out
}

func CloneQuestions(xs []Question) []Question {
	if xs == nil {
		return nil
	}
	out := make([]Question, len(xs))
	for i := range xs {
		out[i] = xs[i].Clone()
	}
	return out
}

func CloneCollections(xs []Collection) []Collection {
	if xs == nil {
		return nil
	}
	out := make([]Collection, len(xs))
	for i := range xs {
		out[i] = xs[i].Clone()
	}
	return out
}
