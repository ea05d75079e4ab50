package mutate

import (
	"slices"
	"strconv"

	"annotate-cli/internal/model"
)

// NewQuestion returns an empty question whose prop is the next free position.
func NewQuestion(questions []model.Question) model.Question {
	n := len(questions)
	for {
		prop := strconv.Itoa(n)
		if _, ok := FindQuestion(questions, prop); !ok {
			return model.Question{Prop: prop, Answers: []model.Answer{}}
		}
		n++
	}
}

// FindQuestion returns the index of the question with prop.
func FindQuestion(questions []model.Question, prop string) (int, bool) {
	for i, q := range questions {
		if q.Prop == prop {
			return i, true
		}
	}
	return -1, false
}

// SaveQuestion replaces the question with the same prop, or appends q.
func SaveQuestion(questions []model.Question, q model.Question) ([]model.Question, bool) {
	out := model.CloneQuestions(questions)
	if i, ok := FindQuestion(out, q.Prop); ok {
		out[i] = q.Clone()
		return out, false
	}
	return append(out, q.Clone()), true
}

func DeleteQuestion(questions []model.Question, i int) ([]model.Question, error) {
	if i < 0 || i >= len(questions) {
		return questions, RangeError{Kind: "question", Index: i, Len: len(questions)}
	}
	out := model.CloneQuestions(questions)
	return slices.Delete(out, i, i+1), nil
}

// DeleteAnswers drops prop from every task's annotations. Tasks left with no
// annotations lose the field entirely.
func DeleteAnswers(tasks []model.Task, prop string) ([]model.Task, int) {
	out := model.CloneTasks(tasks)
	n := 0
	for i := range out {
		ann := out[i].Annotations
		if ann == nil {
			continue
		}
		if _, ok := ann[prop]; ok {
			delete(ann, prop)
			n++
		}
		if len(ann) == 0 {
			out[i].Annotations = nil
		}
	}
	return out, n
}

// ToggleRelevantTopic adds or removes a topic key from a question's relevant topics.
// Removing the last key clears the list.
func ToggleRelevantTopic(questions []model.Question, qi int, key string) ([]model.Question, error) {
	if qi < 0 || qi >= len(questions) {
		return questions, RangeError{Kind: "question", Index: qi, Len: len(questions)}
	}
	out := model.CloneQuestions(questions)
	q := &out[qi]
	switch i := slices.Index(q.RelevantTopics, key); {
	case i < 0:
		q.RelevantTopics = append(q.RelevantTopics, key)
	case len(q.RelevantTopics) <= 1:
		q.RelevantTopics = nil
	default:
		q.RelevantTopics = slices.Delete(q.RelevantTopics, i, i+1)
	}
	return out, nil
}

// ToggleAllRelevantTopics selects every topic, or clears the list when all are already selected.
func ToggleAllRelevantTopics(questions []model.Question, qi int, topics []model.Topic) ([]model.Question, error) {
	if qi < 0 || qi >= len(questions) {
		return questions, RangeError{Kind: "question", Index: qi, Len: len(questions)}
	}
	out := model.CloneQuestions(questions)
	q := &out[qi]
	if len(q.RelevantTopics) == len(topics) {
		q.RelevantTopics = nil
		return out, nil
	}
	q.RelevantTopics = make([]string, 0, len(topics))
	for _, tp := range topics {
		q.RelevantTopics = append(q.RelevantTopics, tp.ID.Key())
	}
	return out, nil
}
