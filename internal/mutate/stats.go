package mutate

import (
	"math"

	"annotate-cli/internal/model"
	"annotate-cli/internal/relevancy"
)

type AnswerProgress struct {
	Label   string      `json:"label"`
	Value   model.Value `json:"value,omitzero"`
	Color   string      `json:"color,omitempty"`
	Count   int         `json:"count"`
	Percent int         `json:"percent"`
}

type QuestionProgress struct {
	Prop     string           `json:"prop"`
	Text     string           `json:"text"`
	Relevant int              `json:"relevant"`
	Answered int              `json:"answered"`
	Answers  []AnswerProgress `json:"answers"`
}

// Progress summarises how a question has been answered over tasks. Percentages are
// relative to the relevant tasks (at least 1) and rounded to whole numbers.
func Progress(q model.Question, tasks []model.Task) QuestionProgress {
	relevant := relevancy.RelevantTasks(q, tasks)
	total := len(relevant)
	if total == 0 {
		total = 1
	}

	out := QuestionProgress{Prop: q.Prop, Text: q.Text, Relevant: len(relevant), Answers: []AnswerProgress{}}
	for _, t := range relevant {
		if q.IsAnsweredBy(t) {
			out.Answered++
		}
	}
	for _, a := range q.Answers {
		n := 0
		for _, t := range tasks {
			if t.Annotations.Get(q.Prop).Equal(a.Value) && !a.Value.IsUndefined() {
				n++
			}
		}
		out.Answers = append(out.Answers, AnswerProgress{
			Label:   a.Label,
			Value:   a.Value,
			Color:   a.Color,
			Count:   n,
			Percent: int(math.Round(float64(n) / float64(total) * 100)),
		})
	}
	return out
}

// RelevantPosition is the index of taskID among the tasks the question is relevant for, or -1.
func RelevantPosition(q model.Question, tasks []model.Task, taskID string) int {
	for i, t := range relevancy.RelevantTasks(q, tasks) {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}
