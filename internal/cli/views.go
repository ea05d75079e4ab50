package cli

import (
	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/relevancy"
	"annotate-cli/internal/session"
	"annotate-cli/internal/traverse"
)

type collectionSummary struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Tasks     int    `json:"tasks"`
	Annotated int    `json:"annotated"`
	Topics    int    `json:"topics"`
	Questions int    `json:"questions"`
	Selected  bool   `json:"selected"`
}

func summarizeCollections(sess *session.Session) []collectionSummary {
	cols := sess.Collections()
	out := make([]collectionSummary, 0, len(cols))
	for i, c := range cols {
		annotated := 0
		for _, t := range c.Tasks {
			if len(t.Annotations) > 0 {
				annotated++
			}
		}
		out = append(out, collectionSummary{
			Index:     i,
			Name:      c.Name,
			Tasks:     len(c.Tasks),
			Annotated: annotated,
			Topics:    len(c.Topics),
			Questions: len(c.Questions),
			Selected:  sess.HasCollection() && i == sess.SelectedID(),
		})
	}
	return out
}

type taskSummary struct {
	Position  int               `json:"position"`
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Sentences int               `json:"sentences"`
	Topics    []string          `json:"topics"`
	Answers   model.Annotations `json:"annotations,omitempty"`
	Current   bool              `json:"current,omitempty"`
}

func summarizeTasks(tasks []model.Task, cur traverse.Cursor, markCurrent bool) []taskSummary {
	out := make([]taskSummary, 0, len(tasks))
	for i, t := range tasks {
		out = append(out, taskSummary{
			Position:  i + 1,
			ID:        t.ID,
			Title:     t.Title,
			Sentences: len(t.Sentences),
			Topics:    taskTopicKeys(t),
			Answers:   t.Annotations,
			Current:   markCurrent && i == cur.TaskIndex,
		})
	}
	return out
}

// taskTopicKeys lists the distinct topic keys of a task's sentences, in sentence order.
func taskTopicKeys(t model.Task) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range t.Sentences {
		if s.Topic.IsNone() {
			continue
		}
		k := s.Topic.Key()
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

type currentView struct {
	Collection      string                  `json:"collection"`
	Position        int                     `json:"position"`
	Total           int                     `json:"total"`
	QuestionIndex   int                     `json:"questionIndex"`
	Finished        bool                    `json:"finished"`
	Filter          []string                `json:"filter,omitempty"`
	Task            *model.Task             `json:"task,omitempty"`
	Question        *model.Question         `json:"question,omitempty"`
	Answer          model.Value             `json:"answer,omitzero"`
	Relevant        bool                    `json:"relevant"`
	FailedRelevancy [][]model.RelevancyTest `json:"failedRelevancy,omitempty"`
	RelevantIndex   int                     `json:"relevantIndex"`
	RelevantTotal   int                     `json:"relevantTotal"`
}

func currentOf(sess *session.Session) currentView {
	cur := sess.Cursor()
	filtered := sess.FilteredTasks()
	v := currentView{
		Collection:    sess.Name(),
		Total:         len(filtered),
		QuestionIndex: cur.QuestionIndex,
		Finished:      cur.Finished,
		Filter:        sess.SelectedTopics(),
		RelevantIndex: -1,
	}
	t, okT := sess.CurrentTask()
	if okT {
		v.Position = cur.TaskIndex + 1
		v.Task = &t
	}
	q, okQ := sess.CurrentQuestion()
	if okQ {
		v.Question = &q
		v.RelevantTotal = len(relevancy.RelevantTasks(q, filtered))
	}
	if okT && okQ {
		v.Answer = t.Annotations.Get(q.Prop)
		v.FailedRelevancy = relevancy.Test(q, t)
		v.Relevant = len(v.FailedRelevancy) == 0
		v.RelevantIndex = mutate.RelevantPosition(q, filtered, t.ID)
	}
	return v
}

func outcomeOf(o traverse.Outcome) map[string]any {
	return map[string]any{
		"state":         o.State.String(),
		"taskIndex":     o.TaskIndex,
		"questionIndex": o.QuestionIndex,
		"visited":       o.Visited,
	}
}

type topicSummary struct {
	model.Topic
	Tasks     int `json:"tasks"`
	Sentences int `json:"sentences"`
}

func summarizeTopics(topics []model.Topic, tasks []model.Task) []topicSummary {
	out := make([]topicSummary, 0, len(topics))
	for _, tp := range topics {
		out = append(out, topicSummary{
			Topic:     tp,
			Tasks:     len(mutate.RelatedTasks(tasks, tp.ID)),
			Sentences: len(mutate.RelatedSentences(tasks, tp.ID)),
		})
	}
	return out
}
