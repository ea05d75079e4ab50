package mutate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"annotate-cli/internal/model"
)

type DeleteTopicsResult struct {
	Tasks  []model.Task
	Topics []model.Topic
	// RemovedTaskIDs lists tasks dropped because no sentence kept a topic.
	RemovedTaskIDs []string
}

func keySet(keys []string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[strings.TrimSpace(k)] = true
	}
	return out
}

func untopic(t model.Task, keys map[string]bool) model.Task {
	out := t.Clone()
	for i, s := range out.Sentences {
		if keys[s.Topic.Key()] {
			out.Sentences[i].Topic = model.NoTopic
		}
	}
	return out
}

func topicless(t model.Task) bool {
	for _, s := range t.Sentences {
		if !s.Topic.IsNone() {
			return false
		}
	}
	return true
}

// TasksLeftWithoutTopics previews which tasks would have no topic left after deleting keys.
func TasksLeftWithoutTopics(tasks []model.Task, keys []string) []model.Task {
	set := keySet(keys)
	out := []model.Task{}
	for _, t := range tasks {
		if nt := untopic(t, set); topicless(nt) {
			out = append(out, nt)
		}
	}
	return out
}

// DeleteTopics removes the topics whose keys are given. Sentences referencing them are set to
// the no-topic sentinel; tasks are only dropped when removeTopicless is set.
func DeleteTopics(tasks []model.Task, topics []model.Topic, keys []string, removeTopicless bool) DeleteTopicsResult {
	set := keySet(keys)

	res := DeleteTopicsResult{Tasks: []model.Task{}, Topics: []model.Topic{}, RemovedTaskIDs: []string{}}
	for _, tp := range topics {
		if !set[tp.ID.Key()] {
			res.Topics = append(res.Topics, tp.Clone())
		}
	}
	for _, t := range tasks {
		nt := untopic(t, set)
		if removeTopicless && topicless(nt) {
			res.RemovedTaskIDs = append(res.RemovedTaskIDs, t.ID)
			continue
		}
		res.Tasks = append(res.Tasks, nt)
	}
	return res
}

// AutoFormatName turns identifiers like "12_public_health" into "Public Health":
// split on "_", drop empty and numeric parts, capitalise each part.
func AutoFormatName(s string) string {
	parts := strings.Split(s, "_")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || isNumeric(p) {
			continue
		}
		r, size := utf8.DecodeRuneInString(p)
		out = append(out, string(unicode.ToUpper(r))+p[size:])
	}
	return strings.Join(out, " ")
}

var (
	decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixedInt   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// isNumeric reports whether s reads as a number under loose coercion: surrounding
// space is ignored, and blank strings, signed Infinity and 0x/0o/0b integers count.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	switch s {
	case "", "Infinity", "+Infinity", "-Infinity":
		return true
	}
	return decimalNumber.MatchString(s) || prefixedInt.MatchString(s)
}

func AutoFormatTopics(topics []model.Topic) []model.Topic {
	out := model.CloneTopics(topics)
	for i := range out {
		out[i].Name = AutoFormatName(out[i].Name)
	}
	return out
}

// AutoColor assigns color() to every topic.
func AutoColor(topics []model.Topic, color func() string) []model.Topic {
	out := model.CloneTopics(topics)
	for i := range out {
		out[i].Color = color()
	}
	return out
}

type TopicPatch struct {
	Name  *string
	Color *string
}

// UpdateTopic renames and/or recolors the topic with the given id.
func UpdateTopic(topics []model.Topic, id model.TopicID, patch TopicPatch) ([]model.Topic, model.Topic, error) {
	out := model.CloneTopics(topics)
	for i := range out {
		if out[i].ID.Key() != id.Key() {
			continue
		}
		if patch.Name != nil {
			out[i].Name = *patch.Name
		}
		if patch.Color != nil {
			out[i].Color = *patch.Color
		}
		return out, out[i], nil
	}
	return topics, model.Topic{}, NotFoundError{Kind: "topic", ID: id.Key()}
}

// FindTopic looks a topic up by key.
func FindTopic(topics []model.Topic, key string) (model.Topic, bool) {
	for _, tp := range topics {
		if tp.ID.Key() == key {
			return tp, true
		}
	}
	return model.Topic{}, false
}

// SetSentenceTopic reassigns one sentence of a task.
func SetSentenceTopic(tasks []model.Task, taskID string, sentence int, topic model.TopicID) ([]model.Task, error) {
	out := model.CloneTasks(tasks)
	for i := range out {
		if out[i].ID != taskID {
			continue
		}
		if sentence < 0 || sentence >= len(out[i].Sentences) {
			return tasks, RangeError{Kind: "sentence", Index: sentence, Len: len(out[i].Sentences)}
		}
		out[i].Sentences[sentence].Topic = topic
		return out, nil
	}
	return tasks, NotFoundError{Kind: "task", ID: taskID}
}

// RelatedTasks returns the tasks with at least one sentence on topic id.
func RelatedTasks(tasks []model.Task, id model.TopicID) []model.Task {
	out := []model.Task{}
	for _, t := range tasks {
		if t.HasTopic(id) {
			out = append(out, t)
		}
	}
	return out
}

// RelatedSentences returns every sentence on topic id, in task order.
func RelatedSentences(tasks []model.Task, id model.TopicID) []model.Sentence {
	k := id.Key()
	out := []model.Sentence{}
	for _, t := range tasks {
		for _, s := range t.Sentences {
			if s.Topic.Key() == k {
				out = append(out, s)
			}
		}
	}
	return out
}
