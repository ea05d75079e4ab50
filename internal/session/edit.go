package session

import (
	"fmt"

	"annotate-cli/internal/colorutil"
	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/traverse"
)

func (s *Session) clampCursor() {
	s.cursor.TaskIndex = traverse.Clamp(s.cursor.TaskIndex, len(s.FilteredTasks()))
	s.cursor.QuestionIndex = traverse.Clamp(s.cursor.QuestionIndex, len(s.questions))
}

// DeleteTopics removes the topics with the given keys (the navigation filter when keys is
// empty) and clears the filter.
func (s *Session) DeleteTopics(keys []string, removeTopicless bool) (mutate.DeleteTopicsResult, error) {
	if !s.loaded {
		return mutate.DeleteTopicsResult{}, ErrNoCollection
	}
	if len(keys) == 0 {
		keys = s.SelectedTopics()
	}
	res := mutate.DeleteTopics(s.tasks, s.topics, keys, removeTopicless)
	if err := s.UpdateCollection(Patch{Tasks: &res.Tasks, Topics: &res.Topics}); err != nil {
		return mutate.DeleteTopicsResult{}, err
	}
	s.selectedTopics = nil
	s.clampCursor()
	s.log.Info("topics deleted", "topics", keys, "removed_tasks", len(res.RemovedTaskIDs))
	s.notify.Notify("Collection updated")
	return res, nil
}

// TasksLeftWithoutTopics previews DeleteTopics with removeTopicless set.
func (s *Session) TasksLeftWithoutTopics(keys []string) []model.Task {
	if len(keys) == 0 {
		keys = s.selectedTopics
	}
	return mutate.TasksLeftWithoutTopics(s.tasks, keys)
}

func (s *Session) setTopics(topics []model.Topic, notice string) error {
	if err := s.UpdateCollection(TopicsPatch(topics)); err != nil {
		return err
	}
	if notice != "" {
		s.notify.Notify(notice)
	}
	return nil
}

func (s *Session) SortTopics(by mutate.SortBy, ascending bool) error {
	if !s.loaded {
		return ErrNoCollection
	}
	return s.setTopics(mutate.SortTopics(s.topics, s.tasks, by, ascending), "Topics updated")
}

func (s *Session) MoveTopic(from, to int) error {
	if !s.loaded {
		return ErrNoCollection
	}
	out, changed, err := mutate.MoveTopic(s.topics, from, to)
	if err != nil || !changed {
		return err
	}
	return s.setTopics(out, "Topics updated")
}

func (s *Session) AutoFormatTopics() error {
	if !s.loaded {
		return ErrNoCollection
	}
	return s.setTopics(mutate.AutoFormatTopics(s.topics), "Topics updated")
}

// AutoColorTopics gives every topic a random color.
func (s *Session) AutoColorTopics() error {
	if !s.loaded {
		return ErrNoCollection
	}
	return s.setTopics(mutate.AutoColor(s.topics, colorutil.RandomColor), "Topics updated")
}

func (s *Session) UpdateTopic(id model.TopicID, patch mutate.TopicPatch) (model.Topic, error) {
	if !s.loaded {
		return model.Topic{}, ErrNoCollection
	}
	if patch.Color != nil {
		c, ok := colorutil.Normalize(*patch.Color)
		if !ok {
			return model.Topic{}, fmt.Errorf("invalid color %q (expected #rrggbb)", *patch.Color)
		}
		patch.Color = &c
	}
	out, tp, err := mutate.UpdateTopic(s.topics, id, patch)
	if err != nil {
		return model.Topic{}, err
	}
	return tp, s.setTopics(out, "Topic updated")
}

func (s *Session) SetSentenceTopic(taskID string, sentence int, topic model.TopicID) error {
	if !s.loaded {
		return ErrNoCollection
	}
	out, err := mutate.SetSentenceTopic(s.tasks, taskID, sentence, topic)
	if err != nil {
		return err
	}
	return s.UpdateCollection(TasksPatch(out))
}

func (s *Session) setQuestions(questions []model.Question, notice string) error {
	if err := s.UpdateCollection(QuestionsPatch(questions)); err != nil {
		return err
	}
	s.cursor.QuestionIndex = traverse.Clamp(s.cursor.QuestionIndex, len(s.questions))
	if notice != "" {
		s.notify.Notify(notice)
	}
	return nil
}

// SaveQuestion inserts q, or replaces the question with the same prop.
func (s *Session) SaveQuestion(q model.Question) (bool, error) {
	if !s.loaded {
		return false, ErrNoCollection
	}
	out, added := mutate.SaveQuestion(s.questions, q)
	return added, s.setQuestions(out, "Questions updated")
}

func (s *Session) DeleteQuestion(i int) error {
	if !s.loaded {
		return ErrNoCollection
	}
	out, err := mutate.DeleteQuestion(s.questions, i)
	if err != nil {
		return err
	}
	return s.setQuestions(out, "Question deleted")
}

func (s *Session) MoveQuestion(from, to int) error {
	if !s.loaded {
		return ErrNoCollection
	}
	out, changed, err := mutate.MoveQuestion(s.questions, from, to)
	if err != nil || !changed {
		return err
	}
	return s.setQuestions(out, "Questions updated")
}

// DeleteAnswers clears the stored answers of question i on every task.
func (s *Session) DeleteAnswers(i int) (int, error) {
	if !s.loaded {
		return 0, ErrNoCollection
	}
	if i < 0 || i >= len(s.questions) {
		return 0, mutate.RangeError{Kind: "question", Index: i, Len: len(s.questions)}
	}
	out, n := mutate.DeleteAnswers(s.tasks, s.questions[i].Prop)
	if err := s.UpdateCollection(TasksPatch(out)); err != nil {
		return 0, err
	}
	s.notify.Notify("Answers deleted")
	return n, nil
}

func (s *Session) ToggleRelevantTopic(qi int, key string) error {
	if !s.loaded {
		return ErrNoCollection
	}
	out, err := mutate.ToggleRelevantTopic(s.questions, qi, key)
	if err != nil {
		return err
	}
	return s.setQuestions(out, "Saved")
}

func (s *Session) ToggleAllRelevantTopics(qi int) error {
	if !s.loaded {
		return ErrNoCollection
	}
	out, err := mutate.ToggleAllRelevantTopics(s.questions, qi, s.topics)
	if err != nil {
		return err
	}
	return s.setQuestions(out, "Saved")
}

// Progress reports per-question answer statistics over the filtered tasks.
func (s *Session) Progress() []mutate.QuestionProgress {
	tasks := s.FilteredTasks()
	out := make([]mutate.QuestionProgress, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, mutate.Progress(q, tasks))
	}
	return out
}

// StageBulk toggles an answer in the bulk draft.
func (s *Session) StageBulk(questionIndex int, value model.Value) error {
	if !s.loaded {
		return ErrNoCollection
	}
	if questionIndex < 0 || questionIndex >= len(s.questions) {
		return mutate.RangeError{Kind: "question", Index: questionIndex, Len: len(s.questions)}
	}
	q := s.questions[questionIndex]
	if !q.HasAnswerValue(value) {
		return &InvalidAnswerError{Prop: q.Prop, Value: value}
	}
	s.bulkDraft = s.bulkDraft.Toggle(q.Prop, value)
	return nil
}

func (s *Session) ClearBulk() { s.bulkDraft = nil }

// BulkTargets are the tasks a bulk apply would touch: those on the selected topics.
func (s *Session) BulkTargets() []model.Task {
	return mutate.BulkTargets(s.tasks, s.selectedTopics)
}

// ApplyBulk writes the draft to every bulk target and clears the draft.
func (s *Session) ApplyBulk() (int, error) {
	if !s.loaded {
		return 0, ErrNoCollection
	}
	ids := mutate.TaskIDs(s.BulkTargets())
	out, n := mutate.ApplyBulk(s.tasks, ids, s.bulkDraft)
	if err := s.UpdateCollection(TasksPatch(out)); err != nil {
		return 0, err
	}
	s.bulkDraft = nil
	s.log.Info("bulk answers applied", "documents", n)
	s.notify.Notify(fmt.Sprintf("Bulk answers applied to %d documents", n))
	return n, nil
}
