package session

import (
	"slices"
	"strconv"
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/store"
	"annotate-cli/internal/traverse"
)

// advance moves the cursor to the next pair that still needs an answer.
func (s *Session) advance(taskIndex, questionIndex int) traverse.Outcome {
	filtered := s.FilteredTasks()
	o := traverse.Advance(filtered, s.questions, taskIndex, questionIndex)
	prev := s.cursor.QuestionIndex
	s.cursor = s.cursor.Apply(o)
	if o.State == traverse.Exhausted {
		s.cursor.TaskIndex = traverse.Clamp(s.cursor.TaskIndex, len(filtered))
	}
	s.log.Debug("advance",
		"from_task", taskIndex, "from_question", questionIndex,
		"state", o.State.String(), "task", o.TaskIndex, "question", o.QuestionIndex, "visited", o.Visited)

	switch {
	case o.State == traverse.Finished:
		s.notify.Notify("Finished! You've reached the end of the list")
	case o.State == traverse.Positioned && o.QuestionIndex != prev:
		s.notify.Notify("Next question")
	}
	return o
}

// Advance runs the skip logic from an explicit position.
func (s *Session) Advance(taskIndex, questionIndex int) traverse.Outcome {
	return s.advance(taskIndex, questionIndex)
}

func (s *Session) Back() traverse.Cursor {
	s.cursor = s.cursor.Back(len(s.FilteredTasks()))
	return s.cursor
}

func (s *Session) Next() traverse.Cursor {
	s.cursor = s.cursor.Next(len(s.FilteredTasks()))
	return s.cursor
}

func (s *Session) First() traverse.Cursor {
	s.cursor = s.cursor.First()
	return s.cursor
}

func (s *Session) Last() traverse.Cursor {
	s.cursor = s.cursor.Last(len(s.FilteredTasks()))
	return s.cursor
}

func (s *Session) JumpTo(i int) traverse.Cursor {
	s.cursor = s.cursor.JumpTo(i, len(s.FilteredTasks()))
	return s.cursor
}

func (s *Session) SetQuestion(i int) traverse.Cursor {
	s.cursor = s.cursor.WithQuestion(i, len(s.questions))
	return s.cursor
}

// Skip leaves the current task unanswered and moves on.
func (s *Session) Skip() (traverse.Outcome, error) {
	if !s.loaded {
		return traverse.Outcome{}, ErrNoCollection
	}
	return s.advance(s.cursor.TaskIndex+1, s.cursor.QuestionIndex), nil
}

// ResolveAnswer maps user input to one of the question's answer values. Input matches an
// answer label (case-insensitive), a value literal, or a 1-based answer position.
func ResolveAnswer(q model.Question, input string) (model.Value, error) {
	in := strings.TrimSpace(input)
	for _, a := range q.Answers {
		if strings.EqualFold(a.Label, in) {
			return a.Value, nil
		}
	}
	if v := model.ParseValue(input); q.HasAnswerValue(v) {
		return v, nil
	}
	if v := model.String(input); q.HasAnswerValue(v) {
		return v, nil
	}
	if n, err := strconv.Atoi(in); err == nil && n >= 1 && n <= len(q.Answers) {
		return q.Answers[n-1].Value, nil
	}
	return model.Value{}, &InvalidAnswerError{Prop: q.Prop, Input: input}
}

// Answer toggles value for question questionIndex on the current task, stores it and
// advances from the next task.
func (s *Session) Answer(questionIndex int, value model.Value) (traverse.Outcome, error) {
	if !s.loaded {
		return traverse.Outcome{}, ErrNoCollection
	}
	if questionIndex < 0 || questionIndex >= len(s.questions) {
		return traverse.Outcome{}, mutate.RangeError{Kind: "question", Index: questionIndex, Len: len(s.questions)}
	}
	q := s.questions[questionIndex]
	if !q.HasAnswerValue(value) {
		return traverse.Outcome{}, &InvalidAnswerError{Prop: q.Prop, Value: value}
	}
	current, ok := s.CurrentTask()
	if !ok {
		return traverse.Outcome{}, mutate.NotFoundError{Kind: "task", ID: strconv.Itoa(s.cursor.TaskIndex)}
	}

	tasks := model.CloneTasks(s.tasks)
	idx := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == current.ID })
	if idx < 0 {
		return traverse.Outcome{}, mutate.NotFoundError{Kind: "task", ID: current.ID}
	}
	tasks[idx].Annotations = mutate.ToggleAnswer(tasks[idx].Annotations, q.Prop, value)
	if err := s.UpdateCollection(TasksPatch(tasks)); err != nil {
		return traverse.Outcome{}, err
	}
	s.log.Debug("answer stored", "task", current.ID, "prop", q.Prop, "value", value.String())

	s.cursor.QuestionIndex = questionIndex
	return s.advance(s.cursor.TaskIndex+1, questionIndex), nil
}

// ToggleTopicFilter adds or removes a topic key from the navigation filter and moves to
// the first available task.
func (s *Session) ToggleTopicFilter(key string) {
	if i := slices.Index(s.selectedTopics, key); i >= 0 {
		s.selectedTopics = slices.Delete(slices.Clone(s.selectedTopics), i, i+1)
	} else {
		s.selectedTopics = append(slices.Clone(s.selectedTopics), key)
	}
	s.resetTaskForFilter()
}

// ToggleAllTopicFilter selects every topic, or clears the filter when all are selected.
func (s *Session) ToggleAllTopicFilter() {
	if len(s.selectedTopics) > 0 && len(s.selectedTopics) == len(s.topics) {
		s.selectedTopics = nil
	} else {
		s.selectedTopics = make([]string, 0, len(s.topics))
		for _, tp := range s.topics {
			s.selectedTopics = append(s.selectedTopics, tp.ID.Key())
		}
	}
	s.resetTaskForFilter()
}

// SetTopicFilter replaces the navigation filter.
func (s *Session) SetTopicFilter(keys []string) {
	s.selectedTopics = nil
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" && !slices.Contains(s.selectedTopics, k) {
			s.selectedTopics = append(s.selectedTopics, k)
		}
	}
	s.resetTaskForFilter()
}

func (s *Session) resetTaskForFilter() {
	s.cursor.Finished = false
	s.cursor.TaskIndex = traverse.SelectNextAvailableTask(s.FilteredTasks())
}

// NavState captures the cursor, filter and bulk draft for the active collection.
func (s *Session) NavState() store.NavState {
	return store.NavState{
		Version:        1,
		Collection:     s.name,
		TaskIndex:      s.cursor.TaskIndex,
		QuestionIndex:  s.cursor.QuestionIndex,
		Finished:       s.cursor.Finished,
		SelectedTopics: slices.Clone(s.selectedTopics),
		BulkDraft:      model.Annotations(s.bulkDraft).Clone(),
	}
}

// RestoreNav applies a saved NavState when it belongs to the active collection.
func (s *Session) RestoreNav(st store.NavState) bool {
	if !s.loaded || st.Collection != s.name {
		return false
	}
	s.selectedTopics = slices.Clone(st.SelectedTopics)
	s.bulkDraft = mutate.BulkDraft(st.BulkDraft.Clone())
	s.cursor = traverse.Cursor{
		TaskIndex:     traverse.Clamp(st.TaskIndex, len(s.FilteredTasks())),
		QuestionIndex: traverse.Clamp(st.QuestionIndex, len(s.questions)),
		Finished:      st.Finished,
	}
	return true
}
