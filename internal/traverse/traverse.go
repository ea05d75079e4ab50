// Package traverse decides which (task, question) pair to present next.
package traverse

import (
	"annotate-cli/internal/model"
	"annotate-cli/internal/relevancy"
)

type State int

const (
	// Positioned: a pair the user still has to answer was found.
	Positioned State = iota
	// Finished: the last task of the last question was reached.
	Finished
	// Exhausted: ran past the last task of the last question; callers keep their position.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Positioned:
		return "positioned"
	case Finished:
		return "finished"
	default:
		return "exhausted"
	}
}

type Outcome struct {
	State         State
	TaskIndex     int
	QuestionIndex int
	// Visited counts the (task, question) pairs inspected.
	Visited int
}

// Advance walks forward from (taskIndex, questionIndex) over tasks × questions, skipping
// pairs that are already answered or where the question is not relevant, and moving to the
// first task of the next question at the end of the task list.
//
// The walk is a loop bounded by len(tasks)*len(questions)+len(questions) steps.
func Advance(tasks []model.Task, questions []model.Question, taskIndex, questionIndex int) Outcome {
	if len(tasks) == 0 || len(questions) == 0 {
		return Outcome{State: Exhausted, TaskIndex: taskIndex, QuestionIndex: questionIndex}
	}
	if taskIndex < 0 {
		taskIndex = 0
	}
	if questionIndex < 0 {
		questionIndex = 0
	}

	lastTask := len(tasks) - 1
	lastQuestion := len(questions) - 1
	limit := len(tasks)*len(questions) + len(questions)
	ti, qi := taskIndex, questionIndex
	visited := 0

	for step := 0; step <= limit; step++ {
		if qi > lastQuestion {
			break
		}
		if ti > lastTask {
			if qi < lastQuestion {
				ti, qi = 0, qi+1
				continue
			}
			break
		}

		visited++
		t := tasks[ti]
		q := questions[qi]
		switch {
		case qi == lastQuestion && ti == lastTask:
			return Outcome{State: Finished, TaskIndex: ti, QuestionIndex: qi, Visited: visited}
		case q.IsAnsweredBy(t):
			ti++
		case len(relevancy.Test(q, t)) > 0:
			ti++
		default:
			return Outcome{State: Positioned, TaskIndex: ti, QuestionIndex: qi, Visited: visited}
		}
	}
	return Outcome{State: Exhausted, TaskIndex: taskIndex, QuestionIndex: questionIndex, Visited: visited}
}

// FilterTasks keeps tasks with at least one sentence whose topic key is selected.
// An empty selection keeps every task.
func FilterTasks(tasks []model.Task, selectedTopics []string) []model.Task {
	if len(selectedTopics) == 0 {
		return tasks
	}
	keys := make(map[string]bool, len(selectedTopics))
	for _, k := range selectedTopics {
		keys[k] = true
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.HasTopicIn(keys) {
			out = append(out, t)
		}
	}
	return out
}

// SelectNextAvailableTask returns the index of the first task without annotations.
//
// A match at index 0 is reported as "none found" (-1), and any negative index
// resolves to 0, so the first task is never skipped over.
func SelectNextAvailableTask(tasks []model.Task) int {
	i := -1
	for idx, t := range tasks {
		if t.Annotations == nil {
			i = idx
			break
		}
	}
	if i == 0 {
		i = -1
	}
	if i >= 0 {
		return i
	}
	return 0
}

// Clamp bounds a manual task index to [0, n-1] (0 when n is 0).
func Clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
