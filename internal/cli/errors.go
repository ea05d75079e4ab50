package cli

import (
	"fmt"
	"strconv"
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/session"
)

func errNotFound(kind, id string) error {
	return mutate.NotFoundError{Kind: kind, ID: id}
}

type usageError struct {
	arg string
	msg string
}

func (e usageError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.arg, e.msg)
}

// parseIndex reads a non-negative integer argument.
func parseIndex(arg, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, usageError{arg: arg, msg: fmt.Sprintf("%q is not a non-negative integer", s)}
	}
	return n, nil
}

// questionIndex resolves a question by prop. An empty selector means the cursor's question.
func questionIndex(sess *session.Session, prop string) (int, error) {
	qs := sess.Questions()
	if len(qs) == 0 {
		return 0, errNotFound("question", prop)
	}
	prop = strings.TrimSpace(prop)
	if prop == "" {
		return sess.Cursor().QuestionIndex, nil
	}
	if i, ok := mutate.FindQuestion(qs, prop); ok {
		return i, nil
	}
	return 0, errNotFound("question", prop)
}

// findTaskIndex resolves a task by id, falling back to a 1-based position in the
// filtered task list.
func findTaskIndex(tasks []model.Task, sel string) (int, bool) {
	sel = strings.TrimSpace(sel)
	for i, t := range tasks {
		if t.ID == sel {
			return i, true
		}
	}
	if n, err := strconv.Atoi(sel); err == nil && n >= 1 && n <= len(tasks) {
		return n - 1, true
	}
	return 0, false
}
