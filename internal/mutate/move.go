package mutate

import "annotate-cli/internal/model"

// move relocates xs[from] to position to and returns a new slice.
func move[T any](kind string, xs []T, from, to int) ([]T, bool, error) {
	if from < 0 || from >= len(xs) {
		return xs, false, RangeError{Kind: kind, Index: from, Len: len(xs)}
	}
	if to < 0 || to >= len(xs) {
		return xs, false, RangeError{Kind: kind, Index: to, Len: len(xs)}
	}
	if from == to {
		return xs, false, nil
	}
	out := make([]T, 0, len(xs))
	out = append(out, xs[:from]...)
	out = append(out, xs[from+1:]...)
	item := xs[from]
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out, true, nil
}

// MoveTopic moves the topic at from to index to. Equal indices are a no-op.
func MoveTopic(topics []model.Topic, from, to int) ([]model.Topic, bool, error) {
	return move("topic", model.CloneTopics(topics), from, to)
}

// MoveQuestion moves the question at from to index to. Equal indices are a no-op.
func MoveQuestion(questions []model.Question, from, to int) ([]model.Question, bool, error) {
	return move("question", model.CloneQuestions(questions), from, to)
}
