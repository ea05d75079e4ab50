package session

import (
	"errors"
	"fmt"

	"annotate-cli/internal/model"
)

var ErrNoCollection = errors.New("no collection selected; import one with `annotate collections import`")

// NameError rejects a collection name before anything is changed.
type NameError struct {
	Name      string
	Duplicate bool
}

func (e *NameError) Error() string {
	if e.Duplicate {
		return "A collection with this name already exists. Please change the name"
	}
	return "You have to define a collection name"
}

// InvalidAnswerError is returned when a value is not one of the question's answers.
type InvalidAnswerError struct {
	Prop  string
	Input string
	Value model.Value
}

func (e *InvalidAnswerError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%q is not an answer of question %q", e.Input, e.Prop)
	}
	return fmt.Sprintf("%s is not an answer of question %q", e.Value.String(), e.Prop)
}
