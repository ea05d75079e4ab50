package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type RangeError struct {
	Kind  string
	Index int
	Len   int
}

func (e RangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range (have %d)", e.Kind, e.Index, e.Len)
}
