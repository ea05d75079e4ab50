package traverse

// Cursor is the current traversal position. Manual moves ignore answered/relevancy
// state and only clamp to the task list.
type Cursor struct {
	TaskIndex     int  `json:"taskIndex"`
	QuestionIndex int  `json:"questionIndex"`
	Finished      bool `json:"finished,omitempty"`
}

func (c Cursor) Back(n int) Cursor {
	c.Finished = false
	c.TaskIndex = Clamp(c.TaskIndex-1, n)
	return c
}

func (c Cursor) Next(n int) Cursor {
	c.Finished = false
	c.TaskIndex = Clamp(c.TaskIndex+1, n)
	return c
}

func (c Cursor) First() Cursor {
	c.Finished = false
	c.TaskIndex = 0
	return c
}

func (c Cursor) Last(n int) Cursor {
	c.Finished = false
	c.TaskIndex = Clamp(n-1, n)
	return c
}

func (c Cursor) JumpTo(i, n int) Cursor {
	c.Finished = false
	c.TaskIndex = Clamp(i, n)
	return c
}

// WithQuestion selects a question directly (bounded to the question list).
func (c Cursor) WithQuestion(i, questions int) Cursor {
	c.Finished = false
	c.QuestionIndex = Clamp(i, questions)
	return c
}

// Apply moves the cursor according to an Advance outcome.
func (c Cursor) Apply(o Outcome) Cursor {
	switch o.State {
	case Positioned:
		return Cursor{TaskIndex: o.TaskIndex, QuestionIndex: o.QuestionIndex}
	case Finished:
		return Cursor{TaskIndex: o.TaskIndex, QuestionIndex: o.QuestionIndex, Finished: true}
	default:
		return c
	}
}
