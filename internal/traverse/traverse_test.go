package traverse

import (
	"testing"

	"annotate-cli/internal/model"
	"annotate-cli/internal/relevancy"
)

func yesNo(prop string) model.Question {
	return model.Question{
		Text: prop + "?",
		Prop: prop,
		Answers: []model.Answer{
			{Label: "Yes", Value: model.String("yes")},
			{Label: "No", Value: model.String("no")},
		},
	}
}

func tasksN(n int) []model.Task {
	out := make([]model.Task, n)
	for i := range out {
		out[i] = model.Task{ID: string(rune('a' + i)), Sentences: []model.Sentence{{Text: "s", Topic: model.NumTopic(float64(i % 2))}}}
	}
	return out
}

func TestAdvanceSettlesOnFirstUnanswered(t *testing.T) {
	tasks := tasksN(3)
	tasks[0].Annotations = model.Annotations{"q1": model.String("yes")}
	qs := []model.Question{yesNo("q1"), yesNo("q2")}

	o := Advance(tasks, qs, 0, 0)
	if o.State != Positioned || o.TaskIndex != 1 || o.QuestionIndex != 0 {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestAdvanceIgnoresUndeclaredStoredValue(t *testing.T) {
	tasks := tasksN(2)
	tasks[0].Annotations = model.Annotations{"q1": model.String("maybe")}
	o := Advance(tasks, []model.Question{yesNo("q1"), yesNo("q2")}, 0, 0)
	if o.State != Positioned || o.TaskIndex != 0 {
		t.Fatalf("expected task with undeclared value to be presented; got %+v", o)
	}
}

func TestAdvanceMovesToNextQuestionAtBoundary(t *testing.T) {
	tasks := tasksN(2)
	qs := []model.Question{yesNo("q1"), yesNo("q2")}
	o := Advance(tasks, qs, 2, 0)
	if o.State != Positioned || o.TaskIndex != 0 || o.QuestionIndex != 1 {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestAdvanceSkipsIrrelevant(t *testing.T) {
	tasks := tasksN(3)
	tasks[0].Annotations = model.Annotations{"q1": model.String("no")}
	tasks[1].Annotations = model.Annotations{"q1": model.String("yes")}
	tasks[2].Annotations = model.Annotations{"q1": model.String("no")}
	q2 := yesNo("q2")
	q2.Relevancy = [][]model.RelevancyTest{{{Prop: "q1", Value: model.String("yes")}}}
	qs := []model.Question{yesNo("q1"), q2, yesNo("q3")}

	o := Advance(tasks, qs, 0, 1)
	if o.State != Positioned || o.TaskIndex != 1 || o.QuestionIndex != 1 {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestAdvanceFinishedAtLastPair(t *testing.T) {
	tasks := tasksN(2)
	qs := []model.Question{yesNo("q1")}
	o := Advance(tasks, qs, 1, 0)
	if o.State != Finished || o.TaskIndex != 1 || o.QuestionIndex != 0 {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestAdvanceExhaustedPastTheEnd(t *testing.T) {
	tasks := tasksN(2)
	qs := []model.Question{yesNo("q1")}
	o := Advance(tasks, qs, 2, 0)
	if o.State != Exhausted || o.TaskIndex != 2 || o.QuestionIndex != 0 {
		t.Fatalf("unexpected outcome: %+v", o)
	}
	if o := Advance(nil, qs, 0, 0); o.State != Exhausted {
		t.Fatalf("expected exhausted without tasks; got %+v", o)
	}
	if o := Advance(tasks, nil, 0, 0); o.State != Exhausted {
		t.Fatalf("expected exhausted without questions; got %+v", o)
	}
}

func TestAdvanceNeverSettlesOnAnsweredOrIrrelevant(t *testing.T) {
	tasks := tasksN(6)
	for i := range tasks {
		switch i % 3 {
		case 0:
			tasks[i].Annotations = model.Annotations{"q1": model.String("yes")}
		case 1:
			tasks[i].Annotations = model.Annotations{"q1": model.String("no"), "q2": model.String("yes")}
		}
	}
	q2 := yesNo("q2")
	q2.Relevancy = [][]model.RelevancyTest{{{Prop: "q1", Value: model.String("yes")}}}
	qs := []model.Question{yesNo("q1"), q2, yesNo("q3")}

	ti, qi := 0, 0
	for steps := 0; steps < 100; steps++ {
		o := Advance(tasks, qs, ti, qi)
		if o.State != Positioned {
			if o.State != Finished {
				t.Fatalf("expected to finish; got %+v", o)
			}
			return
		}
		task, q := tasks[o.TaskIndex], qs[o.QuestionIndex]
		if q.IsAnsweredBy(task) {
			t.Fatalf("settled on answered pair %+v", o)
		}
		if !relevancy.Relevant(q, task) {
			t.Fatalf("settled on irrelevant pair %+v", o)
		}
		ti, qi = o.TaskIndex+1, o.QuestionIndex
	}
	t.Fatalf("traversal did not terminate")
}

func TestAdvanceVisitsEachPairAtMostOnce(t *testing.T) {
	tasks := tasksN(20)
	for i := range tasks {
		tasks[i].Annotations = model.Annotations{"q1": model.String("yes"), "q2": model.String("no"), "q3": model.String("yes")}
	}
	qs := []model.Question{yesNo("q1"), yesNo("q2"), yesNo("q3")}
	o := Advance(tasks, qs, 0, 0)
	if o.State != Finished {
		t.Fatalf("expected finished; got %+v", o)
	}
	if o.Visited > len(tasks)*len(qs) {
		t.Fatalf("visited %d pairs, more than %d", o.Visited, len(tasks)*len(qs))
	}
}

func TestFilterTasks(t *testing.T) {
	tasks := tasksN(4)
	if got := FilterTasks(tasks, nil); len(got) != 4 {
		t.Fatalf("expected all tasks without selection; got %d", len(got))
	}
	got := FilterTasks(tasks, []string{"1"})
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "d" {
		t.Fatalf("unexpected filtered tasks: %#v", got)
	}
}

func TestSelectNextAvailableTask(t *testing.T) {
	tasks := tasksN(3)
	if got := SelectNextAvailableTask(tasks); got != 0 {
		t.Fatalf("expected 0 when first task is free; got %d", got)
	}
	tasks[0].Annotations = model.Annotations{}
	if got := SelectNextAvailableTask(tasks); got != 1 {
		t.Fatalf("expected 1; got %d", got)
	}
	for i := range tasks {
		tasks[i].Annotations = model.Annotations{}
	}
	if got := SelectNextAvailableTask(tasks); got != 0 {
		t.Fatalf("expected 0 when every task is annotated; got %d", got)
	}
	if got := SelectNextAvailableTask(nil); got != 0 {
		t.Fatalf("expected 0 for no tasks; got %d", got)
	}
}

func TestCursorManualMovesClamp(t *testing.T) {
	c := Cursor{}
	if c = c.Back(3); c.TaskIndex != 0 {
		t.Fatalf("back at 0 should stay; got %d", c.TaskIndex)
	}
	c = c.Next(3).Next(3).Next(3)
	if c.TaskIndex != 2 {
		t.Fatalf("next should clamp at 2; got %d", c.TaskIndex)
	}
	if c = c.JumpTo(-5, 3); c.TaskIndex != 0 {
		t.Fatalf("jump below range should clamp; got %d", c.TaskIndex)
	}
	if c = c.JumpTo(99, 3); c.TaskIndex != 2 {
		t.Fatalf("jump above range should clamp; got %d", c.TaskIndex)
	}
	if c = c.First(); c.TaskIndex != 0 {
		t.Fatalf("first; got %d", c.TaskIndex)
	}
	if c = c.Last(3); c.TaskIndex != 2 {
		t.Fatalf("last; got %d", c.TaskIndex)
	}
	if c = c.WithQuestion(7, 2); c.QuestionIndex != 1 {
		t.Fatalf("question should clamp; got %d", c.QuestionIndex)
	}
}

func TestCursorApplyKeepsPositionWhenExhausted(t *testing.T) {
	c := Cursor{TaskIndex: 4, QuestionIndex: 1}
	if got := c.Apply(Outcome{State: Exhausted, TaskIndex: 9, QuestionIndex: 9}); got != c {
		t.Fatalf("expected unchanged cursor; got %+v", got)
	}
	if got := c.Apply(Outcome{State: Finished, TaskIndex: 5, QuestionIndex: 1}); !got.Finished || got.TaskIndex != 5 {
		t.Fatalf("expected finished cursor; got %+v", got)
	}
}
