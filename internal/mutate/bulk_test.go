package mutate

import (
	"reflect"
	"testing"

	"annotate-cli/internal/model"
)

func TestToggleAnswerTwiceRestoresState(t *testing.T) {
	cases := []model.Annotations{
		nil,
		{"other": model.Number(1)},
	}
	for _, before := range cases {
		once := ToggleAnswer(before, "q1", model.String("yes"))
		if !once["q1"].Equal(model.String("yes")) {
			t.Fatalf("expected q1 to be set; got %#v", once)
		}
		twice := ToggleAnswer(once, "q1", model.String("yes"))
		if !reflect.DeepEqual(before, twice) {
			t.Fatalf("toggle twice: want %#v, got %#v", before, twice)
		}
	}
}

func TestToggleAnswerDropsEmptyAnnotations(t *testing.T) {
	if got := ToggleAnswer(model.Annotations{"q1": model.String("yes")}, "q1", model.String("yes")); got != nil {
		t.Fatalf("expected nil annotations; got %#v", got)
	}
}

func TestToggleAnswerReplacesDifferentValue(t *testing.T) {
	got := ToggleAnswer(model.Annotations{"q1": model.String("yes")}, "q1", model.String("no"))
	if !got["q1"].Equal(model.String("no")) {
		t.Fatalf("expected no; got %#v", got)
	}
	got = ToggleAnswer(model.Annotations{"q1": model.Number(1)}, "q1", model.String("1"))
	if !got["q1"].Equal(model.String("1")) {
		t.Fatalf("expected strict comparison to replace the value; got %#v", got)
	}
	got = ToggleAnswer(model.Annotations{"q1": model.Number(1)}, "q1", model.Value{})
	if _, ok := got["q1"]; ok {
		t.Fatalf("expected undefined to remove the key; got %#v", got)
	}
}

func TestBulkDraftToggle(t *testing.T) {
	var d BulkDraft
	d = d.Toggle("q1", model.String("yes"))
	d = d.Toggle("q2", model.Bool(false))
	if len(d) != 2 {
		t.Fatalf("expected 2 staged answers; got %#v", d)
	}
	d = d.Toggle("q1", model.String("yes"))
	if len(d) != 1 || d.Empty() {
		t.Fatalf("expected q1 to be unstaged; got %#v", d)
	}
}

func TestBulkTargets(t *testing.T) {
	tasks := []model.Task{
		task("A", model.NumTopic(1)),
		task("B", model.NumTopic(2)),
		task("C", model.NumTopic(1), model.NumTopic(3)),
	}
	if got := BulkTargets(tasks, nil); len(got) != 0 {
		t.Fatalf("expected no targets without a selection; got %d", len(got))
	}
	if ids := TaskIDs(BulkTargets(tasks, []string{"1"})); !reflect.DeepEqual(ids, []string{"A", "C"}) {
		t.Fatalf("unexpected targets: %v", ids)
	}
}

func TestApplyBulk_EmptyDraftRemovesAnnotationsFromTargets(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Annotations: model.Annotations{"q1": model.String("yes")}},
		{ID: "2", Annotations: model.Annotations{}},
		{ID: "3"},
		{ID: "4", Annotations: model.Annotations{"q1": model.String("no")}},
	}

	out, n := ApplyBulk(tasks, []string{"1", "2", "3"}, BulkDraft{})
	if n != 3 {
		t.Fatalf("expected 3 targets; got %d", n)
	}
	for _, tk := range out[:3] {
		if tk.Annotations != nil {
			t.Fatalf("expected annotations removed from %s; got %#v", tk.ID, tk.Annotations)
		}
	}
	if !out[3].Annotations["q1"].Equal(model.String("no")) {
		t.Fatalf("expected non-target to be untouched; got %#v", out[3].Annotations)
	}
}

func TestApplyBulk_MergesDraft(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Annotations: model.Annotations{"q1": model.String("yes"), "q2": model.String("x")}},
		{ID: "2"},
	}
	draft := BulkDraft{"q1": model.String("no")}
	out, n := ApplyBulk(tasks, []string{"1", "2"}, draft)
	if n != 2 {
		t.Fatalf("expected 2 targets; got %d", n)
	}
	if !reflect.DeepEqual(out[0].Annotations, model.Annotations{"q1": model.String("no"), "q2": model.String("x")}) {
		t.Fatalf("unexpected merge: %#v", out[0].Annotations)
	}
	if !reflect.DeepEqual(out[1].Annotations, model.Annotations{"q1": model.String("no")}) {
		t.Fatalf("unexpected merge: %#v", out[1].Annotations)
	}
	if !tasks[0].Annotations["q1"].Equal(model.String("yes")) {
		t.Fatalf("input tasks were mutated")
	}
}
