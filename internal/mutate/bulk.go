package mutate

import (
	"slices"

	"annotate-cli/internal/model"
)

// ToggleAnswer returns a copy of ann with prop set to v, or with prop removed when it
// already holds v. The undefined value always removes prop. An empty result is nil, so a
// never-annotated task toggled twice with the same value is never-annotated again.
func ToggleAnswer(ann model.Annotations, prop string, v model.Value) model.Annotations {
	out := ann.Clone()
	if out == nil {
		out = model.Annotations{}
	}
	cur, ok := out[prop]
	if v.IsUndefined() || (ok && cur.Equal(v)) {
		delete(out, prop)
	} else {
		out[prop] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BulkDraft holds the answers staged for a bulk apply.
type BulkDraft model.Annotations

func (d BulkDraft) Toggle(prop string, v model.Value) BulkDraft {
	return BulkDraft(ToggleAnswer(model.Annotations(d), prop, v))
}

func (d BulkDraft) Empty() bool { return len(d) == 0 }

// BulkTargets returns the tasks with a sentence on one of the selected topic keys.
// Unlike the navigation filter, an empty selection targets nothing.
func BulkTargets(tasks []model.Task, selectedTopics []string) []model.Task {
	set := keySet(selectedTopics)
	out := []model.Task{}
	for _, t := range tasks {
		if t.HasTopicIn(set) {
			out = append(out, t)
		}
	}
	return out
}

func TaskIDs(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// ApplyBulk merges the draft into the annotations of every target task, overwriting
// existing keys. An empty draft removes the annotations of the targets instead.
func ApplyBulk(tasks []model.Task, targetIDs []string, draft BulkDraft) ([]model.Task, int) {
	out := model.CloneTasks(tasks)
	n := 0
	for i := range out {
		if !slices.Contains(targetIDs, out[i].ID) {
			continue
		}
		n++
		if draft.Empty() {
			out[i].Annotations = nil
			continue
		}
		if out[i].Annotations == nil {
			out[i].Annotations = model.Annotations{}
		}
		for k, v := range draft {
			out[i].Annotations[k] = v
		}
	}
	return out, n
}
