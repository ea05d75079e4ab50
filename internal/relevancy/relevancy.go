package relevancy

import "annotate-cli/internal/model"

// Test returns the AND blocks of q.Relevancy that the task's annotations do not satisfy.
//
// A block is satisfied when any of its tests matches the stored answer exactly; a test
// without a value matches a question that has not been answered. An empty result means
// the question applies to the task. Tasks without annotations never fail.
func Test(q model.Question, t model.Task) [][]model.RelevancyTest {
	if len(q.Relevancy) == 0 || t.Annotations == nil {
		return [][]model.RelevancyTest{}
	}
	failed := [][]model.RelevancyTest{}
	for _, block := range q.Relevancy {
		if len(block) == 0 {
			continue
		}
		if !blockSatisfied(block, t.Annotations) {
			failed = append(failed, block)
		}
	}
	return failed
}

func blockSatisfied(block []model.RelevancyTest, ann model.Annotations) bool {
	for _, test := range block {
		if ann.Get(test.Prop).Equal(test.Value) {
			return true
		}
	}
	return false
}

// Relevant reports whether q applies to t.
func Relevant(q model.Question, t model.Task) bool {
	return len(Test(q, t)) == 0
}

// RelevantTasks filters tasks down to those q applies to.
func RelevantTasks(q model.Question, tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if Relevant(q, t) {
			out = append(out, t)
		}
	}
	return out
}
