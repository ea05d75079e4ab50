package interchange

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"annotate-cli/internal/model"
	"annotate-cli/internal/validate"
)

const tasksFile = `[
  {"id": "1", "title": "First", "sentences": [{"text": "A", "topic": 1}, {"text": "B", "topic": -1}],
   "annotations": {"q1": "yes", "q2": 3, "q3": true, "q4": null}},
  {"id": "2", "title": "Second", "sentences": [{"text": "C", "topic": "t-2"}], "annotations": {}},
  {"id": "3", "title": "Third", "sentences": []}
]`

const topicsFile = `[
  {"id": 1, "name": "Health", "color": "#ff0000", "count": 12},
  {"id": "t-2", "name": "Other"}
]`

const questionsFile = `[
  {"text": "Relevant?", "prop": "q1", "answers": [{"label": "Yes", "value": "yes", "color": "green"}, {"label": "No", "value": "no"}]},
  {"text": "How many?", "prop": "q2", "answers": [{"label": "Three", "value": 3}, {"label": "Unknown"}],
   "relevancy": [[{"prop": "q1", "value": "yes"}, {"prop": "q1"}]], "relevantTopics": []}
]`

func sameJSON(t *testing.T, a, b []byte) {
	t.Helper()
	var x, y any
	if err := json.Unmarshal(a, &x); err != nil {
		t.Fatalf("unmarshal a: %v", err)
	}
	if err := json.Unmarshal(b, &y); err != nil {
		t.Fatalf("unmarshal b: %v", err)
	}
	if !reflect.DeepEqual(x, y) {
		t.Fatalf("json differs:\n a: %s\n b: %s", a, b)
	}
}

func TestRoundTrip(t *testing.T) {
	tasks, err := Decode([]byte(tasksFile), KindTasks)
	if err != nil {
		t.Fatalf("decode tasks: %v", err)
	}
	topics, err := Decode([]byte(topicsFile), KindTopics)
	if err != nil {
		t.Fatalf("decode topics: %v", err)
	}
	questions, err := Decode([]byte(questionsFile), KindQuestions)
	if err != nil {
		t.Fatalf("decode questions: %v", err)
	}
	c := model.Collection{Name: "c", Tasks: tasks.Tasks, Topics: topics.Topics, Questions: questions.Questions}

	out, err := Marshal(c, ArtifactTasks, nil)
	if err != nil {
		t.Fatalf("marshal tasks: %v", err)
	}
	sameJSON(t, []byte(tasksFile), out)

	out, _ = Marshal(c, ArtifactTopics, nil)
	sameJSON(t, []byte(topicsFile), out)

	out, _ = Marshal(c, ArtifactQuestions, nil)
	sameJSON(t, []byte(questionsFile), out)

	combined := `{"tasks": ` + tasksFile + `, "topics": ` + topicsFile + `, "questions": ` + questionsFile + `}`
	p, err := Decode([]byte(combined), KindCombined)
	if err != nil {
		t.Fatalf("decode combined: %v", err)
	}
	out, _ = Marshal(model.Collection{Name: "c", Tasks: p.Tasks, Topics: p.Topics, Questions: p.Questions}, ArtifactData, nil)
	sameJSON(t, []byte(combined), out)
}

func TestRoundTripKeepsFileShape(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		art  Artifact
		in   string
	}{
		{"empty topic color", KindTopics, ArtifactTopics, `[{"id": 1, "name": "x", "color": ""}, {"id": 2, "name": "y"}]`},
		{"numeric task id", KindTasks, ArtifactTasks, `[{"id": 1, "title": "t", "sentences": []}, {"id": "2", "title": "u", "sentences": []}]`},
		{"unknown task keys", KindTasks, ArtifactTasks, `[{"id": "1", "title": "t", "url": "x", "meta": {"a": [1, 2]}, "sentences": [{"text": "A", "topic": 1, "offset": 4}]}]`},
		{"unknown topic keys", KindTopics, ArtifactTopics, `[{"id": "a", "name": "x", "color": "#fff", "parent": null}]`},
		{"unknown question keys", KindQuestions, ArtifactQuestions, `[{"text": "Q", "prop": "q1", "hint": "h", "answers": [{"label": "Yes", "value": 1, "color": "", "key": "y"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.in), tt.kind)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			c := model.Collection{Name: "c", Tasks: p.Tasks, Topics: p.Topics, Questions: p.Questions}
			out, err := Marshal(c.Clone(), tt.art, nil)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			sameJSON(t, []byte(tt.in), out)
		})
	}
}

func TestNumericTaskIDIsComparedAsText(t *testing.T) {
	p, err := Decode([]byte(`[{"id": 7, "title": "t", "sentences": []}]`), KindTasks)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Tasks[0].ID != "7" || !p.Tasks[0].NumericID() {
		t.Fatalf("unexpected id: %q numeric=%v", p.Tasks[0].ID, p.Tasks[0].NumericID())
	}
}

func TestDecodeKeepsValueKinds(t *testing.T) {
	p, err := Decode([]byte(tasksFile), KindTasks)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ann := p.Tasks[0].Annotations
	if ann["q2"].Kind() != model.KindNumber || ann["q3"].Kind() != model.KindBool || ann["q4"].Kind() != model.KindNull {
		t.Fatalf("unexpected value kinds: %#v", ann)
	}
	if p.Tasks[1].Annotations == nil || len(p.Tasks[1].Annotations) != 0 {
		t.Fatalf("expected empty (non-nil) annotations for task 2")
	}
	if p.Tasks[2].Annotations != nil {
		t.Fatalf("expected nil annotations for task 3")
	}
}

func TestDecodeRejectsWholePayload(t *testing.T) {
	bad := `{"tasks": [{"id": "1", "title": "A", "sentences": []}], "questions": [{"text": "Q", "prop": "q"}]}`
	p, err := Decode([]byte(bad), KindCombined)
	var verr *validate.Error
	if !errors.As(err, &verr) || verr.Artifact != validate.ArtifactData {
		t.Fatalf("expected data validation error; got %v", err)
	}
	if p.Tasks != nil || p.Questions != nil {
		t.Fatalf("expected no partial payload; got %#v", p)
	}
}

func TestDecodeTypedFailureIsValidationError(t *testing.T) {
	bad := `[{"id": "1", "title": "A", "sentences": [{"text": "x", "topic": true}]}]`
	_, err := Decode([]byte(bad), KindTasks)
	if err == nil || err.Error() != "Invalid format for: documents" {
		t.Fatalf("expected documents error; got %v", err)
	}
}

func TestReadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yaml")
	y := `
- text: Relevant?
  prop: q1
  answers:
    - label: "Yes"
      value: "yes"
    - label: Count
      value: 2
  relevancy:
    - - prop: q0
        value: true
`
	if err := os.WriteFile(path, []byte(y), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := ReadFile(path, KindQuestions)
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if len(p.Questions) != 1 || p.Questions[0].Prop != "q1" {
		t.Fatalf("unexpected questions: %#v", p.Questions)
	}
	if !p.Questions[0].Answers[1].Value.Equal(model.Number(2)) {
		t.Fatalf("expected numeric answer value; got %v", p.Questions[0].Answers[1].Value)
	}
	if !p.Questions[0].Relevancy[0][0].Value.Equal(model.Bool(true)) {
		t.Fatalf("expected boolean relevancy value")
	}
}

func TestReadFileWithoutPath(t *testing.T) {
	_, err := ReadFile("", KindTasks)
	if err == nil || err.Error() != "No file provided" {
		t.Fatalf("expected no-file error; got %v", err)
	}
}

func TestWriteExportFilenames(t *testing.T) {
	dir := t.TempDir()
	c := model.Collection{Name: "news", Tasks: []model.Task{{ID: "1", Title: "A", Sentences: []model.Sentence{}}}}
	path, err := WriteExport(dir, c, ArtifactTasks, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "news_tasks.json" {
		t.Fatalf("unexpected filename: %s", path)
	}
	path, err = WriteExport(dir, c, ArtifactTasksSubset, c.Tasks)
	if err != nil {
		t.Fatalf("export subset: %v", err)
	}
	if filepath.Base(path) != "news_tasks_subset_1.json" {
		t.Fatalf("unexpected subset filename: %s", path)
	}
	if got := Filename("news", ArtifactData, 0); got != "news_data.json" {
		t.Fatalf("unexpected data filename: %s", got)
	}
}
