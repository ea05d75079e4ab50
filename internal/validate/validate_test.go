package validate

import (
	"encoding/json"
	"errors"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func TestTasks(t *testing.T) {
	ok := decode(t, `[{"id": "1", "title": "A", "sentences": [{"text": "x", "topic": 1}]}, {"id": 2, "title": "B", "sentences": []}]`)
	if err := Tasks(ok); err != nil {
		t.Fatalf("expected valid tasks; got %v", err)
	}

	missingTopic := decode(t, `[{"id": "1", "title": "A", "sentences": [{"text": "x"}]}]`)
	if err := Tasks(missingTopic); err == nil || err.Error() != "Invalid format for: documents" {
		t.Fatalf("expected documents error; got %v", err)
	}

	missingTitle := decode(t, `[{"id": "1", "sentences": []}]`)
	if err := Tasks(missingTitle); err == nil {
		t.Fatalf("expected error for missing title")
	}

	if err := Tasks(decode(t, `[]`)); err == nil || err.Error() != "No file provided" {
		t.Fatalf("expected no-file error for empty array; got %v", err)
	}
	if err := Tasks(decode(t, `{"tasks": []}`)); err == nil || err.Error() != "No file provided" {
		t.Fatalf("expected no-file error for object; got %v", err)
	}
}

func TestTopics(t *testing.T) {
	if err := Topics(decode(t, `[{"id": 1, "name": "x", "color": "#fff"}]`)); err != nil {
		t.Fatalf("expected valid topics; got %v", err)
	}
	if err := Topics(decode(t, `[{"id": 1, "name": ""}]`)); err == nil || err.Error() != "Invalid format for: topics" {
		t.Fatalf("expected topics error; got %v", err)
	}
}

func TestQuestions(t *testing.T) {
	valid := `[{"text": "Q?", "prop": "q1", "answers": [{"label": "Yes", "value": "yes"}, {"label": "Skip"}],
		"relevancy": [[{"prop": "q0", "value": true}, {"prop": "q0"}]]}]`
	if err := Questions(decode(t, valid)); err != nil {
		t.Fatalf("expected valid questions; got %v", err)
	}

	cases := []string{
		`[{"text": 1, "prop": "q1", "answers": []}]`,
		`[{"text": "Q", "prop": "q1", "answers": [{"value": 1}]}]`,
		`[{"text": "Q", "prop": "q1", "answers": [], "relevancy": [{"prop": "q0"}]}]`,
		`[{"text": "Q", "prop": "q1", "answers": [], "relevancy": [[{"value": 1}]]}]`,
		`[{"text": "Q", "prop": "q1"}]`,
	}
	for _, c := range cases {
		err := Questions(decode(t, c))
		var verr *Error
		if !errors.As(err, &verr) || verr.Artifact != ArtifactQuestions {
			t.Fatalf("expected questions error for %s; got %v", c, err)
		}
	}
}

func TestCombined(t *testing.T) {
	ok := decode(t, `{"tasks": [{"id": "1", "title": "A", "sentences": []}], "topics": [], "questions": null}`)
	if err := Combined(ok); err != nil {
		t.Fatalf("expected valid combined; got %v", err)
	}
	tasksOnly := decode(t, `{"tasks": [{"id": "1", "title": "A", "sentences": []}]}`)
	if err := Combined(tasksOnly); err != nil {
		t.Fatalf("expected tasks-only combined to be valid; got %v", err)
	}

	badTopics := decode(t, `{"tasks": [{"id": "1", "title": "A", "sentences": []}], "topics": [{"id": 1}]}`)
	if err := Combined(badTopics); err == nil || err.Error() != "Invalid data format" {
		t.Fatalf("expected data error; got %v", err)
	}
	noTasks := decode(t, `{"topics": [{"id": 1, "name": "x"}]}`)
	if err := Combined(noTasks); err == nil {
		t.Fatalf("expected error without tasks")
	}
	if err := Combined(decode(t, `[]`)); err == nil {
		t.Fatalf("expected error for array payload")
	}
}
