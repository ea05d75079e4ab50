package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"annotate-cli/internal/model"
)

func TestNavState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}

	// Missing file => default state.
	st0, err := s.LoadNavState()
	if err != nil {
		t.Fatalf("LoadNavState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &NavState{
		Version:        1,
		Collection:     "news",
		TaskIndex:      3,
		QuestionIndex:  1,
		SelectedTopics: []string{"1", "t2"},
		BulkDraft:      model.Annotations{"q1": model.String("yes"), "q2": model.Number(2)},
		View:           "annotate",
	}
	if err := s.SaveNavState(want); err != nil {
		t.Fatalf("SaveNavState: %v", err)
	}
	got, err := s.LoadNavState()
	if err != nil {
		t.Fatalf("LoadNavState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestNavState_CorruptFileIsIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, navStateFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := Store{Dir: dir}.LoadNavState()
	if err != nil {
		t.Fatalf("LoadNavState: %v", err)
	}
	if st.Version != 1 || st.TaskIndex != 0 {
		t.Fatalf("expected default state; got %#v", st)
	}
}
