package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"annotate-cli/internal/model"
)

const navStateFileName = "nav_state.json"

// NavState stores where the user was in the active collection so successive CLI
// invocations (and TUI relaunches) continue from the same task and question.
//
// This file lives inside the workspace directory. It is "best effort": callers should
// tolerate missing/invalid data.
type NavState struct {
	Version int `json:"version"`

	// Collection is the name of the collection the cursor belongs to; the rest is
	// ignored when the selected collection changed since the last save.
	Collection string `json:"collection,omitempty"`

	TaskIndex     int  `json:"taskIndex"`
	QuestionIndex int  `json:"questionIndex"`
	Finished      bool `json:"finished,omitempty"`

	SelectedTopics []string          `json:"selectedTopics,omitempty"`
	BulkDraft      model.Annotations `json:"bulkDraft,omitempty"`

	// View is one of: collections|annotate (TUI only).
	View string `json:"view,omitempty"`
}

func (s Store) navStatePath() string {
	return filepath.Join(s.Dir, navStateFileName)
}

func (s Store) LoadNavState() (*NavState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &NavState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.navStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NavState{Version: 1}, nil
		}
		return nil, err
	}
	var st NavState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &NavState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveNavState(st *NavState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, navStateFileName+".*.tmp", s.navStatePath(), b, 0o644)
}
