// Package session holds the working state of the annotation workflow: the collection list,
// the active collection and the traversal cursor. Every change to the active collection
// flows back into the list through UpdateCollection.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/store"
	"annotate-cli/internal/traverse"
)

type Session struct {
	kv     store.KV
	log    *slog.Logger
	notify Notifier

	collections []model.Collection
	selectedID  int

	// Working copy of collections[selectedID].
	loaded    bool
	name      string
	tasks     []model.Task
	topics    []model.Topic
	questions []model.Question

	cursor         traverse.Cursor
	selectedTopics []string
	bulkDraft      mutate.BulkDraft
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notify = n
		}
	}
}

func New(kv store.KV, opts ...Option) *Session {
	s := &Session{
		kv:     kv,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		notify: discardNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the collection list and the selected index, then selects that collection.
func (s *Session) Load(ctx context.Context) error {
	s.collections = nil
	s.selectedID = 0

	raw, ok, err := s.kv.Get(ctx, store.KeyCollections)
	if err != nil {
		return fmt.Errorf("load collections: %w", err)
	}
	if ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.collections); err != nil {
			return fmt.Errorf("decode %s: %w", store.KeyCollections, err)
		}
	}

	selected := 0
	if b, ok, err := s.kv.Get(ctx, store.KeySelectedCollection); err != nil {
		return fmt.Errorf("load selected collection: %w", err)
	} else if ok {
		if n, err := strconv.Atoi(strings.TrimSpace(string(b))); err == nil {
			selected = n
		}
	}

	s.log.Debug("session loaded", "collections", len(s.collections), "selected", selected)
	s.SelectCollection(selected)
	return nil
}

// Save writes the collection list and the selected index.
func (s *Session) Save(ctx context.Context) error {
	cols := s.collections
	if cols == nil {
		cols = []model.Collection{}
	}
	b, err := json.Marshal(cols)
	if err != nil {
		return fmt.Errorf("encode collections: %w", err)
	}
	if err := s.kv.Put(ctx, store.KeyCollections, b); err != nil {
		return fmt.Errorf("save collections: %w", err)
	}
	if err := s.kv.Put(ctx, store.KeySelectedCollection, []byte(strconv.Itoa(s.selectedID))); err != nil {
		return fmt.Errorf("save selected collection: %w", err)
	}
	s.log.Debug("session saved", "collections", len(s.collections), "selected", s.selectedID)
	return nil
}

func (s *Session) Collections() []model.Collection { return model.CloneCollections(s.collections) }
func (s *Session) SelectedID() int                   { return s.selectedID }
func (s *Session) HasCollection() bool               { return s.loaded }
func (s *Session) Name() string                      { return s.name }
func (s *Session) Tasks() []model.Task               { return s.tasks }
func (s *Session) Topics() []model.Topic             { return s.topics }
func (s *Session) Questions() []model.Question       { return s.questions }
func (s *Session) Cursor() traverse.Cursor           { return s.cursor }
func (s *Session) SelectedTopics() []string          { return slices.Clone(s.selectedTopics) }
func (s *Session) BulkDraft() mutate.BulkDraft       { return s.bulkDraft }

// Collection returns the working state as a collection.
func (s *Session) Collection() model.Collection {
	return model.Collection{
		Name:      s.name,
		Tasks:     model.CloneTasks(s.tasks),
		Topics:    model.CloneTopics(s.topics),
		Questions: model.CloneQuestions(s.questions),
	}
}

// FilteredTasks are the tasks the cursor moves over.
func (s *Session) FilteredTasks() []model.Task {
	return traverse.FilterTasks(s.tasks, s.selectedTopics)
}

func (s *Session) CurrentTask() (model.Task, bool) {
	filtered := s.FilteredTasks()
	if s.cursor.TaskIndex < 0 || s.cursor.TaskIndex >= len(filtered) {
		return model.Task{}, false
	}
	return filtered[s.cursor.TaskIndex], true
}

func (s *Session) CurrentQuestion() (model.Question, bool) {
	if s.cursor.QuestionIndex < 0 || s.cursor.QuestionIndex >= len(s.questions) {
		return model.Question{}, false
	}
	return s.questions[s.cursor.QuestionIndex], true
}

func (s *Session) clear() {
	s.collections = nil
	s.selectedID = 0
	s.loaded = false
	s.name = ""
	s.tasks = nil
	s.topics = nil
	s.questions = nil
	s.cursor = traverse.Cursor{}
	s.selectedTopics = nil
	s.bulkDraft = nil
}

// SelectCollection makes collection i the working state. An out-of-range index selects
// the first collection; an empty list clears the state.
func (s *Session) SelectCollection(i int) {
	if len(s.collections) == 0 {
		s.clear()
		return
	}
	if i < 0 || i >= len(s.collections) {
		s.log.Debug("collection index out of range", "index", i, "collections", len(s.collections))
		i = 0
	}
	c := s.collections[i].Clone()
	if !s.loaded || i != s.selectedID || c.Name != s.name {
		s.selectedTopics = nil
		s.bulkDraft = nil
	}

	s.selectedID = i
	s.loaded = true
	s.name = c.Name
	s.tasks = c.Tasks
	s.topics = c.Topics
	s.questions = c.Questions
	s.cursor = traverse.Cursor{QuestionIndex: traverse.Clamp(s.cursor.QuestionIndex, len(s.questions))}

	s.log.Debug("collection selected", "index", i, "name", s.name, "tasks", len(s.tasks))
	s.advance(0, s.cursor.QuestionIndex)
}

// SelectCollectionByName selects the first collection with the given name.
func (s *Session) SelectCollectionByName(name string) error {
	for i, c := range s.collections {
		if c.Name == name {
			s.SelectCollection(i)
			return nil
		}
	}
	return mutate.NotFoundError{Kind: "collection", ID: name}
}

// Patch lists the parts of the active collection to replace.
type Patch struct {
	Name      *string
	Tasks     *[]model.Task
	Topics    *[]model.Topic
	Questions *[]model.Question
}

func TasksPatch(xs []model.Task) Patch         { return Patch{Tasks: &xs} }
func TopicsPatch(xs []model.Topic) Patch       { return Patch{Topics: &xs} }
func QuestionsPatch(xs []model.Question) Patch { return Patch{Questions: &xs} }

// UpdateCollection merges patch into the working state and stores the result at the
// selected index of the collection list.
func (s *Session) UpdateCollection(p Patch) error {
	if !s.loaded {
		return ErrNoCollection
	}
	if p.Name != nil {
		s.name = *p.Name
	}
	if p.Tasks != nil {
		s.tasks = *p.Tasks
	}
	if p.Topics != nil {
		s.topics = *p.Topics
	}
	if p.Questions != nil {
		s.questions = *p.Questions
	}
	s.collections[s.selectedID] = s.Collection()
	return nil
}

func (s *Session) checkName(name string, except int) error {
	if strings.TrimSpace(name) == "" {
		return &NameError{Name: name}
	}
	for i, c := range s.collections {
		if i != except && c.Name == name {
			return &NameError{Name: name, Duplicate: true}
		}
	}
	return nil
}

// ImportCollection appends c after checking its name and selects it.
func (s *Session) ImportCollection(c model.Collection) error {
	if err := s.checkName(c.Name, -1); err != nil {
		return err
	}
	if c.Tasks == nil {
		c.Tasks = []model.Task{}
	}
	s.collections = append(s.collections, c.Clone())
	s.log.Info("collection imported", "name", c.Name, "tasks", len(c.Tasks), "topics", len(c.Topics), "questions", len(c.Questions))
	s.SelectCollection(len(s.collections) - 1)
	s.notify.Notify("Collection imported")
	return nil
}

func (s *Session) RenameCollection(name string) error {
	if !s.loaded {
		return ErrNoCollection
	}
	if err := s.checkName(name, s.selectedID); err != nil {
		return err
	}
	if err := s.UpdateCollection(Patch{Name: &name}); err != nil {
		return err
	}
	s.notify.Notify("Collection renamed")
	return nil
}

// DuplicateCollection appends a copy of the active collection. The copy keeps the same name.
func (s *Session) DuplicateCollection() error {
	if !s.loaded {
		return ErrNoCollection
	}
	s.collections = append(s.collections, s.Collection())
	s.notify.Notify("Collection duplicated")
	return nil
}

// DeleteCollection removes the active collection and selects the first remaining one.
func (s *Session) DeleteCollection() error {
	if !s.loaded {
		return ErrNoCollection
	}
	if len(s.collections) <= 1 {
		s.clear()
	} else {
		s.collections = slices.Delete(s.collections, s.selectedID, s.selectedID+1)
		s.loaded = false
		s.SelectCollection(0)
	}
	s.log.Info("collection deleted", "remaining", len(s.collections))
	s.notify.Notify("Collection deleted")
	return nil
}
