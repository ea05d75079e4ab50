// Package tui is the interactive annotator: pick a collection, then answer questions
// document by document.
package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"annotate-cli/internal/session"
	"annotate-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Session *session.Session
	// Notices receives the session's user-facing notices; they are shown in the status line.
	Notices   *session.Recorder
	Store     store.Store
	Workspace string
	Config    *store.GlobalConfig
	Logger    *slog.Logger
	// Save persists the collection list after each change.
	Save func(context.Context) error
}

func Run(ctx context.Context, opts Options) error {
	if opts.Session == nil {
		return errors.New("tui: no session")
	}
	applyColorProfilePreference()
	applyThemePreference(opts.Config)
	applyGlyphPreference(opts.Config)

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
