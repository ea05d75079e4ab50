package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"annotate-cli/internal/format"
	"annotate-cli/internal/session"
	"annotate-cli/internal/store"
	"annotate-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string
	LogLevel   string

	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "annotate",
		Short:        "Annotate documents with structured questions (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  annotate

  # Import a collection and start answering
  annotate collections import --name news --tasks tasks.json --topics topics.json --questions questions.json
  annotate tasks current
  annotate tasks answer yes

  # Export the annotated data
  annotate collections export --artifact data --to ./out
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		lvl, err := parseLogLevel(app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("ANNOTATE_DIR", ""), "Path to store dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("ANNOTATE_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ANNOTATE_FORMAT", "json"), "Output format ("+strings.Join(format.Formats, "|")+")")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("ANNOTATE_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newCollectionsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newTopicsCmd(app))
	cmd.AddCommand(newQuestionsCmd(app))
	cmd.AddCommand(newBulkCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func parseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q (expected debug|info|warn|error)", s)
	}
	return lvl, nil
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return slog.Default()
	}
	return app.log
}

func runTUI(cmd *cobra.Command, app *App) error {
	notices := &session.Recorder{}
	ws, err := openWorkspace(cmd, app, notices)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer ws.Close()

	cfg, err := store.LoadConfig()
	if err != nil {
		app.logger().Warn("config unreadable; using defaults", "err", err)
		cfg = &store.GlobalConfig{}
	}
	return tui.Run(commandContext(cmd), tui.Options{
		Session:   ws.sess,
		Notices:   notices,
		Store:     ws.store,
		Workspace: app.Workspace,
		Config:    cfg,
		Logger:    app.logger(),
		Save:      ws.sess.Save,
	})
}

// resolveDir picks the store dir:
// 1) --dir
// 2) --workspace
// 3) ~/.annotate/config.json currentWorkspace
// 4) store.DefaultWorkspace
func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	if app.Workspace != "" {
		d, err := store.WorkspaceDir(app.Workspace)
		if err != nil {
			return "", err
		}
		app.Dir = d
		return d, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		app.logger().Warn("config unreadable, using default workspace", "err", err)
	}
	app.Workspace = cfg.Workspace()
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

// workspace is one opened store: the SQLite KV, the loaded session and the nav state.
type workspace struct {
	store store.Store
	kv    *store.SQLiteKV
	sess  *session.Session
}

// openWorkspace loads the session from the resolved store dir and restores the saved
// cursor. Notices go to n, or to stderr when n is nil.
func openWorkspace(cmd *cobra.Command, app *App, n session.Notifier) (*workspace, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, err
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	ctx := commandContext(cmd)
	kv, err := s.OpenKV(ctx)
	if err != nil {
		return nil, err
	}

	log := app.logger()
	if n == nil {
		n = stderrNotifier(cmd, log)
	}
	sess := session.New(kv, session.WithLogger(log), session.WithNotifier(n))
	if err := sess.Load(ctx); err != nil {
		_ = kv.Close()
		return nil, err
	}
	if st, err := s.LoadNavState(); err == nil && st != nil {
		if sess.RestoreNav(*st) {
			log.Debug("nav state restored", "collection", st.Collection, "task", st.TaskIndex, "question", st.QuestionIndex)
		}
	}
	return &workspace{store: s, kv: kv, sess: sess}, nil
}

// Commit persists the collection list and the navigation state.
func (w *workspace) Commit(ctx context.Context) error {
	if err := w.sess.Save(ctx); err != nil {
		return err
	}
	st := w.sess.NavState()
	// The TUI owns the view; keep it across CLI edits.
	if prev, err := w.store.LoadNavState(); err == nil {
		st.View = prev.View
	}
	return w.store.SaveNavState(&st)
}

func (w *workspace) Close() error {
	if w == nil || w.kv == nil {
		return nil
	}
	return w.kv.Close()
}

func stderrNotifier(cmd *cobra.Command, log *slog.Logger) session.Notifier {
	return session.NotifierFunc(func(msg string) {
		log.Info("notice", "message", msg)
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// withSession opens the workspace, runs fn and writes its envelope. With commit set the
// session and nav state are saved before anything is written.
func withSession(cmd *cobra.Command, app *App, commit bool, fn func(sess *session.Session) (map[string]any, error)) error {
	ws, err := openWorkspace(cmd, app, nil)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer ws.Close()

	out, err := fn(ws.sess)
	if err != nil {
		return writeErr(cmd, err)
	}
	if commit {
		if err := ws.Commit(commandContext(cmd)); err != nil {
			return writeErr(cmd, err)
		}
	}
	return writeOut(cmd, app, out)
}

func requireCollection(sess *session.Session) error {
	if !sess.HasCollection() {
		return session.ErrNoCollection
	}
	return nil
}
