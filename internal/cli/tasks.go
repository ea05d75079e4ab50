package cli

import (
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/session"
	"annotate-cli/internal/traverse"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task", "t"},
		Short:   "Navigate and annotate documents of the active collection",
	}

	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksCurrentCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app, "next", "Go to the next document (no skipping)", func(s *session.Session) traverse.Cursor { return s.Next() }))
	cmd.AddCommand(newTasksMoveCmd(app, "back", "Go to the previous document", func(s *session.Session) traverse.Cursor { return s.Back() }))
	cmd.AddCommand(newTasksMoveCmd(app, "first", "Go to the first document", func(s *session.Session) traverse.Cursor { return s.First() }))
	cmd.AddCommand(newTasksMoveCmd(app, "last", "Go to the last document", func(s *session.Session) traverse.Cursor { return s.Last() }))
	cmd.AddCommand(newTasksGotoCmd(app))
	cmd.AddCommand(newTasksSkipCmd(app))
	cmd.AddCommand(newTasksAnswerCmd(app))
	cmd.AddCommand(newTasksSetTopicCmd(app))
	cmd.AddCommand(newTasksFilterCmd(app))

	return cmd
}

func currentEnvelope(sess *session.Session, extra map[string]any) map[string]any {
	env := map[string]any{"data": currentOf(sess)}
	if extra != nil {
		env["meta"] = extra
	}
	hints := []string{}
	if q, ok := sess.CurrentQuestion(); ok && len(q.Answers) > 0 {
		hints = append(hints, "annotate tasks answer <label|value|n>")
	}
	hints = append(hints, "annotate tasks skip")
	env["_hints"] = hints
	return env
}

func newTasksListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents (filtered by the topic filter unless --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				tasks := sess.FilteredTasks()
				if all {
					tasks = sess.Tasks()
				}
				return map[string]any{
					"data": summarizeTasks(tasks, sess.Cursor(), !all || len(sess.SelectedTopics()) == 0),
					"meta": map[string]any{
						"total":    len(sess.Tasks()),
						"filtered": len(sess.FilteredTasks()),
						"filter":   sess.SelectedTopics(),
					},
				}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Ignore the topic filter")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|position>",
		Short: "Show a document with its sentences and stored answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				tasks := sess.Tasks()
				i, ok := findTaskIndex(tasks, args[0])
				if !ok {
					return nil, errNotFound("task", args[0])
				}
				return map[string]any{
					"data": tasks[i],
					"meta": map[string]any{
						"position": i + 1,
						"topics":   taskTopicKeys(tasks[i]),
					},
				}, nil
			})
		},
	}
}

func newTasksCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current document and question",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				return currentEnvelope(sess, nil), nil
			})
		},
	}
}

func newTasksMoveCmd(app *App, use, short string, move func(*session.Session) traverse.Cursor) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				move(sess)
				return currentEnvelope(sess, nil), nil
			})
		},
	}
}

func newTasksGotoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "goto <id|position>",
		Short: "Jump to a document of the filtered list (positions start at 1)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				i, ok := findTaskIndex(sess.FilteredTasks(), args[0])
				if !ok {
					return nil, errNotFound("task", args[0])
				}
				sess.JumpTo(i)
				return currentEnvelope(sess, nil), nil
			})
		},
	}
}

func newTasksSkipCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Leave the current document unanswered and move to the next one needing an answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				o, err := sess.Skip()
				if err != nil {
					return nil, err
				}
				return currentEnvelope(sess, map[string]any{"outcome": outcomeOf(o)}), nil
			})
		},
	}
}

func newTasksAnswerCmd(app *App) *cobra.Command {
	var prop string

	cmd := &cobra.Command{
		Use:   "answer <label|value|n>",
		Short: "Answer the current question (answering the same value again clears it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				qi, err := questionIndex(sess, prop)
				if err != nil {
					return nil, err
				}
				q := sess.Questions()[qi]
				v, err := session.ResolveAnswer(q, args[0])
				if err != nil {
					return nil, err
				}
				answered, _ := sess.CurrentTask()
				o, err := sess.Answer(qi, v)
				if err != nil {
					return nil, err
				}
				stored := model.Value{}
				for _, t := range sess.Tasks() {
					if t.ID == answered.ID {
						stored = t.Annotations.Get(q.Prop)
					}
				}
				return currentEnvelope(sess, map[string]any{
					"answered": map[string]any{
						"task":   answered.ID,
						"prop":   q.Prop,
						"value":  stored,
						"stored": !stored.IsUndefined(),
					},
					"outcome": outcomeOf(o),
				}), nil
			})
		},
	}

	cmd.Flags().StringVar(&prop, "question", "", "Question prop (default: the current question)")
	return cmd
}

func newTasksSetTopicCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-topic <task-id> <sentence> <topic-id>",
		Short: "Set the topic of a sentence (sentence numbers start at 0; topic -1 means none)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			si, err := parseIndex("sentence", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			topic := model.ParseTopicID(args[2])
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				if !topic.IsNone() {
					if _, ok := findTopic(sess, topic.Key()); !ok {
						return nil, errNotFound("topic", topic.Key())
					}
				}
				if err := sess.SetSentenceTopic(args[0], si, topic); err != nil {
					return nil, err
				}
				tasks := sess.Tasks()
				i, _ := findTaskIndex(tasks, args[0])
				return map[string]any{"data": tasks[i]}, nil
			})
		},
	}
}

func newTasksFilterCmd(app *App) *cobra.Command {
	var toggle, all, clear bool

	cmd := &cobra.Command{
		Use:   "filter [topic-id...]",
		Short: "Show or change the topic filter used for navigation",
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := clear || all || len(args) > 0
			return withSession(cmd, app, changed, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				switch {
				case clear:
					sess.SetTopicFilter(nil)
				case all:
					sess.ToggleAllTopicFilter()
				case toggle:
					for _, k := range args {
						sess.ToggleTopicFilter(strings.TrimSpace(k))
					}
				case len(args) > 0:
					sess.SetTopicFilter(args)
				}
				return map[string]any{
					"data": map[string]any{
						"filter":   sess.SelectedTopics(),
						"tasks":    len(sess.FilteredTasks()),
						"position": sess.Cursor().TaskIndex + 1,
					},
					"meta": map[string]any{
						"total": len(sess.Tasks()),
					},
				}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&toggle, "toggle", false, "Toggle the given topics instead of replacing the filter")
	cmd.Flags().BoolVar(&all, "all", false, "Select every topic (or clear when all are selected)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the filter")
	return cmd
}
