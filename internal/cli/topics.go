package cli

import (
	"errors"

	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/session"

	"github.com/spf13/cobra"
)

func newTopicsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "topics",
		Aliases: []string{"topic"},
		Short:   "Edit the topics of the active collection",
	}

	cmd.AddCommand(newTopicsListCmd(app))
	cmd.AddCommand(newTopicsUpdateCmd(app))
	cmd.AddCommand(newTopicsDeleteCmd(app))
	cmd.AddCommand(newTopicsSortCmd(app))
	cmd.AddCommand(newTopicsMoveCmd(app))
	cmd.AddCommand(newTopicsAutoFormatCmd(app))
	cmd.AddCommand(newTopicsAutoColorCmd(app))
	cmd.AddCommand(newTopicsRelatedCmd(app))

	return cmd
}

func findTopic(sess *session.Session, key string) (model.Topic, bool) {
	return mutate.FindTopic(sess.Topics(), key)
}

func topicsEnvelope(sess *session.Session) map[string]any {
	return map[string]any{
		"data": summarizeTopics(sess.Topics(), sess.Tasks()),
		"meta": map[string]any{
			"filter": sess.SelectedTopics(),
		},
	}
}

func newTopicsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List topics with their document and sentence counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				return topicsEnvelope(sess), nil
			})
		},
	}
}

func newTopicsUpdateCmd(app *App) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "update <topic-id>",
		Short: "Rename or recolor a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch mutate.TopicPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if patch.Name == nil && patch.Color == nil {
				return writeErr(cmd, errors.New("nothing to update (use --name and/or --color)"))
			}
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				tp, err := sess.UpdateTopic(model.ParseTopicID(args[0]), patch)
				if err != nil {
					return nil, err
				}
				return map[string]any{"data": tp}, nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New topic name")
	cmd.Flags().StringVar(&color, "color", "", "New topic color (#rrggbb)")
	return cmd
}

func newTopicsDeleteCmd(app *App) *cobra.Command {
	var removeTopicless, dryRun bool

	cmd := &cobra.Command{
		Use:   "delete [topic-id...]",
		Short: "Delete topics (default: the topics of the navigation filter); their sentences get topic -1",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, !dryRun, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				keys := args
				if len(keys) == 0 {
					keys = sess.SelectedTopics()
				}
				if len(keys) == 0 {
					return nil, errors.New("no topics given and the topic filter is empty")
				}
				for _, k := range keys {
					if _, ok := findTopic(sess, k); !ok {
						return nil, errNotFound("topic", k)
					}
				}
				if dryRun {
					return map[string]any{
						"data": map[string]any{
							"topics":          keys,
							"tasksLeftEmpty":  mutate.TaskIDs(sess.TasksLeftWithoutTopics(keys)),
							"removeTopicless": removeTopicless,
						},
						"meta": map[string]any{"dryRun": true},
					}, nil
				}
				res, err := sess.DeleteTopics(keys, removeTopicless)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"data": map[string]any{
						"topics":       keys,
						"removedTasks": res.RemovedTaskIDs,
						"remaining":    len(res.Topics),
					},
				}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&removeTopicless, "remove-topicless", false, "Also delete documents left without any topic")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the documents that would be left without topics")
	return cmd
}

func newTopicsSortCmd(app *App) *cobra.Command {
	var by string
	var desc bool

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort topics by tasks|count|name|id",
		RunE: func(cmd *cobra.Command, args []string) error {
			sortBy, err := mutate.ParseSortBy(by)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.SortTopics(sortBy, !desc); err != nil {
					return nil, err
				}
				return topicsEnvelope(sess), nil
			})
		},
	}

	cmd.Flags().StringVar(&by, "by", "tasks", "Sort key (tasks|count|name|id)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	return cmd
}

func newTopicsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a topic within the list (0-based positions)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseIndex("from", args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			to, err := parseIndex("to", args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.MoveTopic(from, to); err != nil {
					return nil, err
				}
				return topicsEnvelope(sess), nil
			})
		},
	}
}

func newTopicsAutoFormatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auto-format",
		Short: "Turn names like news_sport_12 into News Sport",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.AutoFormatTopics(); err != nil {
					return nil, err
				}
				return topicsEnvelope(sess), nil
			})
		},
	}
}

func newTopicsAutoColorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auto-color",
		Short: "Give every topic a random color",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.AutoColorTopics(); err != nil {
					return nil, err
				}
				return topicsEnvelope(sess), nil
			})
		},
	}
}

func newTopicsRelatedCmd(app *App) *cobra.Command {
	var sentences bool

	cmd := &cobra.Command{
		Use:   "related <topic-id>",
		Short: "List the documents (or sentences) on a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				tp, ok := findTopic(sess, args[0])
				if !ok {
					return nil, errNotFound("topic", args[0])
				}
				meta := map[string]any{"topic": tp}
				if sentences {
					return map[string]any{"data": mutate.RelatedSentences(sess.Tasks(), tp.ID), "meta": meta}, nil
				}
				tasks := mutate.RelatedTasks(sess.Tasks(), tp.ID)
				return map[string]any{"data": summarizeTasks(tasks, sess.Cursor(), false), "meta": meta}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&sentences, "sentences", false, "List sentences instead of documents")
	return cmd
}
