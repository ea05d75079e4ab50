package cli

import (
	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/session"

	"github.com/spf13/cobra"
)

func newBulkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Stage answers and apply them to every document on the filtered topics",
	}

	cmd.AddCommand(newBulkStageCmd(app))
	cmd.AddCommand(newBulkShowCmd(app))
	cmd.AddCommand(newBulkApplyCmd(app))
	cmd.AddCommand(newBulkClearCmd(app))

	return cmd
}

func bulkEnvelope(sess *session.Session) map[string]any {
	draft := model.Annotations(sess.BulkDraft())
	if draft == nil {
		draft = model.Annotations{}
	}
	targets := sess.BulkTargets()
	return map[string]any{
		"data": map[string]any{
			"draft":   draft,
			"targets": mutate.TaskIDs(targets),
		},
		"meta": map[string]any{
			"filter":  sess.SelectedTopics(),
			"targets": len(targets),
		},
		"_hints": []string{
			"annotate tasks filter <topic-id...>",
			"annotate bulk apply",
		},
	}
}

func newBulkStageCmd(app *App) *cobra.Command {
	var prop string

	cmd := &cobra.Command{
		Use:   "stage <label|value|n>",
		Short: "Toggle an answer in the bulk draft",
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
				v, err := session.ResolveAnswer(sess.Questions()[qi], args[0])
				if err != nil {
					return nil, err
				}
				if err := sess.StageBulk(qi, v); err != nil {
					return nil, err
				}
				return bulkEnvelope(sess), nil
			})
		},
	}

	cmd.Flags().StringVar(&prop, "question", "", "Question prop (default: the current question)")
	return cmd
}

func newBulkShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the bulk draft and the documents it would apply to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				return bulkEnvelope(sess), nil
			})
		},
	}
}

func newBulkApplyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Write the draft to every target (an empty draft removes their annotations)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				targets := mutate.TaskIDs(sess.BulkTargets())
				n, err := sess.ApplyBulk()
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"data": map[string]any{
						"applied": n,
						"targets": targets,
					},
				}, nil
			})
		},
	}
}

func newBulkClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the bulk draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				sess.ClearBulk()
				return bulkEnvelope(sess), nil
			})
		},
	}
}
