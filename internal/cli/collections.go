package cli

import (
	"fmt"
	"strconv"
	"strings"

	"annotate-cli/internal/interchange"
	"annotate-cli/internal/model"
	"annotate-cli/internal/report"
	"annotate-cli/internal/session"

	"github.com/spf13/cobra"
)

func newCollectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "c"},
		Short:   "Import, select and export collections",
	}

	cmd.AddCommand(newCollectionsListCmd(app))
	cmd.AddCommand(newCollectionsImportCmd(app))
	cmd.AddCommand(newCollectionsImportCombinedCmd(app))
	cmd.AddCommand(newCollectionsSelectCmd(app))
	cmd.AddCommand(newCollectionsRenameCmd(app))
	cmd.AddCommand(newCollectionsDuplicateCmd(app))
	cmd.AddCommand(newCollectionsDeleteCmd(app))
	cmd.AddCommand(newCollectionsExportCmd(app))
	cmd.AddCommand(newCollectionsReportCmd(app))

	return cmd
}

func selectedMeta(sess *session.Session) map[string]any {
	meta := map[string]any{
		"count": len(sess.Collections()),
	}
	if sess.HasCollection() {
		meta["selected"] = sess.SelectedID()
		meta["name"] = sess.Name()
	}
	return meta
}

func newCollectionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				return map[string]any{
					"data": summarizeCollections(sess),
					"meta": selectedMeta(sess),
				}, nil
			})
		},
	}
}

func importedEnvelope(sess *session.Session) map[string]any {
	return map[string]any{
		"data": summarizeCollections(sess)[sess.SelectedID()],
		"meta": selectedMeta(sess),
		"_hints": []string{
			"annotate tasks current",
			"annotate questions list",
		},
	}
}

func newCollectionsImportCmd(app *App) *cobra.Command {
	var name, tasksPath, topicsPath, questionsPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a collection from separate tasks/topics/questions files (JSON or YAML)",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := interchange.ReadFile(tasksPath, interchange.KindTasks)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := model.Collection{Name: name, Tasks: tasks.Tasks}
			if strings.TrimSpace(topicsPath) != "" {
				p, err := interchange.ReadFile(topicsPath, interchange.KindTopics)
				if err != nil {
					return writeErr(cmd, err)
				}
				c.Topics = p.Topics
			}
			if strings.TrimSpace(questionsPath) != "" {
				p, err := interchange.ReadFile(questionsPath, interchange.KindQuestions)
				if err != nil {
					return writeErr(cmd, err)
				}
				c.Questions = p.Questions
			}

			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.ImportCollection(c); err != nil {
					return nil, err
				}
				return importedEnvelope(sess), nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Collection name (unique)")
	cmd.Flags().StringVar(&tasksPath, "tasks", "", "Tasks (documents) file")
	cmd.Flags().StringVar(&topicsPath, "topics", "", "Topics file (optional)")
	cmd.Flags().StringVar(&questionsPath, "questions", "", "Questions file (optional)")
	return cmd
}

func newCollectionsImportCombinedCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import-combined <file>",
		Short: "Import a collection from one {tasks, topics, questions} file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			p, err := interchange.ReadFile(path, interchange.KindCombined)
			if err != nil {
				return writeErr(cmd, err)
			}
			c := model.Collection{Name: name, Tasks: p.Tasks, Topics: p.Topics, Questions: p.Questions}
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.ImportCollection(c); err != nil {
					return nil, err
				}
				return importedEnvelope(sess), nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Collection name (unique)")
	return cmd
}

func newCollectionsSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <name|index>",
		Short: "Select the active collection (an out-of-range index selects the first one)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.SelectCollectionByName(args[0]); err != nil {
					i, perr := strconv.Atoi(strings.TrimSpace(args[0]))
					if perr != nil {
						return nil, err
					}
					sess.SelectCollection(i)
				}
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				return map[string]any{
					"data": summarizeCollections(sess)[sess.SelectedID()],
					"meta": selectedMeta(sess),
				}, nil
			})
		},
	}
}

func newCollectionsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the active collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.RenameCollection(args[0]); err != nil {
					return nil, err
				}
				return map[string]any{
					"data": summarizeCollections(sess)[sess.SelectedID()],
				}, nil
			})
		},
	}
}

func newCollectionsDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate",
		Short: "Append a copy of the active collection (the copy keeps the name)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := sess.DuplicateCollection(); err != nil {
					return nil, err
				}
				all := summarizeCollections(sess)
				return map[string]any{
					"data": all[len(all)-1],
					"meta": selectedMeta(sess),
					"_hints": []string{
						"annotate collections select " + strconv.Itoa(len(all)-1),
						"annotate collections rename <name>",
					},
				}, nil
			})
		},
	}
}

func newCollectionsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the active collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				name := sess.Name()
				if err := sess.DeleteCollection(); err != nil {
					return nil, err
				}
				return map[string]any{
					"data": map[string]any{
						"deleted":     name,
						"collections": summarizeCollections(sess),
					},
					"meta": selectedMeta(sess),
				}, nil
			})
		},
	}
}

func parseArtifact(s string) (interchange.Artifact, error) {
	switch a := interchange.Artifact(strings.ToLower(strings.TrimSpace(s))); a {
	case interchange.ArtifactTasks, interchange.ArtifactTasksSubset, interchange.ArtifactTopics,
		interchange.ArtifactQuestions, interchange.ArtifactData:
		return a, nil
	}
	return "", usageError{arg: "--artifact", msg: fmt.Sprintf("%q (expected tasks|tasks_subset|topics|questions|data)", s)}
}

func newCollectionsExportCmd(app *App) *cobra.Command {
	var artifact, to string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the active collection as JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseArtifact(artifact)
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				var subset []model.Task
				if a == interchange.ArtifactTasksSubset {
					subset = sess.FilteredTasks()
				}
				path, err := interchange.WriteExport(to, sess.Collection(), a, subset)
				if err != nil {
					return nil, err
				}
				app.logger().Info("collection exported", "name", sess.Name(), "artifact", string(a), "path", path)
				return map[string]any{
					"data": map[string]any{
						"path":     path,
						"artifact": a,
					},
				}, nil
			})
		},
	}

	cmd.Flags().StringVar(&artifact, "artifact", string(interchange.ArtifactData), "What to export (tasks|tasks_subset|topics|questions|data)")
	cmd.Flags().StringVar(&to, "to", ".", "Output directory")
	return cmd
}

func newCollectionsReportCmd(app *App) *cobra.Command {
	var to string
	var render, overwrite, includeTasks bool
	var width int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Markdown report of the active collection (topics and answer progress)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, app, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			sess := ws.sess
			if err := requireCollection(sess); err != nil {
				return writeErr(cmd, err)
			}
			opt := report.Options{SelectedTopics: sess.SelectedTopics(), IncludeTasks: includeTasks}

			if to != "" {
				res, err := report.WriteCollection(sess.Collection(), to, report.WriteOptions{Options: opt, Overwrite: overwrite})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			md := report.RenderCollectionMarkdown(sess.Collection(), opt)
			if !render {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"markdown": md}})
			}
			return renderMarkdown(cmd, md, width)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Write {name}_report.md into this directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing report file")
	cmd.Flags().BoolVar(&render, "render", false, "Render for the terminal instead of emitting an envelope")
	cmd.Flags().BoolVar(&includeTasks, "include-tasks", false, "Add a per-document answers table")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width for --render (default: terminal width)")
	return cmd
}
