package cli

import (
	"errors"
	"strings"

	"annotate-cli/internal/interchange"
	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/session"

	"github.com/spf13/cobra"
)

func newQuestionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"question", "q"},
		Short:   "Edit the questions of the active collection",
	}

	cmd.AddCommand(newQuestionsListCmd(app))
	cmd.AddCommand(newQuestionsAddCmd(app))
	cmd.AddCommand(newQuestionsDeleteCmd(app))
	cmd.AddCommand(newQuestionsDeleteAnswersCmd(app))
	cmd.AddCommand(newQuestionsMoveCmd(app))
	cmd.AddCommand(newQuestionsRelevantTopicCmd(app))
	cmd.AddCommand(newQuestionsProgressCmd(app))

	return cmd
}

func questionsEnvelope(sess *session.Session) map[string]any {
	qs := sess.Questions()
	if qs == nil {
		qs = []model.Question{}
	}
	return map[string]any{
		"data": qs,
		"meta": map[string]any{
			"current": sess.Cursor().QuestionIndex,
		},
	}
}

func newQuestionsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				return questionsEnvelope(sess), nil
			})
		},
	}
}

// parseAnswerFlag reads "Label", "Label=value" or "Label=value=#color".
// A bare label uses the label itself as the value.
func parseAnswerFlag(s string) (model.Answer, error) {
	parts := strings.SplitN(s, "=", 3)
	a := model.Answer{Label: strings.TrimSpace(parts[0])}
	if a.Label == "" {
		return model.Answer{}, usageError{arg: "--answer", msg: "empty label in " + `"` + s + `"`}
	}
	a.Value = model.String(a.Label)
	if len(parts) >= 2 {
		a.Value = model.ParseValue(parts[1])
	}
	if len(parts) == 3 {
		a.Color = strings.TrimSpace(parts[2])
	}
	return a, nil
}

// parseRelevancyFlag reads one OR block: "prop=value,prop=value".
func parseRelevancyFlag(s string) ([]model.RelevancyTest, error) {
	var block []model.RelevancyTest
	for _, part := range strings.Split(s, ",") {
		prop, val, ok := strings.Cut(part, "=")
		prop = strings.TrimSpace(prop)
		if !ok || prop == "" {
			return nil, usageError{arg: "--relevancy", msg: `expected prop=value[,prop=value] in "` + s + `"`}
		}
		block = append(block, model.RelevancyTest{Prop: prop, Value: model.ParseValue(val)})
	}
	return block, nil
}

func newQuestionsAddCmd(app *App) *cobra.Command {
	var text, prop, file string
	var answers, relevancy, topics []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question, or replace the one with the same prop",
		Example: strings.TrimSpace(`
  annotate questions add --text "Is it relevant?" --answer Yes=yes --answer No=no
  annotate questions add --text "Why?" --answer Spam --answer Other --relevancy 0=no
  annotate questions add --file questions.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fromFile []model.Question
			if strings.TrimSpace(file) != "" {
				p, err := interchange.ReadFile(file, interchange.KindQuestions)
				if err != nil {
					return writeErr(cmd, err)
				}
				fromFile = p.Questions
			} else if strings.TrimSpace(text) == "" {
				return writeErr(cmd, errors.New("missing --text (or --file)"))
			}

			var parsedAnswers []model.Answer
			for _, s := range answers {
				a, err := parseAnswerFlag(s)
				if err != nil {
					return writeErr(cmd, err)
				}
				parsedAnswers = append(parsedAnswers, a)
			}
			var blocks [][]model.RelevancyTest
			for _, s := range relevancy {
				b, err := parseRelevancyFlag(s)
				if err != nil {
					return writeErr(cmd, err)
				}
				blocks = append(blocks, b)
			}

			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				if fromFile == nil {
					q := mutate.NewQuestion(sess.Questions())
					if strings.TrimSpace(prop) != "" {
						q.Prop = strings.TrimSpace(prop)
					}
					q.Text = text
					if parsedAnswers != nil {
						q.Answers = parsedAnswers
					}
					q.Relevancy = blocks
					if len(topics) > 0 {
						q.RelevantTopics = topics
					}
					fromFile = []model.Question{q}
				}
				added := 0
				for _, q := range fromFile {
					ok, err := sess.SaveQuestion(q)
					if err != nil {
						return nil, err
					}
					if ok {
						added++
					}
				}
				env := questionsEnvelope(sess)
				env["meta"].(map[string]any)["added"] = added
				env["meta"].(map[string]any)["replaced"] = len(fromFile) - added
				return env, nil
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Question text")
	cmd.Flags().StringVar(&prop, "prop", "", "Annotation key (default: next free number)")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "Answer as Label, Label=value or Label=value=#color (repeatable)")
	cmd.Flags().StringArrayVar(&relevancy, "relevancy", nil, "OR block prop=value[,prop=value]; blocks are ANDed (repeatable)")
	cmd.Flags().StringArrayVar(&topics, "relevant-topic", nil, "Topic id the question applies to (repeatable)")
	cmd.Flags().StringVar(&file, "file", "", "Questions file to upsert (JSON or YAML array)")
	return cmd
}

func newQuestionsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <prop>",
		Short: "Delete a question (stored answers are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				i, ok := mutate.FindQuestion(sess.Questions(), args[0])
				if !ok {
					return nil, errNotFound("question", args[0])
				}
				if err := sess.DeleteQuestion(i); err != nil {
					return nil, err
				}
				return questionsEnvelope(sess), nil
			})
		},
	}
}

func newQuestionsDeleteAnswersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-answers <prop>",
		Short: "Remove the stored answers of a question from every document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				i, ok := mutate.FindQuestion(sess.Questions(), args[0])
				if !ok {
					return nil, errNotFound("question", args[0])
				}
				n, err := sess.DeleteAnswers(i)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"data": map[string]any{
						"prop":    args[0],
						"cleared": n,
					},
				}, nil
			})
		},
	}
}

func newQuestionsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a question within the list (0-based positions)",
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
				if err := sess.MoveQuestion(from, to); err != nil {
					return nil, err
				}
				return questionsEnvelope(sess), nil
			})
		},
	}
}

func newQuestionsRelevantTopicCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "relevant-topic <prop> [topic-id]",
		Short: "Toggle a topic in a question's relevant topics (--all toggles every topic)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) != 2 {
				return writeErr(cmd, errors.New("missing topic id (or --all)"))
			}
			return withSession(cmd, app, true, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				qi, ok := mutate.FindQuestion(sess.Questions(), args[0])
				if !ok {
					return nil, errNotFound("question", args[0])
				}
				if all {
					if err := sess.ToggleAllRelevantTopics(qi); err != nil {
						return nil, err
					}
				} else {
					tp, ok := findTopic(sess, args[1])
					if !ok {
						return nil, errNotFound("topic", args[1])
					}
					if err := sess.ToggleRelevantTopic(qi, tp.ID.Key()); err != nil {
						return nil, err
					}
				}
				return map[string]any{"data": sess.Questions()[qi]}, nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Toggle every topic")
	return cmd
}

func newQuestionsProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Answer statistics per question over the filtered documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, false, func(sess *session.Session) (map[string]any, error) {
				if err := requireCollection(sess); err != nil {
					return nil, err
				}
				return map[string]any{
					"data": sess.Progress(),
					"meta": map[string]any{
						"documents": len(sess.FilteredTasks()),
						"filter":    sess.SelectedTopics(),
					},
				}, nil
			})
		},
	}
}
