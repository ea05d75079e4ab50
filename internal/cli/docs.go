package cli

import (
	"fmt"

	"annotate-cli/internal/docs"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw, render bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `annotate docs` to list topics)", topic))
			}
			switch {
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			case render:
				return renderMarkdown(cmd, body, width)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the markdown for the terminal")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width for --render (default: terminal width)")
	return cmd
}
