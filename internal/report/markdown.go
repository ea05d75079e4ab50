// Package report renders a collection overview as markdown: counts, topics and
// per-question answer progress.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/mutate"
	"annotate-cli/internal/traverse"
)

type Options struct {
	// SelectedTopics restricts the task set the same way the navigation filter does.
	SelectedTopics []string
	// IncludeTasks adds a per-document table of stored answers.
	IncludeTasks bool
}

func RenderCollectionMarkdown(c model.Collection, opt Options) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	tasks := traverse.FilterTasks(c.Tasks, opt.SelectedTopics)

	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "(unnamed)"
	}
	writeLn("# " + name)
	writeLn("")

	annotated := 0
	sentences := 0
	for _, t := range tasks {
		if len(t.Annotations) > 0 {
			annotated++
		}
		sentences += len(t.Sentences)
	}

	writeLn("## Overview")
	writeLn("")
	if len(opt.SelectedTopics) > 0 {
		writeLn("- Filter: " + strings.Join(opt.SelectedTopics, ", "))
	}
	writeLn("- Documents: " + strconv.Itoa(len(tasks)))
	writeLn("- Annotated: " + strconv.Itoa(annotated))
	writeLn("- Sentences: " + strconv.Itoa(sentences))
	writeLn("- Topics: " + strconv.Itoa(len(c.Topics)))
	writeLn("- Questions: " + strconv.Itoa(len(c.Questions)))

	if len(c.Topics) > 0 {
		writeLn("")
		writeLn("## Topics")
		writeLn("")
		writeLn("| ID | Name | Color | Documents | Sentences |")
		writeLn("| --- | --- | --- | ---: | ---: |")
		for _, tp := range c.Topics {
			color := tp.Color
			if color == "" {
				color = "-"
			}
			fmt.Fprintf(&buf, "| %s | %s | %s | %d | %d |\n",
				cell(tp.ID.Key()), cell(tp.Name), cell(color),
				len(mutate.RelatedTasks(tasks, tp.ID)), len(mutate.RelatedSentences(tasks, tp.ID)))
		}
	}

	for _, q := range c.Questions {
		p := mutate.Progress(q, tasks)
		writeLn("")
		writeLn("## " + questionTitle(q))
		writeLn("")
		fmt.Fprintf(&buf, "Answered %d of %d relevant documents.\n", p.Answered, p.Relevant)
		if len(p.Answers) == 0 {
			continue
		}
		writeLn("")
		writeLn("| Answer | Value | Count | Percent |")
		writeLn("| --- | --- | ---: | ---: |")
		for _, a := range p.Answers {
			fmt.Fprintf(&buf, "| %s | %s | %d | %d%% |\n", cell(a.Label), cell(a.Value.String()), a.Count, a.Percent)
		}
	}

	if opt.IncludeTasks && len(tasks) > 0 {
		writeLn("")
		writeLn("## Documents")
		writeLn("")
		header := "| # | ID | Title |"
		sep := "| ---: | --- | --- |"
		for _, q := range c.Questions {
			header += " " + cell(q.Prop) + " |"
			sep += " --- |"
		}
		writeLn(header)
		writeLn(sep)
		for i, t := range tasks {
			row := fmt.Sprintf("| %d | %s | %s |", i+1, cell(t.ID), cell(t.Title))
			for _, q := range c.Questions {
				v := t.Annotations.Get(q.Prop)
				s := ""
				if !v.IsUndefined() {
					s = answerLabel(q, v)
				}
				row += " " + cell(s) + " |"
			}
			writeLn(row)
		}
	}

	return buf.String()
}

func questionTitle(q model.Question) string {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return q.Prop
	}
	return text + " (" + q.Prop + ")"
}

func answerLabel(q model.Question, v model.Value) string {
	for _, a := range q.Answers {
		if a.Value.Equal(v) {
			return a.Label
		}
	}
	return v.String()
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
