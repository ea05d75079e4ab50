package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/relevancy"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) viewAnnotate() string {
	tasks := m.sess.FilteredTasks()
	if len(tasks) == 0 {
		if len(m.sess.SelectedTopics()) > 0 {
			return styleMuted().Render("No documents match the topic filter (f: change topics).")
		}
		return styleMuted().Render("This collection has no documents.")
	}
	task, ok := m.sess.CurrentTask()
	if !ok {
		return styleMuted().Render("No document selected.")
	}
	cur := m.sess.Cursor()
	w := m.width
	if w < 20 {
		w = 20
	}
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), w))

	status := fmt.Sprintf("Document %d/%d", cur.TaskIndex+1, len(tasks))
	if sel := m.sess.SelectedTopics(); len(sel) > 0 {
		status += "  filter: " + strings.Join(sel, ", ")
	}
	if cur.Finished {
		status += "  " + glyphBullet() + " finished"
	}

	title := styleHeader().Render(displayTitle(task))
	lines := []string{
		truncate(title, w),
		styleMuted().Render(status),
		rule,
		lipgloss.NewStyle().Width(w).Render(renderSentences(task, m.sess.Topics())),
	}
	if legend := topicLegend(task, m.sess.Topics()); legend != "" {
		lines = append(lines, "", normalizePane(legend, w, 0))
	}
	lines = append(lines, rule, m.viewQuestion(task))
	if draft := m.bulkSummary(); m.bulkMode || len(m.sess.BulkDraft()) > 0 {
		lines = append(lines, "", styleMuted().Render(draft))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewQuestion(task model.Task) string {
	q, ok := m.sess.CurrentQuestion()
	if !ok {
		return styleMuted().Render("This collection has no questions.")
	}
	cur := m.sess.Cursor()
	head := fmt.Sprintf("Question %d/%d: %s", cur.QuestionIndex+1, len(m.sess.Questions()), questionText(q))
	lines := []string{styleHeader().Render(head)}

	if !relevancy.Relevant(q, task) {
		lines = append(lines, styleMuted().Render("Not relevant for this document (s: skip)."))
	}

	stored := task.Annotations.Get(q.Prop)
	staged := m.sess.BulkDraft()[q.Prop]
	for i, a := range q.Answers {
		label := a.Label
		if strings.TrimSpace(label) == "" {
			label = a.Value.String()
		}
		key := " "
		if i < 9 {
			key = strconv.Itoa(i + 1)
		}
		chip := fmt.Sprintf(" %s %s ", key, label)
		switch {
		case !stored.IsUndefined() && stored.Equal(a.Value):
			chip = lipgloss.NewStyle().Background(colorAccent).Foreground(colorAccentFg).Bold(true).Render(chip)
		case a.Color != "":
			chip = topicStyle(a.Color).Render(chip)
		}
		if m.bulkMode && !staged.IsUndefined() && staged.Equal(a.Value) {
			chip += " " + glyphArrow() + " bulk"
		}
		lines = append(lines, chip)
	}

	for _, p := range m.sess.Progress() {
		if p.Prop != q.Prop {
			continue
		}
		pct := 0
		if p.Relevant > 0 {
			pct = p.Answered * 100 / p.Relevant
		}
		lines = append(lines, "", styleMuted().Render(fmt.Sprintf("Answered %d of %d relevant documents (%d%%)", p.Answered, p.Relevant, pct)))
	}
	return strings.Join(lines, "\n")
}

// bulkSummary describes the staged draft and the documents it would be applied to.
func (m appModel) bulkSummary() string {
	draft := m.sess.BulkDraft()
	targets := len(m.sess.BulkTargets())
	if len(draft) == 0 {
		return fmt.Sprintf("Bulk draft is empty; applying removes the answers of %d documents on the selected topics.", targets)
	}
	props := make([]string, 0, len(draft))
	for p := range draft {
		props = append(props, p)
	}
	sort.Strings(props)
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, p+"="+draft[p].String())
	}
	return fmt.Sprintf("Bulk draft %s, %d documents on the selected topics.", strings.Join(parts, " "), targets)
}

func renderSentences(task model.Task, topics []model.Topic) string {
	colors := make(map[string]string, len(topics))
	for _, tp := range topics {
		colors[tp.ID.Key()] = tp.Color
	}
	parts := make([]string, 0, len(task.Sentences))
	for _, s := range task.Sentences {
		if s.Topic.IsNone() {
			parts = append(parts, s.Text)
			continue
		}
		parts = append(parts, topicStyle(colors[s.Topic.Key()]).Render(s.Text))
	}
	return strings.Join(parts, " ")
}

// topicLegend lists the topics the document's sentences use, in topic list order.
func topicLegend(task model.Task, topics []model.Topic) string {
	var out []string
	for _, tp := range topics {
		if task.HasTopic(tp.ID) {
			out = append(out, topicStyle(tp.Color).Render(" "+glyphSwatch()+" ")+" "+tp.Name)
		}
	}
	return strings.Join(out, "   ")
}

func displayTitle(t model.Task) string {
	if strings.TrimSpace(t.Title) != "" {
		return t.Title
	}
	return "Document " + t.ID
}

func questionText(q model.Question) string {
	if strings.TrimSpace(q.Text) != "" {
		return q.Text
	}
	return q.Prop
}

// findTask resolves a document by id first, then by 1-based position.
func findTask(tasks []model.Task, sel string) (int, bool) {
	if sel == "" {
		return 0, false
	}
	for i, t := range tasks {
		if t.ID == sel {
			return i, true
		}
	}
	if n, err := strconv.Atoi(sel); err == nil && n >= 1 && n <= len(tasks) {
		return n - 1, true
	}
	return 0, false
}
