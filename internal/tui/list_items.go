package tui

import (
	"fmt"
	"io"
	"strings"

	"annotate-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type collectionItem struct {
	index     int
	name      string
	tasks     int
	annotated int
	current   bool
}

func (i collectionItem) FilterValue() string { return i.name }
func (i collectionItem) Title() string {
	name := i.name
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	if i.current {
		return glyphBullet() + " " + name
	}
	return "  " + name
}
func (i collectionItem) Description() string {
	return fmt.Sprintf("%d documents, %d annotated", i.tasks, i.annotated)
}

func collectionItems(cols []model.Collection, selected int, loaded bool) []list.Item {
	items := make([]list.Item, 0, len(cols))
	for i, c := range cols {
		annotated := 0
		for _, t := range c.Tasks {
			if len(t.Annotations) > 0 {
				annotated++
			}
		}
		items = append(items, collectionItem{
			index:     i,
			name:      c.Name,
			tasks:     len(c.Tasks),
			annotated: annotated,
			current:   loaded && i == selected,
		})
	}
	return items
}

type topicItem struct {
	topic    model.Topic
	selected bool
}

func (i topicItem) FilterValue() string { return i.topic.Name }
func (i topicItem) Title() string {
	swatch := topicStyle(i.topic.Color).Render(" " + glyphSwatch() + " ")
	return fmt.Sprintf("%s %s %s", glyphChecked(i.selected), swatch, i.topic.Name)
}

func topicItems(topics []model.Topic, selected []string) []list.Item {
	on := make(map[string]bool, len(selected))
	for _, k := range selected {
		on[k] = true
	}
	items := make([]list.Item, 0, len(topics))
	for _, tp := range topics {
		items = append(items, topicItem{topic: tp, selected: on[tp.ID.Key()]})
	}
	return items
}

func newList(title string, items []list.Item, delegate list.ItemDelegate) list.Model {
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	// Header and footer are rendered by the app model.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	// ESC is "back" here, not quit.
	l.KeyMap.Quit.SetKeys("q")

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

// compactItemDelegate renders one line per item; used for the topic filter picker.
type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	line := fmt.Sprint(item)
	if t, ok := item.(interface{ Title() string }); ok {
		line = t.Title()
	}
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}
	fmt.Fprint(w, style.Render(line))
}
