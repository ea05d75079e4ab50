package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"annotate-cli/internal/report"
	"annotate-cli/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewCollections view = iota
	viewAnnotate
	viewTopics
	viewReport
)

func (v view) String() string {
	switch v {
	case viewCollections:
		return "collections"
	case viewTopics:
		return "topics"
	case viewReport:
		return "report"
	default:
		return "annotate"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalJump
	modalConfirmBulk
)

const minibufferAutoClearAfter = 4 * time.Second

type minibufferTickMsg struct{}

func tickMinibuffer() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return minibufferTickMsg{} })
}

type appModel struct {
	ctx  context.Context
	opts Options
	sess *session.Session
	log  *slog.Logger

	width  int
	height int

	view view

	collectionsList list.Model
	topicsList      list.Model
	report          viewport.Model
	jumpInput       textinput.Model

	modal        modalKind
	confirmFocus confirmFocus

	// In bulk mode answer keys stage into the bulk draft instead of the current document.
	bulkMode bool

	minibufferText  string
	minibufferErr   bool
	minibufferSetAt time.Time
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	m := appModel{
		ctx:    ctx,
		opts:   opts,
		sess:   opts.Session,
		log:    log,
		width:  80,
		height: 24,
		view:   viewCollections,
	}

	m.collectionsList = newList("Collections", nil, list.NewDefaultDelegate())
	m.topicsList = newList("Topics", nil, newCompactItemDelegate())
	m.report = viewport.New(80, 18)

	m.jumpInput = textinput.New()
	m.jumpInput.Prompt = "document: "
	m.jumpInput.Placeholder = "position or id"
	m.jumpInput.CharLimit = 64

	if m.sess.HasCollection() {
		m.view = viewAnnotate
		if st, err := opts.Store.LoadNavState(); err != nil {
			m.log.Warn("nav state unreadable", "err", err)
		} else if st.View == viewCollections.String() {
			m.view = viewCollections
		}
	}
	m.refreshCollections()
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd { return tickMinibuffer() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.view == viewReport {
			m.refreshReport()
		}
		return m, nil

	case minibufferTickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) >= minibufferAutoClearAfter {
			m.minibufferText = ""
			m.minibufferErr = false
		}
		return m, tickMinibuffer()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.commit()
			return m, tea.Quit
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewCollections:
			return m.updateCollections(msg)
		case viewTopics:
			return m.updateTopics(msg)
		case viewReport:
			return m.updateReport(msg)
		default:
			return m.updateAnnotate(msg)
		}
	}
	return m, nil
}

func (m appModel) updateCollections(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.collectionsList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.collectionsList, cmd = m.collectionsList.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q":
		m.commit()
		return m, tea.Quit
	case "esc", "backspace":
		if m.sess.HasCollection() {
			m.view = viewAnnotate
			m.commit()
		}
		return m, nil
	case "enter":
		it, ok := m.collectionsList.SelectedItem().(collectionItem)
		if !ok {
			return m, nil
		}
		m.sess.SelectCollection(it.index)
		m.bulkMode = false
		m.view = viewAnnotate
		m.log.Debug("collection opened", "index", it.index, "name", it.name)
		m.commit()
		m.refreshCollections()
		return m, nil
	}
	var cmd tea.Cmd
	m.collectionsList, cmd = m.collectionsList.Update(msg)
	return m, cmd
}

func (m appModel) updateAnnotate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.sess.HasCollection() {
		m.view = viewCollections
		return m, nil
	}
	key := msg.String()
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.answer(int(key[0] - '1'))
		return m, nil
	}

	switch key {
	case "q":
		m.commit()
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewCollections
		m.refreshCollections()
		m.commit()
	case "n", "right", "l":
		m.sess.Next()
		m.commit()
	case "p", "left", "h":
		m.sess.Back()
		m.commit()
	case "g", "home":
		m.sess.First()
		m.commit()
	case "G", "end":
		m.sess.Last()
		m.commit()
	case "tab", "shift+tab":
		n := len(m.sess.Questions())
		if n == 0 {
			return m, nil
		}
		step := 1
		if key == "shift+tab" {
			step = n - 1
		}
		m.sess.SetQuestion((m.sess.Cursor().QuestionIndex + step) % n)
		m.commit()
	case "s":
		if _, err := m.sess.Skip(); err != nil {
			m.showError(err)
			return m, nil
		}
		m.commit()
	case "b":
		m.bulkMode = !m.bulkMode
		if m.bulkMode {
			m.showMinibuffer("Bulk mode: answer keys stage the draft (A: apply, x: clear)")
		} else {
			m.showMinibuffer("Bulk mode off")
		}
	case "x":
		m.sess.ClearBulk()
		m.showMinibuffer("Bulk draft cleared")
		m.commit()
	case "A":
		if len(m.sess.BulkTargets()) == 0 {
			m.showError(fmt.Errorf("no documents on the selected topics (f: pick topics)"))
			return m, nil
		}
		m.modal = modalConfirmBulk
		m.confirmFocus = confirmFocusCancel
	case "f":
		m.view = viewTopics
		m.refreshTopics()
	case "r":
		m.view = viewReport
		m.refreshReport()
		m.report.GotoTop()
	case "j", ":":
		m.modal = modalJump
		m.jumpInput.SetValue("")
		return m, m.jumpInput.Focus()
	case "ctrl+r":
		m.reload()
	}
	return m, nil
}

func (m appModel) updateTopics(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.topicsList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.topicsList, cmd = m.topicsList.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "q":
		m.commit()
		return m, tea.Quit
	case "esc", "backspace", "f":
		m.view = viewAnnotate
		m.commit()
		return m, nil
	case "enter", " ", "space":
		it, ok := m.topicsList.SelectedItem().(topicItem)
		if !ok {
			return m, nil
		}
		m.sess.ToggleTopicFilter(it.topic.ID.Key())
		m.refreshTopics()
		m.commit()
		return m, nil
	case "a":
		m.sess.ToggleAllTopicFilter()
		m.refreshTopics()
		m.commit()
		return m, nil
	case "c":
		m.sess.SetTopicFilter(nil)
		m.refreshTopics()
		m.commit()
		return m, nil
	}
	var cmd tea.Cmd
	m.topicsList, cmd = m.topicsList.Update(msg)
	return m, cmd
}

func (m appModel) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.commit()
		return m, tea.Quit
	case "esc", "backspace", "r":
		m.view = viewAnnotate
		return m, nil
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalJump:
		switch msg.String() {
		case "esc":
			m.closeModal()
			return m, nil
		case "enter":
			sel := strings.TrimSpace(m.jumpInput.Value())
			m.closeModal()
			if i, ok := findTask(m.sess.FilteredTasks(), sel); ok {
				m.sess.JumpTo(i)
				m.commit()
			} else {
				m.showError(fmt.Errorf("no document %q in the current list", sel))
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.jumpInput, cmd = m.jumpInput.Update(msg)
		return m, cmd

	case modalConfirmBulk:
		switch msg.String() {
		case "esc", "n":
			m.closeModal()
		case "tab", "shift+tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
		case "y":
			m.closeModal()
			m.applyBulk()
		case "enter":
			confirmed := m.confirmFocus == confirmFocusConfirm
			m.closeModal()
			if confirmed {
				m.applyBulk()
			}
		}
	}
	return m, nil
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.jumpInput.Blur()
}

// answer toggles answer i of the current question, or stages it in bulk mode.
func (m *appModel) answer(i int) {
	q, ok := m.sess.CurrentQuestion()
	if !ok {
		m.showError(fmt.Errorf("this collection has no questions"))
		return
	}
	if i < 0 || i >= len(q.Answers) {
		return
	}
	qi := m.sess.Cursor().QuestionIndex
	v := q.Answers[i].Value
	if m.bulkMode {
		if err := m.sess.StageBulk(qi, v); err != nil {
			m.showError(err)
			return
		}
		m.commit()
		return
	}
	if _, err := m.sess.Answer(qi, v); err != nil {
		m.showError(err)
		return
	}
	m.commit()
}

func (m *appModel) applyBulk() {
	n, err := m.sess.ApplyBulk()
	if err != nil {
		m.showError(err)
		return
	}
	m.bulkMode = false
	m.log.Info("bulk applied", "documents", n)
	m.commit()
}

// reload re-reads the store so edits made from the CLI in another terminal show up.
func (m *appModel) reload() {
	st := m.sess.NavState()
	if err := m.sess.Load(m.ctx); err != nil {
		m.showError(err)
		return
	}
	m.sess.RestoreNav(st)
	m.refreshCollections()
	m.showMinibuffer("Reloaded")
}

// commit persists the collection list and the navigation state, then surfaces notices.
func (m *appModel) commit() {
	m.flushNotices()
	if m.opts.Save != nil {
		if err := m.opts.Save(m.ctx); err != nil {
			m.log.Error("save failed", "err", err)
			m.showError(err)
			return
		}
	}
	st := m.sess.NavState()
	st.View = m.persistedView().String()
	if err := m.opts.Store.SaveNavState(&st); err != nil {
		m.log.Warn("nav state not saved", "err", err)
	}
}

// persistedView is the view a relaunch should open; pickers and the report are transient.
func (m appModel) persistedView() view {
	if m.view == viewCollections {
		return viewCollections
	}
	return viewAnnotate
}

func (m *appModel) flushNotices() {
	if m.opts.Notices == nil {
		return
	}
	msgs := m.opts.Notices.Drain()
	for _, msg := range msgs {
		m.log.Debug("notice", "message", msg)
	}
	if len(msgs) > 0 {
		m.showMinibuffer(msgs[len(msgs)-1])
	}
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferErr = false
	m.minibufferSetAt = time.Now()
}

func (m *appModel) showError(err error) {
	m.log.Debug("tui error", "err", err)
	m.minibufferText = err.Error()
	m.minibufferErr = true
	m.minibufferSetAt = time.Now()
}

func (m *appModel) refreshCollections() {
	items := collectionItems(m.sess.Collections(), m.sess.SelectedID(), m.sess.HasCollection())
	m.collectionsList.SetItems(items)
	if m.sess.HasCollection() && m.sess.SelectedID() < len(items) {
		m.collectionsList.Select(m.sess.SelectedID())
	}
}

func (m *appModel) refreshTopics() {
	idx := m.topicsList.Index()
	m.topicsList.SetItems(topicItems(m.sess.Topics(), m.sess.SelectedTopics()))
	if idx < len(m.sess.Topics()) {
		m.topicsList.Select(idx)
	}
}

func (m *appModel) refreshReport() {
	md := report.RenderCollectionMarkdown(m.sess.Collection(), report.Options{SelectedTopics: m.sess.SelectedTopics()})
	m.report.SetContent(report.Render(md, report.Style(reportTheme(m.opts.Config)), m.width-2))
}

func (m *appModel) resize() {
	// Leave room for header, status line and footer.
	h := m.height - 6
	if h < 4 {
		h = 4
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	m.collectionsList.SetSize(w, h)
	m.topicsList.SetSize(w, h)
	m.report.Width = w
	m.report.Height = h
	m.jumpInput.Width = modalBodyWidth(m.width) - len(m.jumpInput.Prompt) - 2
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewCollections:
		if len(m.collectionsList.Items()) == 0 {
			body = styleMuted().Render("No collections yet. Import one with: annotate collections import --tasks <file>")
		} else {
			body = m.collectionsList.View()
		}
	case viewTopics:
		if len(m.sess.Topics()) == 0 {
			body = styleMuted().Render("This collection has no topics.")
		} else {
			body = m.topicsList.View()
		}
	case viewReport:
		body = m.report.View()
	default:
		body = m.viewAnnotate()
	}

	switch m.modal {
	case modalJump:
		bodyW := modalBodyWidth(m.width)
		content := renderInputLine(bodyW, m.jumpInput.View()) + "\n\n" +
			styleMuted().Width(bodyW).Render("enter: go   esc: cancel")
		body = renderModalBox(m.width, "Go to document", content)
	case modalConfirmBulk:
		body = renderConfirmModal(m.width, "Apply bulk answers",
			m.bulkSummary(), "Apply", "Cancel", m.confirmFocus)
	}

	parts := []string{m.viewHeader(), body}
	if s := m.viewMinibuffer(); s != "" {
		parts = append(parts, s)
	}
	parts = append(parts, lipgloss.NewStyle().Faint(true).Render(m.footerHelp()))
	return strings.Join(parts, "\n\n")
}

func (m appModel) viewHeader() string {
	crumbs := []string{"annotate"}
	if ws := strings.TrimSpace(m.opts.Workspace); ws != "" {
		crumbs = append(crumbs, ws)
	}
	if m.sess.HasCollection() && m.view != viewCollections {
		crumbs = append(crumbs, displayName(m.sess.Name()))
		if m.view == viewTopics {
			crumbs = append(crumbs, "topics")
		}
		if m.view == viewReport {
			crumbs = append(crumbs, "report")
		}
	}
	head := styleHeader().Render(crumbs[0])
	if len(crumbs) > 1 {
		rest := strings.Join(crumbs[1:], " "+glyphArrow()+" ")
		head += " " + lipgloss.NewStyle().Foreground(colorChromeMutedFg).Render(glyphArrow()+" "+rest)
	}
	return truncate(head, m.width)
}

func (m appModel) viewMinibuffer() string {
	if m.minibufferText == "" {
		return ""
	}
	if m.minibufferErr {
		return lipgloss.NewStyle().Foreground(colorError).Render(m.minibufferText)
	}
	return m.minibufferText
}

func (m appModel) footerHelp() string {
	switch {
	case m.modal != modalNone:
		return ""
	case m.view == viewCollections:
		return "enter: open  /: filter  esc: back  q: quit"
	case m.view == viewTopics:
		return "enter/space: toggle  a: all  c: clear  esc: back  q: quit"
	case m.view == viewReport:
		return "up/down: scroll  esc: back  q: quit"
	default:
		return "1-9: answer  n/p: next/back  g/G: first/last  tab: question  s: skip  j: go to  f: topics  b: bulk  r: report  esc: collections  q: quit"
	}
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}
