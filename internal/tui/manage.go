package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yungbote/apprende-client/internal/content"
	"github.com/yungbote/apprende-client/internal/reorder"
)

// row is one line of the content outline: a section header (lesson == -1) or a lesson.
type row struct {
	section int
	lesson  int
}

func (r row) isSection() bool { return r.lesson < 0 }

func outline(t content.Tree) []row {
	rows := make([]row, 0, len(t.Sections)+t.LessonCount())
	for i, s := range t.Sections {
		rows = append(rows, row{section: i, lesson: -1})
		for j := range s.Lessons {
			rows = append(rows, row{section: i, lesson: j})
		}
	}
	return rows
}

// dropTarget turns a picked-up row and the row under the cursor into a drag gesture.
// A section can only land on another section header. A lesson dropped on a lesson takes
// that lesson's slot; dropped on a section header it is appended to that section.
func dropTarget(t content.Tree, picked, target row) reorder.DragResult {
	if picked.isSection() {
		d := reorder.DragResult{
			Kind:   reorder.KindSection,
			Source: reorder.Location{ContainerID: t.CourseID, Index: picked.section},
		}
		if target.isSection() {
			d.Destination = &reorder.Location{ContainerID: t.CourseID, Index: target.section}
		}
		return d
	}
	src := t.Sections[picked.section]
	dst := t.Sections[target.section]
	d := reorder.DragResult{
		Kind:   reorder.KindLesson,
		Source: reorder.Location{ContainerID: src.ID, Index: picked.lesson},
	}
	idx := target.lesson
	if target.isSection() {
		idx = len(dst.Lessons)
		if target.section == picked.section {
			idx = len(dst.Lessons) - 1
		}
	}
	d.Destination = &reorder.Location{ContainerID: dst.ID, Index: idx}
	return d
}

type treeChangedMsg struct{ tree content.Tree }

type reorderDoneMsg struct {
	outcome reorder.Outcome
	err     error
}

// ManageModel lets an instructor rearrange sections and lessons from the keyboard.
// Each drop is applied optimistically and saved through the controller.
type ManageModel struct {
	ctx    context.Context
	ctrl   *reorder.Controller
	title  string
	tree   content.Tree
	rows   []row
	cursor int
	picked *row
	saving bool
	status string
	err    error

	updates chan content.Tree

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

func NewManageModel(ctx context.Context, title string, ctrl *reorder.Controller) *ManageModel {
	m := &ManageModel{
		ctx:     ctx,
		ctrl:    ctrl,
		title:   title,
		updates: make(chan content.Tree, 4),
		keys:    newManageKeys(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.setTree(ctrl.Tree())
	ctrl.OnChange(func(t content.Tree) {
		select {
		case m.updates <- t:
		default:
		}
	})
	return m
}

func (m *ManageModel) setTree(t content.Tree) {
	m.tree = t
	m.rows = outline(t)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *ManageModel) waitForTree() tea.Cmd {
	return func() tea.Msg {
		select {
		case t := <-m.updates:
			return treeChangedMsg{tree: t}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *ManageModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForTree())
}

func (m *ManageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case treeChangedMsg:
		m.setTree(msg.tree)
		return m, m.waitForTree()
	case reorderDoneMsg:
		m.saving = false
		m.err = msg.err
		m.setTree(m.ctrl.Tree())
		switch msg.outcome {
		case reorder.OutcomeSaved:
			m.status = "Orden guardado"
		case reorder.OutcomeRolledBack:
			m.status = "No se pudo guardar; se restauró el orden anterior"
		default:
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ManageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.up):
		m.move(-1)
	case key.Matches(msg, m.keys.down):
		m.move(1)
	case key.Matches(msg, m.keys.grab):
		if m.saving || len(m.rows) == 0 {
			return m, nil
		}
		r := m.rows[m.cursor]
		m.picked = &r
		m.status = ""
	case key.Matches(msg, m.keys.cancel):
		if m.picked == nil {
			return m, nil
		}
		// a cancelled drag is a gesture with no destination
		d := reorder.DragResult{Kind: reorder.KindLesson}
		m.picked = nil
		return m, m.apply(d)
	case key.Matches(msg, m.keys.drop):
		if m.picked == nil || m.saving {
			return m, nil
		}
		d := dropTarget(m.tree, *m.picked, m.rows[m.cursor])
		m.picked = nil
		if d.Destination == nil {
			m.status = "Las secciones solo se pueden soltar sobre otra sección"
			return m, nil
		}
		m.saving = true
		return m, tea.Batch(m.apply(d), m.spinner.Tick)
	case key.Matches(msg, m.keys.reload):
		m.setTree(m.ctrl.Confirmed())
	}
	return m, nil
}

func (m *ManageModel) apply(d reorder.DragResult) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		outcome, err := ctrl.Apply(ctx, d)
		return reorderDoneMsg{outcome: outcome, err: err}
	}
}

func (m *ManageModel) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	next := m.cursor + delta
	for next >= 0 && next < len(m.rows) {
		// a picked-up section only stops on section headers
		if m.picked == nil || !m.picked.isSection() || m.rows[next].isSection() {
			m.cursor = next
			return
		}
		next += delta
	}
}

func (m *ManageModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("Este curso aún no tiene secciones."))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		active := i == m.cursor
		isPicked := m.picked != nil && *m.picked == r
		b.WriteString(pointer(active))
		s := m.tree.Sections[r.section]
		var line string
		if r.isSection() {
			line = sectionStyle.Render(fmt.Sprintf("%d. %s", r.section+1, s.Title))
		} else {
			l := s.Lessons[r.lesson]
			line = fmt.Sprintf("    %d.%d %s %s", r.section+1, r.lesson+1, l.Title, mutedStyle.Render(string(l.LessonType)))
		}
		if isPicked {
			line = grabbedStyle.Render("≡ " + strings.TrimSpace(line))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(m.spinner.View() + " Guardando...")
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.status + ": " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
