package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/client"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
)

type playedMsg struct {
	res *catalog.PlayableResource
	err error
}

type toggledMsg struct {
	completed bool
	err       error
}

type certificateMsg struct {
	path string
	err  error
}

// LearnModel is the lesson player: an outline with completion marks and the selected lesson.
type LearnModel struct {
	ctx     context.Context
	player  *client.Player
	certDir string

	cursor  uuid.UUID
	busy    bool
	nowPlay string
	status  string
	err     error

	keys    learnKeyMap
	help    help.Model
	spinner spinner.Model
	bar     progressbar.Model
}

func NewLearnModel(ctx context.Context, player *client.Player, certDir string) *LearnModel {
	m := &LearnModel{
		ctx:     ctx,
		player:  player,
		certDir: certDir,
		keys:    newLearnKeys(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:     progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(30)),
	}
	if cur, ok := player.Current(); ok {
		m.cursor = cur.ID
	}
	return m
}

func (m *LearnModel) Init() tea.Cmd { return m.spinner.Tick }

func (m *LearnModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case playedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.nowPlay = msg.res.VideoURL
		}
		return m, nil
	case toggledMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil && m.player.Tracker.CertificateAvailable() {
			m.status = "¡Curso completado! Pulsa c para descargar tu certificado"
		}
		return m, nil
	case certificateMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.status = "Certificado guardado en " + msg.path
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *LearnModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.expand):
		if si, _, ok := m.player.Tree.LocateLesson(m.cursor); ok {
			m.player.ToggleSection(m.player.Tree.Sections[si].ID)
		}
	case key.Matches(msg, m.keys.next):
		if m.player.Next() {
			m.syncCursor()
		}
	case key.Matches(msg, m.keys.previous):
		if m.player.Previous() {
			m.syncCursor()
		}
	case key.Matches(msg, m.keys.open):
		if err := m.player.Select(m.cursor); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.run(func(ctx context.Context) tea.Msg {
			res, err := m.player.Play(ctx)
			return playedMsg{res: res, err: err}
		})
	case key.Matches(msg, m.keys.toggle):
		if err := m.player.Select(m.cursor); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.run(func(ctx context.Context) tea.Msg {
			done, err := m.player.ToggleCurrent(ctx)
			return toggledMsg{completed: done, err: err}
		})
	case key.Matches(msg, m.keys.certificate):
		return m, m.run(func(ctx context.Context) tea.Msg {
			path, err := m.player.DownloadCertificate(ctx, m.certDir)
			return certificateMsg{path: path, err: err}
		})
	}
	return m, nil
}

func (m *LearnModel) run(fn func(context.Context) tea.Msg) tea.Cmd {
	m.busy = true
	m.err = nil
	m.status = ""
	ctx := m.ctx
	return tea.Batch(func() tea.Msg { return fn(ctx) }, m.spinner.Tick)
}

func (m *LearnModel) syncCursor() {
	if cur, ok := m.player.Current(); ok {
		m.cursor = cur.ID
	}
}

// visibleLessons lists lessons under expanded sections, in course order.
func (m *LearnModel) visibleLessons() []uuid.UUID {
	var out []uuid.UUID
	for _, s := range m.player.Tree.Sections {
		if !m.player.Expanded(s.ID) {
			continue
		}
		for _, l := range s.Lessons {
			out = append(out, l.ID)
		}
	}
	return out
}

func (m *LearnModel) moveCursor(delta int) {
	visible := m.visibleLessons()
	if len(visible) == 0 {
		return
	}
	idx := -1
	for i, id := range visible {
		if id == m.cursor {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(visible) {
		idx = len(visible) - 1
	}
	m.cursor = visible[idx]
}

func (m *LearnModel) View() string {
	tr := m.player.Tracker
	var outline strings.Builder
	for i, s := range m.player.Tree.Sections {
		marker := "▸"
		if m.player.Expanded(s.ID) {
			marker = "▾"
		}
		outline.WriteString(sectionStyle.Render(fmt.Sprintf("%s %d. %s", marker, i+1, s.Title)))
		outline.WriteString("\n")
		if !m.player.Expanded(s.ID) {
			continue
		}
		for _, l := range s.Lessons {
			check := mutedStyle.Render("○")
			if tr.Completed(l.ID) {
				check = doneStyle.Render("●")
			}
			outline.WriteString(pointer(l.ID == m.cursor))
			outline.WriteString(check + " " + l.Title)
			if l.IsFreePreview {
				outline.WriteString(mutedStyle.Render(" (vista previa)"))
			}
			outline.WriteString("\n")
		}
	}

	var detail strings.Builder
	detail.WriteString(titleStyle.Render(m.player.Course.Title))
	detail.WriteString("\n\n")
	if cur, ok := m.player.Current(); ok {
		detail.WriteString("Lección: " + cur.Title + "\n")
	}
	if m.nowPlay != "" {
		detail.WriteString("Reproduciendo: " + statusStyle.Render(m.nowPlay) + "\n")
	}
	detail.WriteString("\n")
	detail.WriteString(fmt.Sprintf("Progreso %d/%d\n", len(tr.CompletedIDs()), tr.Total()))
	detail.WriteString(m.bar.ViewAs(float64(tr.Percentage()) / 100))
	detail.WriteString("\n")
	if tr.CertificateAvailable() {
		detail.WriteString(doneStyle.Render("Certificado disponible"))
		detail.WriteString("\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(outline.String()),
		selectedPanel.Render(detail.String()),
	)

	var footer string
	switch {
	case m.busy:
		footer = m.spinner.View() + " Cargando..."
	case m.err != nil:
		footer = errorStyle.Render(m.err.Error())
	case m.status != "":
		footer = statusStyle.Render(m.status)
	}
	return body + "\n" + footer + "\n" + m.help.View(m.keys)
}
