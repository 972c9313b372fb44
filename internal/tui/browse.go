package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yungbote/apprende-client/internal/client"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/session"
)

type catalogMsg struct {
	courses []catalog.Course
	err     error
}

type detailMsg struct {
	page *client.CoursePage
	err  error
}

type enrolledMsg struct {
	already bool
	err     error
}

type sessionMsg struct{ ev session.Event }

// BrowseModel is the catalog: a searchable course list and a detail pane with reviews.
type BrowseModel struct {
	ctx context.Context
	app *client.App

	all       []catalog.Course
	courses   []catalog.Course
	cursor    int
	detail    *client.CoursePage
	searching bool
	loading   bool
	status    string
	err       error

	events <-chan session.Event
	stop   func()

	search  textinput.Model
	keys    browseKeyMap
	help    help.Model
	spinner spinner.Model
}

func NewBrowseModel(ctx context.Context, app *client.App) *BrowseModel {
	ti := textinput.New()
	ti.Placeholder = "Buscar cursos"
	ti.Prompt = "/ "
	events, stop := app.Session.Watch(4)
	return &BrowseModel{
		ctx:     ctx,
		app:     app,
		loading: true,
		events:  events,
		stop:    stop,
		search:  ti,
		keys:    newBrowseKeys(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCatalog(), m.waitForSession())
}

func (m *BrowseModel) loadCatalog() tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		courses, err := app.Catalog(ctx, client.Filter{})
		return catalogMsg{courses: courses, err: err}
	}
}

func (m *BrowseModel) waitForSession() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return sessionMsg{ev: ev}
	}
}

func (m *BrowseModel) applyFilter() {
	m.courses = client.FilterCourses(m.all, client.Filter{Query: m.search.Value()})
	if m.cursor >= len(m.courses) {
		m.cursor = len(m.courses) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case catalogMsg:
		m.loading = false
		m.err = msg.err
		m.all = msg.courses
		m.applyFilter()
		return m, nil
	case detailMsg:
		m.loading = false
		m.err = msg.err
		m.detail = msg.page
		return m, nil
	case enrolledMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			if msg.already {
				m.status = "Ya estás inscrito en este curso"
			} else {
				m.status = "¡Inscripción completada!"
			}
			if m.detail != nil {
				m.detail.Enrolled = true
			}
		}
		return m, nil
	case sessionMsg:
		if msg.ev.Kind == session.EventLoggedOut {
			m.status = "Tu sesión ha terminado; inicia sesión de nuevo para inscribirte"
			if m.detail != nil {
				m.detail.Enrolled = false
			}
		}
		return m, m.waitForSession()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.applyFilter()
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.quit):
		m.stop()
		return m, tea.Quit
	case m.loading:
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.detail = nil
		m.status = ""
	case key.Matches(msg, m.keys.search):
		if m.detail == nil {
			m.searching = true
			return m, m.search.Focus()
		}
	case key.Matches(msg, m.keys.up):
		if m.detail == nil && m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.detail == nil && m.cursor < len(m.courses)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.open):
		if m.detail != nil || len(m.courses) == 0 {
			return m, nil
		}
		id := m.courses[m.cursor].ID
		m.loading = true
		app, ctx := m.app, m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			page, err := app.CourseDetail(ctx, id)
			return detailMsg{page: page, err: err}
		})
	case key.Matches(msg, m.keys.enroll):
		if m.detail == nil || m.detail.Course == nil {
			return m, nil
		}
		if !m.app.Session.Authenticated() {
			m.status = "Inicia sesión para inscribirte"
			return m, nil
		}
		id := m.detail.Course.ID
		m.loading = true
		app, ctx := m.app, m.ctx
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			res, err := app.Enroll(ctx, id)
			return enrolledMsg{already: res.AlreadyEnrolled, err: err}
		})
	}
	return m, nil
}

func (m *BrowseModel) View() string {
	var b strings.Builder
	if m.detail != nil && m.detail.Course != nil {
		b.WriteString(renderDetail(m.detail))
	} else {
		b.WriteString(titleStyle.Render("Catálogo"))
		b.WriteString("\n")
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
		if len(m.courses) == 0 && !m.loading {
			b.WriteString(mutedStyle.Render("No hay cursos que coincidan."))
			b.WriteString("\n")
		}
		for i, c := range m.courses {
			b.WriteString(pointer(i == m.cursor))
			b.WriteString(fmt.Sprintf("%s  %s\n", c.Title, mutedStyle.Render(formatPrice(c.Price))))
		}
	}
	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Cargando...")
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderDetail(p *client.CoursePage) string {
	c := p.Course
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Title))
	b.WriteString("\n")
	if c.Subtitle != "" {
		b.WriteString(c.Subtitle + "\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s · %s · %d lecciones", formatPrice(c.Price), levelOrDash(c.Level), c.LessonCount())))
	b.WriteString("\n\n")
	if c.Description != "" {
		b.WriteString(c.Description + "\n\n")
	}
	for i, s := range c.Sections {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%d. %s", i+1, s.Title)))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" (%d)", len(s.Lessons))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Valoración %.1f (%d reseñas)\n", p.AverageRating, len(p.Reviews)))
	for _, r := range p.Reviews {
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", strings.Repeat("★", r.Rating), r.UserName, r.Comment))
		if r.InstructorReply != nil {
			b.WriteString(mutedStyle.Render("    ↳ " + *r.InstructorReply))
			b.WriteString("\n")
		}
	}
	if p.Enrolled {
		b.WriteString("\n" + doneStyle.Render("Inscrito"))
	}
	return b.String()
}

func formatPrice(p float64) string {
	if p <= 0 {
		return "Gratis"
	}
	return fmt.Sprintf("$%.2f", p)
}

func levelOrDash(level string) string {
	if level == "" {
		return "-"
	}
	return level
}
