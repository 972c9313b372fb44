package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/content"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/progress"
)

var ErrCertificateLocked = errors.New("certificate available only at 100% progress")

// Player is an open course in the lesson player.
type Player struct {
	app     *App
	Course  *catalog.Course
	Tree    content.Tree
	Tracker *progress.Tracker

	mu       sync.Mutex
	current  uuid.UUID
	expanded map[uuid.UUID]bool
}

// OpenPlayer loads the course and the student's progress. The first lesson of the first
// section is selected and its section expanded.
func (a *App) OpenPlayer(ctx context.Context, courseID uuid.UUID) (*Player, error) {
	course, err := a.API.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	tree := content.FromCourse(course)
	tracker := progress.NewTracker(tree, a.API, a.Log)
	if err := tracker.Load(ctx); err != nil {
		return nil, err
	}
	p := &Player{
		app:      a,
		Course:   course,
		Tree:     tree,
		Tracker:  tracker,
		expanded: map[uuid.UUID]bool{},
	}
	if first, ok := tracker.First(); ok {
		p.current = first
		if si, _, ok := tree.LocateLesson(first); ok {
			p.expanded[tree.Sections[si].ID] = true
		}
	}
	return p, nil
}

func (p *Player) Current() (catalog.Lesson, bool) {
	p.mu.Lock()
	id := p.current
	p.mu.Unlock()
	si, li, ok := p.Tree.LocateLesson(id)
	if !ok {
		return catalog.Lesson{}, false
	}
	return p.Tree.Sections[si].Lessons[li], true
}

// Select makes lessonID current and expands its section.
func (p *Player) Select(lessonID uuid.UUID) error {
	si, _, ok := p.Tree.LocateLesson(lessonID)
	if !ok {
		return fmt.Errorf("%w: %s", progress.ErrUnknownLesson, lessonID)
	}
	p.mu.Lock()
	p.current = lessonID
	p.expanded[p.Tree.Sections[si].ID] = true
	p.mu.Unlock()
	return nil
}

func (p *Player) Next() bool     { return p.step(p.Tracker.Next) }
func (p *Player) Previous() bool { return p.step(p.Tracker.Previous) }

func (p *Player) step(move func(uuid.UUID) (uuid.UUID, bool)) bool {
	p.mu.Lock()
	cur := p.current
	p.mu.Unlock()
	id, ok := move(cur)
	if !ok {
		return false
	}
	return p.Select(id) == nil
}

func (p *Player) ToggleSection(sectionID uuid.UUID) {
	p.mu.Lock()
	p.expanded[sectionID] = !p.expanded[sectionID]
	p.mu.Unlock()
}

func (p *Player) Expanded(sectionID uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expanded[sectionID]
}

// Play resolves the media URL of the current lesson.
func (p *Player) Play(ctx context.Context) (*catalog.PlayableResource, error) {
	lesson, ok := p.Current()
	if !ok {
		return nil, progress.ErrUnknownLesson
	}
	return p.app.API.PlayLesson(ctx, p.Course.ID, lesson.ID)
}

// ToggleCurrent flips completion of the current lesson.
func (p *Player) ToggleCurrent(ctx context.Context) (bool, error) {
	lesson, ok := p.Current()
	if !ok {
		return false, progress.ErrUnknownLesson
	}
	return p.Tracker.Toggle(ctx, lesson.ID)
}

// DownloadCertificate writes the certificate into dir and returns the file path.
func (p *Player) DownloadCertificate(ctx context.Context, dir string) (string, error) {
	if !p.Tracker.CertificateAvailable() {
		return "", fmt.Errorf("%w (currently %d%%)", ErrCertificateLocked, p.Tracker.Percentage())
	}
	return p.app.downloadCertificate(ctx, p.Course.ID, dir)
}

func (a *App) downloadCertificate(ctx context.Context, courseID uuid.UUID, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".certificate-*")
	if err != nil {
		return "", fmt.Errorf("create certificate file: %w", err)
	}
	name, err := a.API.DownloadCertificate(ctx, courseID, tmp)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(name))
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("save certificate: %w", err)
	}
	return dst, nil
}
