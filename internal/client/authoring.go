package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/content"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/reorder"
)

func (a *App) CreateCourse(ctx context.Context, draft courseapi.CourseDraft) (*catalog.Course, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	return a.API.CreateCourse(ctx, draft)
}

func (a *App) MyCourses(ctx context.Context) ([]catalog.Course, error) {
	return a.API.MyCourses(ctx)
}

// AddSection appends a section after the course's existing ones.
func (a *App) AddSection(ctx context.Context, courseID uuid.UUID, title string) (*catalog.Section, error) {
	course, err := a.API.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	draft := courseapi.SectionDraft{Title: strings.TrimSpace(title), OrderIndex: len(course.Sections)}
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	return a.API.CreateSection(ctx, courseID, draft)
}

// AddLesson uploads mediaPath first when it is set and uses the stored URL as the lesson resource.
func (a *App) AddLesson(ctx context.Context, sectionID uuid.UUID, draft courseapi.LessonDraft, mediaPath string) (*catalog.Lesson, error) {
	if mediaPath != "" {
		url, err := a.Upload(ctx, mediaPath)
		if err != nil {
			return nil, err
		}
		draft.VideoResourceID = url
	}
	if draft.LessonType == "" {
		draft.LessonType = catalog.LessonTypeVideo
	}
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	return a.API.CreateLesson(ctx, sectionID, draft)
}

func (a *App) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return a.API.Upload(ctx, filepath.Base(path), f)
}

// Manage loads a course into a reorder controller that saves through the API.
func (a *App) Manage(ctx context.Context, courseID uuid.UUID) (*catalog.Course, *reorder.Controller, error) {
	course, err := a.API.GetCourse(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	return course, reorder.NewController(content.FromCourse(course), a.API, a.Log), nil
}

// MoveSection moves a section to dstIndex and saves the new order.
func (a *App) MoveSection(ctx context.Context, courseID, sectionID uuid.UUID, dstIndex int) (reorder.Outcome, error) {
	_, ctrl, err := a.Manage(ctx, courseID)
	if err != nil {
		return reorder.OutcomeIgnored, err
	}
	src := ctrl.Tree().SectionIndex(sectionID)
	if src < 0 {
		return reorder.OutcomeIgnored, fmt.Errorf("%w: section %s not in course", reorder.ErrInvalidDrag, sectionID)
	}
	return ctrl.Apply(ctx, reorder.DragResult{
		Kind:        reorder.KindSection,
		Source:      reorder.Location{ContainerID: courseID, Index: src},
		Destination: &reorder.Location{ContainerID: courseID, Index: dstIndex},
	})
}

// MoveLesson moves a lesson into dstSectionID at dstIndex and saves the new order.
func (a *App) MoveLesson(ctx context.Context, courseID, lessonID, dstSectionID uuid.UUID, dstIndex int) (reorder.Outcome, error) {
	_, ctrl, err := a.Manage(ctx, courseID)
	if err != nil {
		return reorder.OutcomeIgnored, err
	}
	tree := ctrl.Tree()
	si, li, ok := tree.LocateLesson(lessonID)
	if !ok {
		return reorder.OutcomeIgnored, fmt.Errorf("%w: lesson %s not in course", reorder.ErrInvalidDrag, lessonID)
	}
	if tree.SectionIndex(dstSectionID) < 0 {
		return reorder.OutcomeIgnored, fmt.Errorf("%w: section %s not in course", reorder.ErrInvalidDrag, dstSectionID)
	}
	return ctrl.Apply(ctx, reorder.DragResult{
		Kind:        reorder.KindLesson,
		Source:      reorder.Location{ContainerID: tree.Sections[si].ID, Index: li},
		Destination: &reorder.Location{ContainerID: dstSectionID, Index: dstIndex},
	})
}
