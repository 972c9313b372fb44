package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/client"
)

func run(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func RunBrowse(ctx context.Context, app *client.App) error {
	return run(ctx, NewBrowseModel(ctx, app))
}

func RunManage(ctx context.Context, app *client.App, courseID uuid.UUID) error {
	course, ctrl, err := app.Manage(ctx, courseID)
	if err != nil {
		return err
	}
	return run(ctx, NewManageModel(ctx, course.Title, ctrl))
}

func RunLearn(ctx context.Context, app *client.App, courseID uuid.UUID, certDir string) error {
	p, err := app.OpenPlayer(ctx, courseID)
	if err != nil {
		return err
	}
	return run(ctx, NewLearnModel(ctx, p, certDir))
}
