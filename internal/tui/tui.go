// Package tui implements the interactive conflict review console.
//
// The console is a Bubble Tea program: after logging in, a reviewer sees the
// conflicts pending manual resolution, inspects both sides of each conflict,
// and applies a decision. It also shows the engine's sync statistics and can
// flush the device's offline operation queue.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("вышел из программы")

type TUI struct {
	services *service.ClientServices
}

func New(services *service.ClientServices, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services}, nil
}

// Run drives the whole console session: welcome → auth → review loop.
// It blocks until the user quits or the program fails.
func (t *TUI) Run(ctx context.Context) error {
	model := newAppModel(ctx, t.services)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}

	return nil
}
