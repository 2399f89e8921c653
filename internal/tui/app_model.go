// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/service"
	"github.com/MKhiriev/go-record-sync/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenWelcome screen = iota
	screenLogin
	screenRegister
	screenList
	screenDetail
	screenStats
)

// appModel is the root Bubble Tea model of the review console. It owns the
// per-screen models and routes messages to whichever screen is active.
type appModel struct {
	ctx      context.Context
	services *service.ClientServices

	currentScreen screen

	welcome  welcomeModel
	authForm authFormModel
	list     listModel
	detail   detailModel
	stats    statsModel

	quitByUser bool
}

func newAppModel(ctx context.Context, services *service.ClientServices) appModel {
	return appModel{
		ctx:           ctx,
		services:      services,
		currentScreen: screenWelcome,
		welcome:       newWelcomeModel(),
		authForm:      newAuthFormModel(false),
		list:          newListModel(),
		stats:         newStatsModel(),
	}
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// global quit
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		m.quitByUser = true
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case authDoneMsg:
		m.authForm.submitting = false
		if msg.err != nil {
			m.authForm.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.currentScreen = screenList
		m.list.loading = true
		return m, m.cmdLoadConflicts()

	case conflictsLoadedMsg:
		m.list.loading = false
		m.list.lastErr = msg.err
		if msg.err == nil {
			m.list.conflicts = msg.conflicts
			if m.list.idx >= len(m.list.conflicts) {
				m.list.idx = 0
			}
		}
		return m, nil

	case resolveDoneMsg:
		m.detail.resolving = false
		if msg.err != nil {
			m.detail.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.currentScreen = screenList
		m.list.loading = true
		m.list.status = "Конфликт " + fitText(msg.conflictID, 12) + " разрешён"
		return m, tea.Batch(m.cmdLoadConflicts(), cmdClearStatusLater())

	case statsLoadedMsg:
		m.stats.loading = false
		m.stats.lastErr = msg.err
		if msg.err == nil {
			m.stats.stats = msg.stats
		}
		return m, nil

	case queueFlushedMsg:
		m.list.flushing = false
		if msg.err != nil {
			m.list.lastErr = msg.err
			return m, nil
		}
		m.list.status = flushStatus(msg.result)
		m.list.loading = true
		return m, tea.Batch(m.cmdLoadConflicts(), cmdClearStatusLater())

	case copiedMsg:
		m.detail.status = "Скопировано в буфер обмена"
		return m, cmdClearStatusLater()

	case clearStatusMsg:
		m.list.status = ""
		m.detail.status = ""
		return m, nil
	}

	switch m.currentScreen {
	case screenWelcome:
		return m.updateWelcome(msg)
	case screenLogin, screenRegister:
		return m.updateAuthForm(msg)
	case screenList:
		return m.updateList(msg)
	case screenDetail:
		return m.updateDetail(msg)
	case screenStats:
		return m.updateStats(msg)
	}

	return m, nil
}

func (m appModel) View() string {
	switch m.currentScreen {
	case screenWelcome:
		return m.welcome.View()
	case screenLogin, screenRegister:
		return m.authForm.View()
	case screenList:
		return m.list.View()
	case screenDetail:
		return m.detail.View()
	case screenStats:
		return m.stats.View()
	}
	return ""
}

// ── screen updates ───────────────────────────────────────────────────────────

func (m appModel) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.welcome.idx > 0 {
			m.welcome.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.welcome.idx < len(m.welcome.items)-1 {
			m.welcome.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		if m.welcome.idx == 0 {
			m.currentScreen = screenLogin
			m.authForm = newAuthFormModel(false)
		} else {
			m.currentScreen = screenRegister
			m.authForm = newAuthFormModel(true)
		}
		return m, m.authForm.Init()
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	}

	return m, nil
}

func (m appModel) updateAuthForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, keys.esc) {
		m.currentScreen = screenWelcome
		return m, nil
	}

	form, cmd, submitted := m.authForm.Update(msg)
	m.authForm = form

	if submitted {
		if m.authForm.isRegister {
			return m, m.cmdRegister(m.authForm.loginValue(), m.authForm.passwordValue())
		}
		return m, m.cmdLogin(m.authForm.loginValue(), m.authForm.passwordValue())
	}

	return m, cmd
}

func (m appModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.list.idx > 0 {
			m.list.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.list.idx < len(m.list.conflicts)-1 {
			m.list.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		if conflict, found := m.list.current(); found {
			m.detail = newDetailModel(conflict)
			m.currentScreen = screenDetail
		}
	case key.Matches(keyMsg, keys.refresh):
		m.list.loading = true
		return m, m.cmdLoadConflicts()
	case key.Matches(keyMsg, keys.stats):
		m.currentScreen = screenStats
		m.stats.loading = true
		return m, m.cmdLoadStats()
	case key.Matches(keyMsg, keys.flush):
		if !m.list.flushing {
			m.list.flushing = true
			return m, m.cmdFlushQueue()
		}
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	}

	return m, nil
}

func (m appModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.detail.resolving {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenList
	case key.Matches(keyMsg, keys.local):
		m.detail.resolving = true
		return m, m.cmdResolve(m.detail.conflict.ID, models.ChoiceLocal)
	case key.Matches(keyMsg, keys.remote):
		m.detail.resolving = true
		return m, m.cmdResolve(m.detail.conflict.ID, models.ChoiceRemote)
	case key.Matches(keyMsg, keys.yank):
		return m, cmdYank(m.detail.conflict)
	}

	return m, nil
}

func (m appModel) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenList
	case key.Matches(keyMsg, keys.refresh):
		m.stats.loading = true
		return m, m.cmdLoadStats()
	case key.Matches(keyMsg, keys.quit):
		m.quitByUser = true
		return m, tea.Quit
	}

	return m, nil
}

// ── async commands ───────────────────────────────────────────────────────────

func (m appModel) cmdLogin(login, password string) tea.Cmd {
	ctx := m.ctx
	auth := m.services.AuthService
	return func() tea.Msg {
		token, err := auth.Login(ctx, login, password)
		return authDoneMsg{token: token, err: err}
	}
}

func (m appModel) cmdRegister(login, password string) tea.Cmd {
	ctx := m.ctx
	auth := m.services.AuthService
	return func() tea.Msg {
		token, err := auth.Register(ctx, login, password)
		return authDoneMsg{token: token, err: err}
	}
}

func (m appModel) cmdLoadConflicts() tea.Cmd {
	ctx := m.ctx
	conflictSvc := m.services.ConflictService
	return func() tea.Msg {
		conflicts, err := conflictSvc.PendingConflicts(ctx)
		return conflictsLoadedMsg{conflicts: conflicts, err: err}
	}
}

func (m appModel) cmdResolve(conflictID string, choice models.ManualChoice) tea.Cmd {
	ctx := m.ctx
	conflictSvc := m.services.ConflictService
	return func() tea.Msg {
		err := conflictSvc.Resolve(ctx, conflictID, choice)
		return resolveDoneMsg{conflictID: conflictID, err: err}
	}
}

func (m appModel) cmdLoadStats() tea.Cmd {
	ctx := m.ctx
	conflictSvc := m.services.ConflictService
	return func() tea.Msg {
		stats, err := conflictSvc.Stats(ctx)
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m appModel) cmdFlushQueue() tea.Cmd {
	ctx := m.ctx
	queueSvc := m.services.QueueService
	return func() tea.Msg {
		result, err := queueSvc.Flush(ctx)
		return queueFlushedMsg{result: result, err: err}
	}
}

// cmdYank copies the conflict (both sides) to the system clipboard as JSON so
// the reviewer can inspect it in an editor before deciding.
func cmdYank(conflict models.SyncConflict) tea.Cmd {
	return func() tea.Msg {
		encoded, err := json.MarshalIndent(conflict, "", "  ")
		if err != nil {
			return resolveDoneMsg{err: err}
		}
		if err := clipboard.WriteAll(string(encoded)); err != nil {
			return resolveDoneMsg{err: err}
		}
		return copiedMsg{}
	}
}

func cmdClearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
