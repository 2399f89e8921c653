// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// authFormModel renders the login/registration form: two text inputs with
// tab-cycled focus. The same form serves both flows; isRegister only changes
// the captions and which command the root model dispatches on submit.
type authFormModel struct {
	isRegister bool

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func newAuthFormModel(isRegister bool) authFormModel {
	loginInput := textinput.New()
	loginInput.Placeholder = "login"
	loginInput.CharLimit = 64
	loginInput.Width = 40
	loginInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	return authFormModel{
		isRegister: isRegister,
		inputs:     []textinput.Model{loginInput, passwordInput},
	}
}

func (m authFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m authFormModel) loginValue() string {
	return strings.TrimSpace(m.inputs[0].Value())
}

func (m authFormModel) passwordValue() string {
	return m.inputs[1].Value()
}

// Update handles form input. The third return value reports that the form
// was submitted with both fields filled; the root model then dispatches the
// matching auth command.
func (m authFormModel) Update(msg tea.Msg) (authFormModel, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "tab":
			m.focusNext()
			return m, nil, false
		case "shift+tab":
			m.focusPrev()
			return m, nil, false
		case "enter":
			if m.submitting {
				return m, nil, false
			}
			if m.loginValue() == "" || m.passwordValue() == "" {
				m.errMsg = "Логин и пароль обязательны"
				return m, nil, false
			}
			m.errMsg = ""
			m.submitting = true
			return m, nil, true
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd, false
}

func (m authFormModel) View() string {
	var b strings.Builder
	b.WriteString("Поле    │ Значение\n")
	b.WriteString("────────┼────────────────────────────────────────────\n")
	b.WriteString("Логин   │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Пароль  │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	action := "Войти"
	title := "ВХОД"
	if m.isRegister {
		action = "Зарегистрироваться"
		title = "РЕГИСТРАЦИЯ"
	}

	if m.submitting {
		b.WriteString("\n[" + action + "...]\n")
	} else {
		b.WriteString("\n[" + action + "]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\nОшибка: ")
		b.WriteString(m.errMsg)
		b.WriteString("\n")
	}

	return renderPage(title, strings.TrimRight(b.String(), "\n"), "esc: назад │ tab: след. поле │ enter: подтвердить")
}

func (m *authFormModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *authFormModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
