// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-record-sync/models"
)

type detailModel struct {
	conflict  models.SyncConflict
	resolving bool
	status    string
	errMsg    string
}

func newDetailModel(conflict models.SyncConflict) detailModel {
	return detailModel{conflict: conflict}
}

func (m detailModel) View() string {
	var b strings.Builder

	c := m.conflict
	b.WriteString(fmt.Sprintf("Конфликт    %s\n", c.ID))
	b.WriteString(fmt.Sprintf("Тип         %s %s\n", conflictIcon(c.ConflictType), c.ConflictType))
	b.WriteString(fmt.Sprintf("Сущность    %s / %s\n", c.EntityType, c.EntityID))
	b.WriteString(fmt.Sprintf("Создан      %s\n", formatTime(c.CreatedAt)))
	b.WriteString("\n")

	b.WriteString(renderSide("ЛОКАЛЬНАЯ ВЕРСИЯ (клиент)", c.LocalVersion))
	b.WriteString("\n")
	b.WriteString(renderSide("УДАЛЁННАЯ ВЕРСИЯ (сервер)", c.RemoteVersion))

	if m.resolving {
		b.WriteString("\nПрименение решения...\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\nОшибка: " + m.errMsg + "\n")
	}

	return renderPage(
		"ДЕТАЛИ КОНФЛИКТА",
		strings.TrimRight(b.String(), "\n"),
		"l: принять локальную │ r: принять удалённую │ y: скопировать │ esc: назад",
	)
}

func renderSide(title string, op models.SyncOperation) string {
	var b strings.Builder

	b.WriteString(title + "\n")
	b.WriteString(fmt.Sprintf("  операция   %s (v%d)\n", op.Operation, op.Version))
	b.WriteString(fmt.Sprintf("  автор      пользователь %d, устройство %s\n", op.UserID, op.DeviceID))
	b.WriteString(fmt.Sprintf("  время      %s\n", formatTime(op.Timestamp)))

	if op.Data != nil {
		encoded, err := json.MarshalIndent(op.Data, "  ", "  ")
		if err == nil {
			b.WriteString("  данные     " + fitText(string(encoded), 600) + "\n")
		}
	} else {
		b.WriteString("  данные     -\n")
	}

	return b.String()
}
