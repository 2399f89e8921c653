package tui

import (
	"fmt"

	"github.com/MKhiriev/go-record-sync/models"
)

type listModel struct {
	conflicts []models.SyncConflict
	idx       int
	loading   bool
	flushing  bool
	status    string
	lastErr   error
}

func newListModel() listModel {
	return listModel{loading: true}
}

func (m listModel) current() (models.SyncConflict, bool) {
	if len(m.conflicts) == 0 || m.idx < 0 || m.idx >= len(m.conflicts) {
		return models.SyncConflict{}, false
	}
	return m.conflicts[m.idx], true
}

func conflictIcon(t models.ConflictType) string {
	switch t {
	case models.ConflictVersion:
		return "[V]"
	case models.ConflictConcurrent:
		return "[C]"
	case models.ConflictDelete:
		return "[D]"
	default:
		return "[?]"
	}
}

func (m listModel) View() string {
	var body string

	switch {
	case m.loading:
		body = "Загрузка...\n"
	case len(m.conflicts) == 0:
		body = "Нет конфликтов, ожидающих разрешения\n"
	default:
		for i, conflict := range m.conflicts {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			body += fmt.Sprintf("%s%s %-8s %-24s %s\n",
				cursor,
				conflictIcon(conflict.ConflictType),
				conflict.EntityType,
				fitText(conflict.EntityID, 24),
				formatAge(conflict.CreatedAt),
			)
		}
	}

	if m.flushing {
		body += "\nОтправка очереди...\n"
	}
	if m.status != "" {
		body += "\n" + m.status + "\n"
	}
	if m.lastErr != nil {
		body += "\nОшибка: " + humanizeServerUnavailableError(m.lastErr) + "\n"
	}

	return renderPage(
		"КОНФЛИКТЫ НА РАССМОТРЕНИИ",
		body,
		"enter: открыть │ R: обновить │ s: статистика │ f: отправить очередь │ q: выход",
	)
}

// flushStatus summarises a queue flush outcome for the status line.
func flushStatus(result models.SyncResult) string {
	return fmt.Sprintf("Очередь отправлена: применено %d, конфликтов %d, ошибок %d",
		result.OperationsApplied, len(result.Conflicts), len(result.Errors))
}
