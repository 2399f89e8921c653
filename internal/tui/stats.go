package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-record-sync/models"
)

type statsModel struct {
	stats   models.SyncStats
	loading bool
	lastErr error
}

func newStatsModel() statsModel {
	return statsModel{}
}

func (m statsModel) View() string {
	var b strings.Builder

	if m.loading {
		b.WriteString("Загрузка...\n")
	} else {
		b.WriteString(fmt.Sprintf("Ожидают разрешения   %d\n", m.stats.PendingConflicts))
		b.WriteString(fmt.Sprintf("Скорость обработки   %.2f оп/с\n", m.stats.ProcessingRate))
		b.WriteString(fmt.Sprintf("Доля ошибок          %.2f%%\n", m.stats.ErrorRate*100))
		b.WriteString(fmt.Sprintf("Среднее время синхр. %s\n", m.stats.AvgSyncTime))
	}

	if m.lastErr != nil {
		b.WriteString("\nОшибка: " + humanizeServerUnavailableError(m.lastErr) + "\n")
	}

	return renderPage(
		"СТАТИСТИКА СИНХРОНИЗАЦИИ",
		strings.TrimRight(b.String(), "\n"),
		"R: обновить │ esc: назад │ q: выход",
	)
}
