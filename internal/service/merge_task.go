package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/MKhiriev/go-record-sync/models"
)

// mergeTasks is the entity-aware merger for tasks. Field precedence:
//   - identity (ID, OrganizationID, CreatedAt) from the remote side;
//   - Title and Description: most recently updated non-empty value;
//   - Status, DueDate, StartDate: from the side with the newer UpdatedAt;
//   - Priority: the higher severity rank wins;
//   - AssigneeID: remote preferred when non-zero;
//   - Tags: union;
//   - Comments: merged by comment ID (newer side wins a duplicate), sorted
//     by CreatedAt ascending;
//   - UpdatedAt: the later of the two.
func mergeTasks(local, remote models.SyncOperation) (models.Entity, error) {
	localTask, ok := local.Data.(*models.Task)
	if !ok {
		return nil, fmt.Errorf("%w: local payload is not a task", ErrInvalidDataProvided)
	}
	remoteTask, ok := remote.Data.(*models.Task)
	if !ok {
		return nil, fmt.Errorf("%w: remote payload is not a task", ErrInvalidDataProvided)
	}

	newer, older := localTask, remoteTask
	if remoteTask.UpdatedAt.After(localTask.UpdatedAt) {
		newer, older = remoteTask, localTask
	}

	merged := models.Task{
		ID:             remoteTask.ID,
		OrganizationID: remoteTask.OrganizationID,
		CreatedAt:      remoteTask.CreatedAt,

		Title:       mostRecentNonEmpty(newer.Title, older.Title),
		Description: mostRecentNonEmpty(newer.Description, older.Description),

		Status:    newer.Status,
		DueDate:   cloneTime(newer.DueDate),
		StartDate: cloneTime(newer.StartDate),

		UpdatedAt: newer.UpdatedAt,
	}

	merged.Priority = localTask.Priority
	if remoteTask.Priority.Rank() > localTask.Priority.Rank() {
		merged.Priority = remoteTask.Priority
	}

	merged.AssigneeID = remoteTask.AssigneeID
	if merged.AssigneeID == 0 {
		merged.AssigneeID = localTask.AssigneeID
	}

	merged.Tags = unionStrings(localTask.Tags, remoteTask.Tags)
	merged.Comments = mergeComments(newer.Comments, older.Comments)

	return &merged, nil
}

// mergeComments unions two comment lists by comment ID. The preferred list
// wins when both carry the same ID. The result is sorted by CreatedAt
// ascending, ties broken by ID, so merging is order-independent.
func mergeComments(preferred, other []models.TaskComment) []models.TaskComment {
	if len(preferred) == 0 && len(other) == 0 {
		return nil
	}

	byID := make(map[string]models.TaskComment, len(preferred)+len(other))
	for _, c := range other {
		byID[c.ID] = c
	}
	for _, c := range preferred {
		byID[c.ID] = c
	}

	merged := make([]models.TaskComment, 0, len(byID))
	for _, c := range byID {
		merged = append(merged, c)
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].ID < merged[j].ID
		}
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})

	return merged
}

// mostRecentNonEmpty returns the newer side's value, falling back to the
// older side's when the newer one is empty.
func mostRecentNonEmpty(newer, older string) string {
	if newer != "" {
		return newer
	}
	return older
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	clone := *t
	return &clone
}

// unionStrings appends b's elements missing from a, preserving a's order.
func unionStrings(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(a)+len(b))
	union := make([]string, 0, len(a)+len(b))
	for _, lists := range [][]string{a, b} {
		for _, v := range lists {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			union = append(union, v)
		}
	}

	return union
}

// unionInt64s appends b's elements missing from a, preserving a's order.
func unionInt64s(a, b []int64) []int64 {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(a)+len(b))
	union := make([]int64, 0, len(a)+len(b))
	for _, lists := range [][]int64{a, b} {
		for _, v := range lists {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			union = append(union, v)
		}
	}

	return union
}
