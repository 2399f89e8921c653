package service

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
)

// resolutionOutcome is the dispatcher's verdict for one conflict: either an
// operation to push through the apply stage, a no-op (server side kept), or
// a parked conflict awaiting manual review.
type resolutionOutcome struct {
	// apply is the winning or merged operation; nil when server state
	// already reflects the outcome.
	apply *models.SyncOperation

	// parked marks the conflict for durable storage and manual review.
	parked bool

	resolution models.ResolutionType
}

// resolve applies the engine's configured strategy to one conflict.
//
// Delete conflicts are always parked: a deletion is never auto-applied,
// whatever the strategy, because no merge output can represent "half
// deleted" and losing a record silently is worse than asking.
func (s *syncService) resolve(conflict models.SyncConflict) (resolutionOutcome, error) {
	if conflict.ConflictType == models.ConflictDelete {
		return resolutionOutcome{parked: true, resolution: models.ResolutionManual}, nil
	}

	switch s.strategy {
	case models.StrategyManualReview:
		return resolutionOutcome{parked: true, resolution: models.ResolutionManual}, nil

	case models.StrategyLastWriteWins:
		// tie goes to the server side
		if conflict.LocalVersion.Timestamp.After(conflict.RemoteVersion.Timestamp) {
			return s.keepSide(conflict, conflict.LocalVersion, models.ResolutionAutoLocal), nil
		}
		return resolutionOutcome{resolution: models.ResolutionAutoRemote}, nil

	case models.StrategyFirstWriteWins:
		// tie goes to the device side
		if conflict.RemoteVersion.Timestamp.Before(conflict.LocalVersion.Timestamp) {
			return resolutionOutcome{resolution: models.ResolutionAutoRemote}, nil
		}
		return s.keepSide(conflict, conflict.LocalVersion, models.ResolutionAutoLocal), nil

	case models.StrategyIntelligentMerge, models.StrategyFieldLevelMerge:
		return s.mergeSides(conflict)

	default:
		return resolutionOutcome{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, s.strategy)
	}
}

// keepSide wraps a winning operation. The winner is applied with a version
// above both sides so the outcome is strictly newer than what either device
// has seen.
func (s *syncService) keepSide(conflict models.SyncConflict, winner models.SyncOperation, resolution models.ResolutionType) resolutionOutcome {
	op := winner
	op.Version = maxInt64(conflict.LocalVersion.Version, conflict.RemoteVersion.Version)
	return resolutionOutcome{apply: &op, resolution: resolution}
}

// mergeSides reconciles the two payloads. Entity-aware mergers exist for
// tasks, clients, and documents; every other type — and every call under the
// plain field_level_merge strategy — goes through the generic JSON-projection
// merge. A conflict where either side lacks a payload cannot be merged and is
// parked instead.
func (s *syncService) mergeSides(conflict models.SyncConflict) (resolutionOutcome, error) {
	local, remote := conflict.LocalVersion, conflict.RemoteVersion
	if local.Data == nil || remote.Data == nil {
		return resolutionOutcome{parked: true, resolution: models.ResolutionManual}, nil
	}

	var (
		merged models.Entity
		err    error
	)
	if s.strategy == models.StrategyIntelligentMerge {
		switch conflict.EntityType {
		case models.EntityTypeTask:
			merged, err = mergeTasks(local, remote)
		case models.EntityTypeClient:
			merged, err = mergeClients(local, remote)
		case models.EntityTypeDocument:
			merged, err = mergeDocuments(local, remote)
		default:
			merged, err = fieldLevelMerge(local, remote)
		}
	} else {
		merged, err = fieldLevelMerge(local, remote)
	}
	if err != nil {
		return resolutionOutcome{}, err
	}

	op, err := s.mergedOperation(conflict, merged)
	if err != nil {
		return resolutionOutcome{}, err
	}

	return resolutionOutcome{apply: &op, resolution: models.ResolutionMerge}, nil
}

// mergedOperation packages a merged payload as a fresh update operation:
// new id, version strictly above both inputs, current timestamp, and a
// checksum recomputed from the merged payload — never copied from a side.
func (s *syncService) mergedOperation(conflict models.SyncConflict, merged models.Entity) (models.SyncOperation, error) {
	checksum, err := utils.ChecksumEntity(merged)
	if err != nil {
		return models.SyncOperation{}, fmt.Errorf("merged checksum computation failed: %w", err)
	}

	return models.SyncOperation{
		ID:         s.uuid.Generate(),
		EntityType: conflict.EntityType,
		EntityID:   conflict.EntityID,
		Operation:  models.OperationUpdate,
		Data:       merged,
		Timestamp:  time.Now(),
		DeviceID:   conflict.LocalVersion.DeviceID,
		UserID:     conflict.LocalVersion.UserID,
		Version:    maxInt64(conflict.LocalVersion.Version, conflict.RemoteVersion.Version) + 1,
		Checksum:   checksum,
	}, nil
}

// fieldLevelMerge reconciles two payloads of the same entity type key by key
// on their JSON projection, then decodes the merged projection back into the
// typed entity.
//
// Per remote key:
//   - nested object → recursive deep merge;
//   - list → union with structural-equality de-duplication, local elements
//     first;
//   - scalar → local value wins unless local is null or absent.
func fieldLevelMerge(local, remote models.SyncOperation) (models.Entity, error) {
	localMap, err := toJSONMap(local.Data)
	if err != nil {
		return nil, err
	}
	remoteMap, err := toJSONMap(remote.Data)
	if err != nil {
		return nil, err
	}

	merged := mergeJSONMaps(localMap, remoteMap)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("merged projection encoding failed: %w", err)
	}
	return models.DecodeEntity(local.EntityType, raw)
}

func toJSONMap(entity models.Entity) (map[string]any, error) {
	if entity == nil {
		return nil, ErrMergeNilPayload
	}

	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("payload projection failed: %w", err)
	}

	var projection map[string]any
	if err := json.Unmarshal(raw, &projection); err != nil {
		return nil, fmt.Errorf("payload projection failed: %w", err)
	}

	return projection, nil
}

func mergeJSONMaps(local, remote map[string]any) map[string]any {
	merged := make(map[string]any, len(local)+len(remote))
	for key, value := range local {
		merged[key] = value
	}

	for key, remoteValue := range remote {
		localValue, inLocal := merged[key]
		if !inLocal || localValue == nil {
			merged[key] = remoteValue
			continue
		}

		switch rv := remoteValue.(type) {
		case map[string]any:
			if lv, ok := localValue.(map[string]any); ok {
				merged[key] = mergeJSONMaps(lv, rv)
			}
			// type clash: local wins

		case []any:
			if lv, ok := localValue.([]any); ok {
				merged[key] = unionJSONLists(lv, rv)
			}

		default:
			// scalar: local wins unless null, handled above
		}
	}

	return merged
}

// unionJSONLists appends remote elements missing from local, comparing by
// structural equality. Local order is preserved, which makes the union
// commutative up to ordering.
func unionJSONLists(local, remote []any) []any {
	union := append([]any(nil), local...)
	for _, rv := range remote {
		found := false
		for _, lv := range union {
			if reflect.DeepEqual(lv, rv) {
				found = true
				break
			}
		}
		if !found {
			union = append(union, rv)
		}
	}
	return union
}
