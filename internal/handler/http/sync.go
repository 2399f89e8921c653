// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-record-sync/internal/app"
	"github.com/MKhiriev/go-record-sync/internal/logger"
	"github.com/MKhiriev/go-record-sync/internal/utils"
	"github.com/MKhiriev/go-record-sync/models"
	"github.com/go-chi/chi/v5"
)

// synchronize accepts a batch of offline operations from a device and runs
// it through the synchronization engine. The batch owner is always the
// authenticated caller: a batch claiming a different user is rejected before
// it reaches the engine.
func (h *Handler) synchronize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var batch models.SyncBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		log.Err(err).Str("func", "*Handler.synchronize").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.synchronize").Msg("no user ID in request context")
		http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
		return
	}
	orgID, _ := utils.GetOrgIDFromContext(ctx)

	if batch.UserID != 0 && batch.UserID != userID {
		log.Error().Str("func", "*Handler.synchronize").
			Int64("batch_user_id", batch.UserID).
			Int64("caller_id", userID).
			Msg("batch user does not match the authenticated caller")
		http.Error(w, "batch user does not match the authenticated caller", http.StatusForbidden)
		return
	}
	batch.UserID = userID
	batch.OrganizationID = orgID

	if batch.DeviceID == "" {
		log.Error().Str("func", "*Handler.synchronize").Msg("no device ID was given")
		http.Error(w, "no device ID was given", http.StatusBadRequest)
		return
	}
	if len(batch.Operations) == 0 {
		log.Error().Str("func", "*Handler.synchronize").Msg("no operations provided")
		http.Error(w, app.MsgNoOperationsProvided, http.StatusBadRequest)
		return
	}

	result, err := h.services.SyncService.Synchronize(ctx, batch)
	if err != nil {
		log.Err(err).Str("func", "*Handler.synchronize").Msg("error synchronizing batch")
		http.Error(w, "error synchronizing batch", statusFromError(err))
		return
	}

	utils.WriteJSON(w, result, http.StatusOK)
}

// getPendingConflicts lists the caller's conflicts awaiting manual review.
func (h *Handler) getPendingConflicts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getPendingConflicts").Msg("no user ID in request context")
		http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
		return
	}

	conflicts, err := h.services.SyncService.GetPendingConflicts(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getPendingConflicts").Msg("error listing pending conflicts")
		http.Error(w, "error listing pending conflicts", statusFromError(err))
		return
	}
	if conflicts == nil {
		conflicts = []models.SyncConflict{}
	}

	utils.WriteJSON(w, conflicts, http.StatusOK)
}

// resolveConflict applies a reviewer's decision to a pending conflict. The
// conflict identifier in the URL is authoritative; any ID in the request
// body is ignored.
func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ManualResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	req.ConflictID = chi.URLParam(r, "conflictID")

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.resolveConflict").Msg("no user ID in request context")
		http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
		return
	}
	req.UserID = userID
	req.OrganizationID, _ = utils.GetOrgIDFromContext(ctx)

	switch req.Choice {
	case models.ChoiceLocal, models.ChoiceRemote, models.ChoiceCustom:
	default:
		log.Error().Str("func", "*Handler.resolveConflict").
			Str("choice", string(req.Choice)).
			Msg("invalid resolution choice")
		http.Error(w, app.MsgInvalidResolutionChoice, http.StatusBadRequest)
		return
	}

	resolved, err := h.services.SyncService.ResolveConflictManually(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.resolveConflict").
			Str("conflict_id", req.ConflictID).
			Msg("error resolving conflict")
		http.Error(w, "error resolving conflict", statusFromError(err))
		return
	}
	if !resolved {
		log.Debug().Str("func", "*Handler.resolveConflict").
			Str("conflict_id", req.ConflictID).
			Msg("conflict not found or already resolved")
		http.Error(w, app.MsgConflictNotFound, http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// getSyncStats reports the engine-level counters snapshot.
func (h *Handler) getSyncStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	stats, err := h.services.SyncService.GetSyncStats(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncStats").Msg("error getting sync stats")
		http.Error(w, "error getting sync stats", statusFromError(err))
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}
