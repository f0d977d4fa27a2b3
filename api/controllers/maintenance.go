package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/api/responses"
	"github.com/ubongpr7/akwa-inventory/api/validators"
	"github.com/ubongpr7/akwa-inventory/internal/maintenance"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

func pathMaintenanceID(r *http.Request) (uuid.UUID, error) {
	return validators.PathUUID(chi.URLParam(r, "maintenanceId"))
}

func MaintenanceSchedule(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		var input maintenance.ScheduleInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ProfileID = profileID
		input.CreatedByID = actorID(r)

		record, err := svc.Schedule(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

func MaintenanceGet(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathMaintenanceID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Get(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func MaintenanceList(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		params := maintenance.ListParams{ProfileID: profileID}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit = limit
		params.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))

		itemID, err := validators.ParseQueryUUID(r, "item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.InventoryItemID = itemID

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			value, err := enums.ParseMaintenanceStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			value, err := enums.ParseMaintenanceType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			params.Type = &value
		}

		items, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// MaintenanceOverdue lists work whose scheduled date passed without
// completion or cancellation.
func MaintenanceOverdue(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		items, next, err := svc.List(r.Context(), maintenance.ListParams{
			ProfileID: profileID,
			DueBefore: &now,
			Limit:     limit,
			Cursor:    strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

func MaintenanceStart(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathMaintenanceID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Start(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func MaintenanceComplete(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathMaintenanceID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input maintenance.CompleteInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Complete(r.Context(), profileID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func MaintenanceCancel(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathMaintenanceID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Cancel(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}
