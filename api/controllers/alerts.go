package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/api/responses"
	"github.com/ubongpr7/akwa-inventory/api/validators"
	"github.com/ubongpr7/akwa-inventory/internal/alerts"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

type alertResolveRequest struct {
	ResolvedByID string `json:"resolved_by_id" validate:"omitempty,max=50"`
	ActionTaken  string `json:"action_taken"`
}

func pathAlertID(r *http.Request) (uuid.UUID, error) {
	return validators.PathUUID(chi.URLParam(r, "alertId"))
}

func AlertList(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		params := alerts.ListParams{ProfileID: profileID}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit = limit
		params.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))

		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			value, err := enums.ParseAlertType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			params.Type = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("severity")); raw != "" {
			value, err := enums.ParseAlertSeverity(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid severity filter"))
				return
			}
			params.Severity = &value
		}
		read, err := validators.ParseQueryBool(r, "read")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.IsRead = read
		resolved, err := validators.ParseQueryBool(r, "resolved")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.IsResolved = resolved

		items, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// AlertCritical lists unresolved critical alerts.
func AlertCritical(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
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

		severity := enums.AlertSeverityCritical
		unresolved := false
		items, next, err := svc.List(r.Context(), alerts.ListParams{
			ProfileID:  profileID,
			Severity:   &severity,
			IsResolved: &unresolved,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

func AlertGet(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathAlertID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		alert, err := svc.Get(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alert)
	}
}

func AlertMarkRead(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathAlertID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), profileID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

func AlertMarkAllRead(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		updated, err := svc.MarkAllRead(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"updated": updated})
	}
}

func AlertResolve(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathAlertID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body alertResolveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := alerts.ResolveInput{
			ResolvedByID: body.ResolvedByID,
			ActionTaken:  body.ActionTaken,
		}
		if input.ResolvedByID == "" {
			if actor := actorID(r); actor != nil {
				input.ResolvedByID = *actor
			}
		}

		alert, err := svc.Resolve(r.Context(), profileID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, alert)
	}
}

func AlertUnresolvedCount(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		count, err := svc.CountUnresolved(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int64{"unresolved": count})
	}
}
