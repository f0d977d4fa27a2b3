package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/api/middleware"
	"github.com/ubongpr7/akwa-inventory/api/responses"
	"github.com/ubongpr7/akwa-inventory/api/validators"
	"github.com/ubongpr7/akwa-inventory/internal/inventory"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

const maxListLimit = 100

// listEnvelope is the shared shape for cursor-paginated collections.
type listEnvelope struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type adjustTotalRequest struct {
	Delta int `json:"delta" validate:"required"`
}

func requireProfile(r *http.Request, logg *logger.Logger, w http.ResponseWriter) (string, bool) {
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "profile context missing"))
		return "", false
	}
	return profileID, true
}

func pathItemID(r *http.Request) (uuid.UUID, error) {
	return validators.PathUUID(chi.URLParam(r, "itemId"))
}

func actorID(r *http.Request) *string {
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		return &userID
	}
	return nil
}

// InventoryCreate registers a new item; its full quantity starts available.
func InventoryCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		var input inventory.CreateItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ProfileID = profileID
		input.CreatedByID = actorID(r)

		item, err := svc.CreateItem(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func InventoryGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		params := inventory.ListParams{ProfileID: profileID}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.Limit = limit
		params.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))

		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			value, err := enums.ParseInventoryType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			params.Type = &value
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			value, err := enums.ParseInventoryStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &value
		}
		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params.IsActive = active

		items, next, err := svc.ListItems(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input inventory.UpdateItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ModifiedByID = actorID(r)

		item, err := svc.UpdateItem(r.Context(), profileID, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func InventoryRetire(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RetireItem(r.Context(), profileID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "retired"})
	}
}

func InventoryCounters(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counters, err := svc.GetCounters(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counters)
	}
}

func InventorySummary(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		summary, err := svc.Summary(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

type counterOp func(ctx context.Context, profileID string, id uuid.UUID, qty int) (*inventory.Counters, error)

func counterHandler(logg *logger.Logger, op counterOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counters, err := op(r.Context(), profileID, id, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counters)
	}
}

// InventoryReserve moves quantity from available to reserved.
func InventoryReserve(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return counterHandler(logg, svc.Reserve)
}

// InventoryRelease returns reserved quantity to available.
func InventoryRelease(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return counterHandler(logg, svc.Release)
}

// InventoryOccupy converts reserved quantity into occupied stock.
func InventoryOccupy(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return counterHandler(logg, svc.Occupy)
}

// InventoryMakeAvailable returns occupied stock to available. Restocking an
// item goes through here too: replenishment is bounded by total capacity.
func InventoryMakeAvailable(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return counterHandler(logg, svc.MakeAvailable)
}

// InventoryAdjustTotal changes total capacity by a signed delta.
func InventoryAdjustTotal(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathItemID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustTotalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		counters, err := svc.AdjustTotal(r.Context(), profileID, id, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counters)
	}
}
