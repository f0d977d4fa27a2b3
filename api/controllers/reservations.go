package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ubongpr7/akwa-inventory/api/responses"
	"github.com/ubongpr7/akwa-inventory/api/validators"
	"github.com/ubongpr7/akwa-inventory/internal/reservations"
	"github.com/ubongpr7/akwa-inventory/pkg/db/models"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

type reservationCreateRequest struct {
	InventoryItemID uuid.UUID  `json:"inventory_item_id" validate:"required"`
	CustomerUserID  string     `json:"customer_user_id" validate:"required,max=50"`
	Quantity        int        `json:"quantity" validate:"required,gt=0"`
	ExpiryAt        *time.Time `json:"expiry_at"`
	TTLMinutes      int        `json:"ttl_minutes" validate:"omitempty,gt=0"`
}

func pathReservationID(r *http.Request) (uuid.UUID, error) {
	return validators.PathUUID(chi.URLParam(r, "reservationId"))
}

// ReservationCreate places a hold: the item's available quantity moves to
// reserved and the reservation starts pending.
func ReservationCreate(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		var body reservationCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := reservations.CreateInput{
			ProfileID:       profileID,
			InventoryItemID: body.InventoryItemID,
			CustomerUserID:  body.CustomerUserID,
			Quantity:        body.Quantity,
			ExpiryAt:        body.ExpiryAt,
			TTL:             time.Duration(body.TTLMinutes) * time.Minute,
			CreatedByID:     actorID(r),
		}

		reservation, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, reservation)
	}
}

func ReservationGet(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathReservationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := svc.Get(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}

func ReservationList(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		params := reservations.ListParams{ProfileID: profileID}

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

		if raw := strings.TrimSpace(r.URL.Query().Get("customer_id")); raw != "" {
			params.CustomerUserID = &raw
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			value, err := enums.ParseReservationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			params.Status = &value
		}

		items, next, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

// ReservationExpiring lists holds whose expiry falls within the window
// (default 24h), soonest last-created first.
func ReservationExpiring(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		within := 24 * time.Hour
		if raw := strings.TrimSpace(r.URL.Query().Get("within")); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil || parsed <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "within must be a positive duration"))
				return
			}
			within = parsed
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cutoff := time.Now().Add(within)
		items, next, err := svc.List(r.Context(), reservations.ListParams{
			ProfileID:     profileID,
			ExpiresBefore: &cutoff,
			Limit:         limit,
			Cursor:        strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: items, NextCursor: next})
	}
}

type reservationTransition func(ctx context.Context, profileID string, id uuid.UUID) (*models.Reservation, error)

func transitionHandler(logg *logger.Logger, transition reservationTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}
		id, err := pathReservationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reservation, err := transition(r.Context(), profileID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reservation)
	}
}

// ReservationConfirm moves pending -> confirmed.
func ReservationConfirm(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(logg, svc.Confirm)
}

// ReservationActivate checks the customer in; the hold becomes occupied stock.
func ReservationActivate(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(logg, svc.Activate)
}

// ReservationCancel terminates a pending or confirmed hold and releases it.
func ReservationCancel(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return transitionHandler(logg, svc.Cancel)
}
