package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ubongpr7/akwa-inventory/api/responses"
	"github.com/ubongpr7/akwa-inventory/api/validators"
	"github.com/ubongpr7/akwa-inventory/internal/analytics"
	"github.com/ubongpr7/akwa-inventory/pkg/enums"
	pkgerrors "github.com/ubongpr7/akwa-inventory/pkg/errors"
	"github.com/ubongpr7/akwa-inventory/pkg/logger"
)

// AnalyticsRecord upserts externally computed metrics for one period.
func AnalyticsRecord(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := requireProfile(r, logg, w)
		if !ok {
			return
		}

		var input analytics.RecordInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ProfileID = profileID
		input.CreatedByID = actorID(r)

		snapshot, err := svc.Record(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

func AnalyticsList(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
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

		period := enums.PeriodTypeDaily
		if raw := strings.TrimSpace(r.URL.Query().Get("period")); raw != "" {
			period, err = enums.ParsePeriodType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid period"))
				return
			}
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshots, err := svc.List(r.Context(), analytics.ListParams{
			ProfileID:       profileID,
			InventoryItemID: id,
			PeriodType:      period,
			Limit:           limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{Items: snapshots})
	}
}

// AnalyticsCapture snapshots the item's current counters into a utilization
// reading for today (or the supplied date).
func AnalyticsCapture(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
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

		period := strings.TrimSpace(r.URL.Query().Get("period"))
		if period == "" {
			period = string(enums.PeriodTypeDaily)
		}

		date := time.Now().UTC()
		if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD"))
				return
			}
			date = parsed
		}

		snapshot, err := svc.CaptureUtilization(r.Context(), profileID, id, date, period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
