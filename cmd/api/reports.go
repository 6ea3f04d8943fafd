package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oscarvines/unificacionsistemas/internal/response"
	"github.com/oscarvines/unificacionsistemas/internal/store"
)

type GetConsolidatedResponse = response.APIResponse[[]store.ConsolidatedRecord]

// @Summary		Get consolidated report of a run
// @Description	Get the cross-source consolidated rows produced by one audit run.
// @Tags			Reports
// @Produce		json
// @Param			id	path		int						true	"Run ID"
// @Success		200	{object}	GetConsolidatedResponse	"Successfully retrieved consolidated report"
// @Failure		500	{object}	response.ErrorResponse	"Failed to get consolidated report"
// @Router			/runs/{id}/consolidated [get]
func (app *application) handleGetConsolidatedByRun(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	ctx := r.Context()
	records, err := app.store.Consolidated.GetByRun(ctx, id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get consolidated report: "+err.Error())
		return
	}

	response := &GetConsolidatedResponse{
		Success: true,
		Data:    records,
		Message: "Successfully retrieved consolidated report",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetWorkerConsolidated(w http.ResponseWriter, r *http.Request) {
	unifiedID := chi.URLParam(r, "unifiedID")
	if unifiedID == "" {
		writeJSONError(w, http.StatusBadRequest, "missing unified identifier")
		return
	}
	limit := parseLimit(r, 10)

	ctx := r.Context()
	records, err := app.store.Consolidated.GetByUnifiedID(ctx, unifiedID, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get worker report history: "+err.Error())
		return
	}

	response := &GetConsolidatedResponse{
		Success: true,
		Data:    records,
		Message: "Successfully retrieved worker report history",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
