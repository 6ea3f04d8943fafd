package main

import (
	"net/http"
	"strings"

	"github.com/oscarvines/unificacionsistemas/internal/response"
	"github.com/oscarvines/unificacionsistemas/internal/store"
)

type GetRunsResponse = response.APIResponse[[]store.AuditRun]
type GetRunResponse = response.APIResponse[*store.AuditRun]
type GetRunRowsResponse = response.APIResponse[[]store.AuditRowRecord]
type GetCoverageGapsResponse = response.APIResponse[[]store.CoverageGap]
type GetRunSummaryResponse = response.APIResponse[store.RowStatistics]

// @Summary		Get audit run history
// @Description	Get a list of the latest audit runs.
// @Tags			Runs
// @Produce		json
// @Param			limit	query		int						false	"Limit the number of results"	default(10)
// @Success		200		{object}	GetRunsResponse			"Successfully retrieved latest audit runs"
// @Failure		500		{object}	response.ErrorResponse	"Failed to get audit runs"
// @Router			/runs [get]
func (app *application) handleGetLatestRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 10)

	ctx := r.Context()
	data, err := app.store.RunHistory.GetLatest(ctx, limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get audit runs: "+err.Error())
		return
	}

	response := &GetRunsResponse{
		Success: true,
		Data:    data,
		Message: "Successfully retrieved latest audit runs",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	ctx := r.Context()
	run, err := app.store.RunHistory.GetRun(ctx, id)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "failed to get audit run: "+err.Error())
		return
	}

	response := &GetRunResponse{
		Success: true,
		Data:    run,
		Message: "Successfully retrieved audit run",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get reconciled rows of a run
// @Description	Get the per-worker reconciliation rows of one audit run, optionally filtered.
// @Tags			Runs
// @Produce		json
// @Param			id			path		int						true	"Run ID"
// @Param			workers		query		string					false	"Comma-separated worker names"
// @Param			incomplete	query		bool					false	"Only rows with coverage gaps"
// @Success		200			{object}	GetRunRowsResponse		"Successfully retrieved audit rows"
// @Failure		500			{object}	response.ErrorResponse	"Failed to get audit rows"
// @Router			/runs/{id}/rows [get]
func (app *application) handleGetRunRows(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	filter := store.AuditRowFilter{
		IncompleteOnly: r.URL.Query().Get("incomplete") == "true",
	}
	if workers := r.URL.Query().Get("workers"); workers != "" {
		filter.Workers = strings.Split(workers, ",")
	}

	ctx := r.Context()
	rows, err := app.store.AuditRows.GetRowsByRun(ctx, id, filter)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get audit rows: "+err.Error())
		return
	}

	response := &GetRunRowsResponse{
		Success: true,
		Data:    rows,
		Message: "Successfully retrieved audit rows",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleGetCoverageGaps(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	ctx := r.Context()
	gaps, err := app.store.AuditRows.GetCoverageGaps(ctx, id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get coverage gaps: "+err.Error())
		return
	}

	response := &GetCoverageGapsResponse{
		Success: true,
		Data:    gaps,
		Message: "Successfully retrieved coverage gaps",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get run summary statistics
// @Description	Get aggregate statistics over the reconciled rows of one audit run.
// @Tags			Runs
// @Produce		json
// @Param			id	path		int						true	"Run ID"
// @Success		200	{object}	GetRunSummaryResponse	"Successfully retrieved run summary"
// @Failure		500	{object}	response.ErrorResponse	"Failed to get run summary"
// @Router			/runs/{id}/summary [get]
func (app *application) handleGetRunSummary(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	ctx := r.Context()
	stats, err := app.store.AuditRows.GetRunStatistics(ctx, id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get run summary: "+err.Error())
		return
	}

	response := &GetRunSummaryResponse{
		Success: true,
		Data:    stats,
		Message: "Successfully retrieved run summary",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

func (app *application) handleUpdateRunStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	var input struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	switch input.Status {
	case store.StatusRunning, store.StatusSuccess, store.StatusFailure, store.StatusPartial:
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid status value")
		return
	}

	ctx := r.Context()
	run, err := app.store.RunHistory.GetRun(ctx, id)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "failed to get audit run: "+err.Error())
		return
	}

	if err := app.store.RunHistory.UpdateRunStatus(ctx, id, input.Status, run.WorkerCount, run.ConsolidatedCount, input.ErrorMessage); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to update run status: "+err.Error())
		return
	}

	run.Status = input.Status
	run.ErrorMessage = input.ErrorMessage
	response := &GetRunResponse{
		Success: true,
		Data:    run,
		Message: "Run status updated",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
