package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func parseLimit(r *http.Request, fallback int) int {
	limitParam := r.URL.Query().Get("limit")
	if limitParam == "" {
		return fallback
	}
	if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
		return l
	}
	return fallback
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
