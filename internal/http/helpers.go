package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// currentPeriod returns the current month (0-11) and year, matching the
// client's Date#getMonth indexing.
func currentPeriod() (month, year int) {
	now := time.Now()
	return int(now.Month()) - 1, now.Year()
}

// parseYearMonth extracts the period from query parameters, defaulting to
// the current month. Months are zero-based.
func parseYearMonth(r *http.Request) (month, year int, err error) {
	month, year = currentPeriod()

	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
		month = m
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}

	if month < 0 || month > 11 {
		return 0, 0, fmt.Errorf("month must be between 0 and 11, got %d", month)
	}

	return month, year, nil
}

func periodKey(month, year int) string {
	return fmt.Sprintf("%d-%d", year, month)
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		httpLogger.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
