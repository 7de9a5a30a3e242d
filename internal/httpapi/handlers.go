package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/corpfinder/corpfinder/internal/dataset"
)

const maxUploadBytes = 32 << 20 // 32MiB, matching typical multipart form defaults

// handleMatch implements POST /api/match.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	query := req.toQuery()
	if query.Empty() {
		writeError(w, http.StatusBadRequest, "at least one of name, website, phone, facebook is required")
		return
	}

	result, found, err := s.matcher.Match(r.Context(), query)
	if err != nil {
		s.logger.Warn().Err(err).Msg("match request failed")
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Status: "not_found"})
		return
	}

	doc := toDocument(result)
	writeJSON(w, http.StatusOK, matchResponse{Status: "success", Match: &doc})
}

// handleBulkMatch implements POST /api/bulk-match.
func (s *Server) handleBulkMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var reqs []matchRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON list")
		return
	}

	results, matchCount, err := s.matchAll(r.Context(), reqs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("bulk match request failed")
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, bulkResponse{
		Status:     "success",
		MatchCount: matchCount,
		TotalCount: len(reqs),
		Results:    results,
	})
}

// handleProcessCSV implements POST /api/process-csv.
func (s *Server) handleProcessCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if !hasCSVExtension(header.Filename) {
		writeError(w, http.StatusBadRequest, "file must be a .csv")
		return
	}

	tmpPath, err := spoolToTemp(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to buffer upload")
		return
	}
	defer os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup on every exit path

	rows, err := dataset.LoadAPIInputRows(tmpPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to parse CSV: %v", err))
		return
	}

	reqs := make([]matchRequest, len(rows))
	for i, row := range rows {
		reqs[i] = matchRequest{Name: row.Name, Website: row.Website, Phone: row.Phone, Facebook: row.Facebook}
	}

	results, matchCount, err := s.matchAll(r.Context(), reqs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("process-csv request failed")
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, csvResponse{
		Status:       "success",
		MatchRate:    matchRate(matchCount, len(reqs)),
		MatchedCount: matchCount,
		TotalCount:   len(reqs),
		Results:      results,
	})
}

// matchAll runs the matcher over every request, preserving input order.
func (s *Server) matchAll(ctx context.Context, reqs []matchRequest) ([]bulkResultEntry, int, error) {
	results := make([]bulkResultEntry, len(reqs))
	matchCount := 0

	for i, req := range reqs {
		entry := bulkResultEntry{Input: req}

		if !req.toQuery().Empty() {
			result, found, err := s.matcher.Match(ctx, req.toQuery())
			if err != nil {
				return nil, 0, err
			}

			if found {
				doc := toDocument(result)
				entry.Match = &doc
				matchCount++
			}
		}

		results[i] = entry
	}

	return results, matchCount, nil
}

func matchRate(matched, total int) string {
	if total == 0 {
		return "0.00%"
	}

	return fmt.Sprintf("%.2f%%", 100*float64(matched)/float64(total))
}

func hasCSVExtension(filename string) bool {
	n := len(filename)
	return n >= 4 && filename[n-4:] == ".csv"
}

// spoolToTemp copies an uploaded multipart file to disk so dataset.LoadAPIInputRows
// (which reads by path) can parse it; the caller is responsible for removing
// the returned path on every exit path.
func spoolToTemp(src io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "process-csv-*.csv")
	if err != nil {
		return "", fmt.Errorf("httpapi: create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name()) //nolint:errcheck // best-effort cleanup on the error path
		return "", fmt.Errorf("httpapi: spool upload: %w", err)
	}

	return tmp.Name(), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // best-effort encode
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}
