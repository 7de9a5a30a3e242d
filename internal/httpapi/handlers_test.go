package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/model"
)

type fakeMatcher struct {
	results map[string]model.MatchResult
}

func (f *fakeMatcher) Match(_ context.Context, q model.Query) (model.MatchResult, bool, error) {
	res, ok := f.results[q.Website+"|"+q.Name+"|"+q.Phone+"|"+q.Facebook]
	return res, ok, nil
}

func newTestServer(matcher Matcher) *Server {
	logger := zerolog.Nop()
	return New(matcher, 0, &logger)
}

func TestHandleMatchSuccess(t *testing.T) {
	rec := model.MatchResult{Record: model.CompanyRecord{CompanyID: "1", Domain: "acme.com"}, MatchScore: 10}
	s := newTestServer(&fakeMatcher{results: map[string]model.MatchResult{"acme.com|||": rec}})

	body := strings.NewReader(`{"website":"acme.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/match", body)
	rr := httptest.NewRecorder()

	s.handleMatch(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}

	var resp matchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Status != "success" || resp.Match == nil || resp.Match.CompanyID != "1" {
		t.Errorf("resp = %+v, want success match for company 1", resp)
	}
}

func TestHandleMatchEmptyQueryIsBadRequest(t *testing.T) {
	s := newTestServer(&fakeMatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	s.handleMatch(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleMatchNotFound(t *testing.T) {
	s := newTestServer(&fakeMatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/match", strings.NewReader(`{"name":"Zzz","website":"nobody.test"}`))
	rr := httptest.NewRecorder()

	s.handleMatch(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Status != "not_found" {
		t.Errorf("status field = %q, want not_found", resp.Status)
	}
}

func TestHandleBulkMatchRejectsNonListBody(t *testing.T) {
	s := newTestServer(&fakeMatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/bulk-match", strings.NewReader(`{"name":"x"}`))
	rr := httptest.NewRecorder()

	s.handleBulkMatch(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleBulkMatchMixedResults(t *testing.T) {
	rec := model.MatchResult{Record: model.CompanyRecord{CompanyID: "1"}, MatchScore: 10}
	s := newTestServer(&fakeMatcher{results: map[string]model.MatchResult{"acme.com|||": rec}})

	body := `[{"website":"acme.com"},{"name":"Zzz"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/bulk-match", strings.NewReader(body))
	rr := httptest.NewRecorder()

	s.handleBulkMatch(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}

	var resp bulkResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.TotalCount != 2 || resp.MatchCount != 1 {
		t.Errorf("resp = %+v, want total=2 matched=1", resp)
	}

	if resp.Results[1].Match != nil {
		t.Errorf("Results[1].Match = %+v, want nil", resp.Results[1].Match)
	}
}

func TestHandleProcessCSVRejectsMissingFile(t *testing.T) {
	s := newTestServer(&fakeMatcher{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process-csv", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()

	s.handleProcessCSV(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleProcessCSVRejectsNonCSVExtension(t *testing.T) {
	s := newTestServer(&fakeMatcher{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "input.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}

	_, _ = part.Write([]byte("input name,input website,input phone,input_facebook\n"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process-csv", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()

	s.handleProcessCSV(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleProcessCSVSuccess(t *testing.T) {
	rec := model.MatchResult{Record: model.CompanyRecord{CompanyID: "1"}, MatchScore: 10}
	s := newTestServer(&fakeMatcher{results: map[string]model.MatchResult{"acme.com|||": rec}})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "input.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}

	_, _ = part.Write([]byte("input name,input website,input phone,input_facebook\n,acme.com,,\n,nobody.test,,\n"))
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process-csv", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()

	s.handleProcessCSV(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}

	var resp csvResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.TotalCount != 2 || resp.MatchedCount != 1 || resp.MatchRate != "50.00%" {
		t.Errorf("resp = %+v, want total=2 matched=1 rate=50.00%%", resp)
	}
}
