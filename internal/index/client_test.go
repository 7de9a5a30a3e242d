package index

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/model"
)

// fakeTransport serves canned responses keyed by HTTP method + path, enough
// to exercise Store without a live Elasticsearch cluster.
type fakeTransport struct {
	t *testing.T

	indexExists bool
	bulkItems   []map[string]any
	searchHits  []map[string]any
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	switch {
	case req.Method == http.MethodHead && req.URL.Path == "/"+IndexName:
		status := http.StatusNotFound
		if f.indexExists {
			status = http.StatusOK
		}

		return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"X-Elastic-Product": []string{"Elasticsearch"}}}, nil

	case req.Method == http.MethodDelete && req.URL.Path == "/"+IndexName:
		return jsonResponse(http.StatusOK, map[string]any{"acknowledged": true})

	case req.Method == http.MethodPut && req.URL.Path == "/"+IndexName:
		return jsonResponse(http.StatusOK, map[string]any{"acknowledged": true})

	case req.Method == http.MethodPost && req.URL.Path == "/_bulk":
		return jsonResponse(http.StatusOK, map[string]any{"items": f.bulkItems})

	case req.Method == http.MethodPost && req.URL.Path == "/"+IndexName+"/_search":
		return jsonResponse(http.StatusOK, map[string]any{
			"hits": map[string]any{"hits": f.searchHits},
		})

	case req.Method == http.MethodGet && req.URL.Path == "/"+IndexName+"/_count":
		return jsonResponse(http.StatusOK, map[string]any{"count": len(f.searchHits)})

	default:
		f.t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)

		return nil, nil
	}
}

func jsonResponse(status int, body map[string]any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(encoded)),
		Header: http.Header{
			"Content-Type":      []string{"application/json"},
			"X-Elastic-Product": []string{"Elasticsearch"},
		},
	}, nil
}

func newTestStore(t *testing.T, transport *fakeTransport) *Store {
	t.Helper()

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: transport,
	})
	if err != nil {
		t.Fatalf("elasticsearch.NewClient() error = %v", err)
	}

	logger := zerolog.Nop()

	return &Store{es: client, logger: &logger}
}

func TestCreateOrReplaceDeletesExistingIndex(t *testing.T) {
	transport := &fakeTransport{t: t, indexExists: true}
	store := newTestStore(t, transport)

	if err := store.CreateOrReplace(t.Context()); err != nil {
		t.Fatalf("CreateOrReplace() error = %v", err)
	}
}

func TestCreateOrReplaceWhenAbsent(t *testing.T) {
	transport := &fakeTransport{t: t, indexExists: false}
	store := newTestStore(t, transport)

	if err := store.CreateOrReplace(t.Context()); err != nil {
		t.Fatalf("CreateOrReplace() error = %v", err)
	}
}

func TestBulkLoadCountsSuccessesAndSkipsErrors(t *testing.T) {
	transport := &fakeTransport{
		t: t,
		bulkItems: []map[string]any{
			{"index": map[string]any{"_id": "0", "status": 201}},
			{"index": map[string]any{"_id": "1", "status": 400, "error": map[string]any{"type": "mapper_parsing_exception"}}},
		},
	}
	store := newTestStore(t, transport)

	records := []model.CompanyRecord{
		{CompanyID: "0", Domain: "acme.com"},
		{CompanyID: "1", Domain: "bad.com"},
	}

	n, err := store.BulkLoad(t.Context(), records)
	if err != nil {
		t.Fatalf("BulkLoad() error = %v", err)
	}

	if n != 1 {
		t.Errorf("BulkLoad() successCount = %d, want 1", n)
	}
}

func TestBulkLoadAllFailuresReturnsErrNoDocumentsIndexed(t *testing.T) {
	transport := &fakeTransport{
		t: t,
		bulkItems: []map[string]any{
			{"index": map[string]any{"_id": "0", "status": 400, "error": map[string]any{"type": "mapper_parsing_exception"}}},
		},
	}
	store := newTestStore(t, transport)

	_, err := store.BulkLoad(t.Context(), []model.CompanyRecord{{CompanyID: "0"}})
	if err != ErrNoDocumentsIndexed {
		t.Fatalf("BulkLoad() error = %v, want ErrNoDocumentsIndexed", err)
	}
}

func TestTermQueryDecodesHits(t *testing.T) {
	transport := &fakeTransport{
		t: t,
		searchHits: []map[string]any{
			{"_score": 1.0, "_source": map[string]any{"company_id": "0", "domain": "acme.com"}},
		},
	}
	store := newTestStore(t, transport)

	hits, err := store.TermQuery(t.Context(), "domain", "acme.com", 5)
	if err != nil {
		t.Fatalf("TermQuery() error = %v", err)
	}

	if len(hits) != 1 || hits[0].Record.CompanyID != "0" {
		t.Fatalf("TermQuery() hits = %+v", hits)
	}
}

func TestCountReadsTotal(t *testing.T) {
	transport := &fakeTransport{t: t, searchHits: []map[string]any{{}, {}}}
	store := newTestStore(t, transport)

	count, err := store.Count(t.Context())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}

	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}
