// Package index wraps an Elasticsearch index of company profile documents:
// schema setup, bulk loading, and the handful of query shapes the matcher
// needs (term, match, fuzzy bool-should, fuzzy multi-match).
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/model"
)

const errBodyReadLimit = 1024

// Hit is one search result: the decoded record plus the score that earned it.
type Hit struct {
	Record model.CompanyRecord
	Score  float64
}

// Store is a handle to the Elasticsearch cluster backing the company index.
type Store struct {
	es     *elasticsearch.Client
	logger *zerolog.Logger
}

// New builds a Store from cfg. It does not verify connectivity; callers that
// need an early failure signal should call CreateOrReplace or Count.
func New(cfg Config, logger *zerolog.Logger) (*Store, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.address()},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("index: new client: %w", err)
	}

	return &Store{es: client, logger: logger}, nil
}

// CreateOrReplace deletes the index if it exists, then creates it fresh with
// the company profile mapping. Idempotent.
func (s *Store) CreateOrReplace(ctx context.Context) error {
	exists, err := s.Exists(ctx)
	if err != nil {
		return err
	}

	if exists {
		delReq := esapi.IndicesDeleteRequest{Index: []string{IndexName}}
		if _, err := s.exec(ctx, delReq); err != nil {
			return fmt.Errorf("index: delete existing index: %w", err)
		}
	}

	createReq := esapi.IndicesCreateRequest{
		Index: IndexName,
		Body:  strings.NewReader(mapping),
	}

	if _, err := s.exec(ctx, createReq); err != nil {
		return fmt.Errorf("index: create index: %w", err)
	}

	return nil
}

// Exists reports whether the index has been created.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	req := esapi.IndicesExistsRequest{Index: []string{IndexName}}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return false, fmt.Errorf("index: exists check: %w", err)
	}
	defer res.Body.Close()

	return !res.IsError(), nil
}

// Refresh makes recently indexed documents searchable.
func (s *Store) Refresh(ctx context.Context) error {
	req := esapi.IndicesRefreshRequest{Index: []string{IndexName}}
	if _, err := s.exec(ctx, req); err != nil {
		return fmt.Errorf("index: refresh: %w", err)
	}

	return nil
}

// Count returns the number of documents currently in the index.
func (s *Store) Count(ctx context.Context) (int, error) {
	req := esapi.CountRequest{Index: []string{IndexName}}

	res, err := s.exec(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	defer res.Body.Close()

	var decoded struct {
		Count int `json:"count"`
	}

	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("index: decode count response: %w", err)
	}

	return decoded.Count, nil
}

// BulkLoad indexes records in chunks, tolerating per-document failures. It
// returns the number of documents that were actually indexed. If the bulk
// transport call itself fails outright, it falls back to indexing documents
// one at a time so a single malformed batch doesn't block the whole set.
func (s *Store) BulkLoad(ctx context.Context, records []model.CompanyRecord) (int, error) {
	successCount := 0

	for start := 0; start < len(records); start += defaultBulkChunk {
		end := start + defaultBulkChunk
		if end > len(records) {
			end = len(records)
		}

		n, err := s.bulkChunk(ctx, records[start:end])
		if err != nil {
			s.logger.Warn().Err(err).Int("chunk_start", start).Msg("bulk chunk failed, indexing individually")

			n = s.indexIndividually(ctx, records[start:end])
		}

		successCount += n
	}

	if successCount == 0 {
		return 0, ErrNoDocumentsIndexed
	}

	return successCount, nil
}

func (s *Store) bulkChunk(ctx context.Context, records []model.CompanyRecord) (int, error) {
	var body bytes.Buffer

	for _, rec := range records {
		meta := map[string]any{"index": map[string]any{"_index": IndexName, "_id": rec.CompanyID}}

		metaLine, err := json.Marshal(meta)
		if err != nil {
			return 0, fmt.Errorf("index: marshal bulk meta: %w", err)
		}

		docLine, err := json.Marshal(recordToDocument(rec))
		if err != nil {
			return 0, fmt.Errorf("index: marshal document %s: %w", rec.CompanyID, err)
		}

		body.Write(metaLine)
		body.WriteByte('\n')
		body.Write(docLine)
		body.WriteByte('\n')
	}

	req := esapi.BulkRequest{Body: bytes.NewReader(body.Bytes())}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return 0, fmt.Errorf("index: bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		errBody, _ := io.ReadAll(io.LimitReader(res.Body, errBodyReadLimit))
		return 0, fmt.Errorf("%w: status %d, body: %s", classifyStatus(res.StatusCode), res.StatusCode, errBody)
	}

	var decoded struct {
		Items []struct {
			Index struct {
				Status int    `json:"status"`
				ID     string `json:"_id"`
				Error  any    `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("index: decode bulk response: %w", err)
	}

	success := 0

	for _, item := range decoded.Items {
		if item.Index.Error != nil {
			s.logger.Warn().Str("document_id", item.Index.ID).Interface("error", item.Index.Error).Msg("bulk document error")
			IncrementDocErrors()

			continue
		}

		success++
	}

	IncrementDocsIndexed(success)

	return success, nil
}

func (s *Store) indexIndividually(ctx context.Context, records []model.CompanyRecord) int {
	success := 0

	for _, rec := range records {
		body, err := json.Marshal(recordToDocument(rec))
		if err != nil {
			s.logger.Warn().Err(err).Str("company_id", rec.CompanyID).Msg("marshal document failed")
			IncrementDocErrors()

			continue
		}

		req := esapi.IndexRequest{Index: IndexName, DocumentID: rec.CompanyID, Body: bytes.NewReader(body)}

		res, err := req.Do(ctx, s.es)
		if err != nil {
			s.logger.Warn().Err(err).Str("company_id", rec.CompanyID).Msg("individual index failed")
			IncrementDocErrors()

			continue
		}

		res.Body.Close()

		if res.IsError() {
			s.logger.Warn().Str("company_id", rec.CompanyID).Str("status", res.Status()).Msg("individual index rejected")
			IncrementDocErrors()

			continue
		}

		success++
	}

	IncrementDocsIndexed(success)

	return success
}

// TermQuery runs an exact-match query on a keyword field, used for the
// domain probe.
func (s *Store) TermQuery(ctx context.Context, field, value string, size int) ([]Hit, error) {
	query := map[string]any{
		"query": map[string]any{
			"term": map[string]any{field: value},
		},
		"size": size,
	}

	return s.search(ctx, query)
}

// MatchQuery runs a match query on a single field, used for the phone and
// facebook probes.
func (s *Store) MatchQuery(ctx context.Context, field, value string, size int) ([]Hit, error) {
	query := map[string]any{
		"query": map[string]any{
			"match": map[string]any{field: value},
		},
		"size": size,
	}

	return s.search(ctx, query)
}

// FuzzyBoolShould runs a fuzzy (fuzziness=AUTO) bool-should match across
// fields, used for the name probe.
func (s *Store) FuzzyBoolShould(ctx context.Context, fields []string, value string, size int) ([]Hit, error) {
	should := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		should = append(should, map[string]any{
			"match": map[string]any{f: map[string]any{"query": value, "fuzziness": "AUTO"}},
		})
	}

	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"should": should},
		},
		"size": size,
	}

	return s.search(ctx, query)
}

// FuzzyMultiMatch runs a fuzzy multi_match across boosted fields, used for
// the fallback probe when every targeted probe yields nothing.
func (s *Store) FuzzyMultiMatch(ctx context.Context, fieldsWithBoosts []string, value string, size int) ([]Hit, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     value,
				"fields":    fieldsWithBoosts,
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}

	return s.search(ctx, query)
}

func (s *Store) search(ctx context.Context, body map[string]any) ([]Hit, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("index: marshal query: %w", err)
	}

	req := esapi.SearchRequest{Index: []string{IndexName}, Body: bytes.NewReader(encoded)}

	res, err := s.exec(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer res.Body.Close()

	var decoded struct {
		Hits struct {
			Hits []struct {
				Score  float64  `json:"_score"`
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("index: decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(decoded.Hits.Hits))
	for _, h := range decoded.Hits.Hits {
		hits = append(hits, Hit{Record: documentToRecord(h.Source), Score: h.Score})
	}

	return hits, nil
}

func (s *Store) exec(ctx context.Context, req esapi.Request) (*esapi.Response, error) {
	res, err := req.Do(ctx, s.es)
	if err != nil {
		return nil, err
	}

	if res.IsError() {
		defer res.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(res.Body, errBodyReadLimit))

		return nil, fmt.Errorf("%w: status %d, body: %s", classifyStatus(res.StatusCode), res.StatusCode, body)
	}

	return res, nil
}

func classifyStatus(statusCode int) error {
	switch {
	case statusCode == 404:
		return ErrIndexNotFound
	case statusCode == 400:
		return ErrBadRequest
	case statusCode >= 500:
		return ErrServerError
	default:
		return ErrServerError
	}
}

func recordToDocument(r model.CompanyRecord) document {
	return document{
		CompanyID:               r.CompanyID,
		Website:                 r.Website,
		Domain:                  r.Domain,
		CompanyCommercialName:   r.CompanyCommercialName,
		CompanyLegalName:        r.CompanyLegalName,
		CompanyAllNames:         r.CompanyAllNames,
		Phones:                  r.Phones,
		PhonesNormalized:        r.PhonesNormalized,
		Addresses:               r.Addresses,
		FacebookLinks:           r.FacebookLinks,
		FacebookLinksNormalized: r.FacebookLinksNormalized,
		TwitterLinks:            r.TwitterLinks,
		InstagramLinks:          r.InstagramLinks,
		LinkedinLinks:           r.LinkedinLinks,
		YoutubeLinks:            r.YoutubeLinks,
		Status:                  r.Status,
	}
}

func documentToRecord(d document) model.CompanyRecord {
	return model.CompanyRecord{
		CompanyID:               d.CompanyID,
		Website:                 d.Website,
		Domain:                  d.Domain,
		CompanyCommercialName:   d.CompanyCommercialName,
		CompanyLegalName:        d.CompanyLegalName,
		CompanyAllNames:         d.CompanyAllNames,
		Phones:                  d.Phones,
		PhonesNormalized:        d.PhonesNormalized,
		Addresses:               d.Addresses,
		FacebookLinks:           d.FacebookLinks,
		FacebookLinksNormalized: d.FacebookLinksNormalized,
		TwitterLinks:            d.TwitterLinks,
		InstagramLinks:          d.InstagramLinks,
		LinkedinLinks:           d.LinkedinLinks,
		YoutubeLinks:            d.YoutubeLinks,
		Status:                  d.Status,
	}
}
