// Package match implements the field-weighted, multi-signal scorer: given a
// query carrying any subset of {name, website, phone, facebook}, it gathers
// candidate company records through independent index probes, sums each
// candidate's additive score across probes, and returns the single
// highest-scoring record.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/corpfinder/corpfinder/internal/index"
	"github.com/corpfinder/corpfinder/internal/model"
	"github.com/corpfinder/corpfinder/internal/normalize"
)

// ErrStoreUnavailable is returned when the matcher was constructed without
// a working index store, e.g. because index setup failed at startup.
var ErrStoreUnavailable = errors.New("match: index store unavailable")

const (
	domainProbeSize   = 5
	phoneProbeSize    = 5
	facebookProbeSize = 5
	nameProbeSize     = 10
	fallbackSize      = 10

	domainScore   = 10.0
	phoneScore    = 8.0
	facebookScore = 6.0
	nameScoreMax  = 5.0
)

// Store is the subset of index.Store the matcher depends on, so tests can
// substitute a fake without a live Elasticsearch cluster.
type Store interface {
	TermQuery(ctx context.Context, field, value string, size int) ([]index.Hit, error)
	MatchQuery(ctx context.Context, field, value string, size int) ([]index.Hit, error)
	FuzzyBoolShould(ctx context.Context, fields []string, value string, size int) ([]index.Hit, error)
	FuzzyMultiMatch(ctx context.Context, fieldsWithBoosts []string, value string, size int) ([]index.Hit, error)
}

// Matcher scores candidate records against a query and picks the best one.
// It holds no mutable state beyond a handle to the index.
type Matcher struct {
	store Store
}

// New builds a Matcher over store.
func New(store Store) *Matcher {
	return &Matcher{store: store}
}

// contribution is one probe's vote for one candidate, kept in fixed probe
// order so tie-breaking is deterministic.
type contribution struct {
	companyID string
	record    model.CompanyRecord
	score     float64
}

// Match runs every applicable probe against q, falls back to a combined
// fuzzy multi-match if none of them produced a candidate, and returns the
// record with the highest summed score. It returns false when no probe
// (including the fallback) gathered any evidence at all.
func (m *Matcher) Match(ctx context.Context, q model.Query) (model.MatchResult, bool, error) {
	if m.store == nil {
		return model.MatchResult{}, false, ErrStoreUnavailable
	}

	probeResults, err := m.runProbes(ctx, q)
	if err != nil {
		return model.MatchResult{}, false, err
	}

	all := flatten(probeResults)

	if len(all) == 0 {
		fallback, err := m.fallbackProbe(ctx, q)
		if err != nil {
			return model.MatchResult{}, false, err
		}

		all = fallback
	}

	return selectBest(all)
}

// runProbes runs the four primary probes concurrently but preserves a
// fixed slot per probe (domain, phone, facebook, name) so the merge order
// used for tie-break is deterministic regardless of completion order.
func (m *Matcher) runProbes(ctx context.Context, q model.Query) ([][]contribution, error) {
	results := make([][]contribution, 4)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := m.domainProbe(gctx, q)
		results[0] = c

		return err
	})
	g.Go(func() error {
		c, err := m.phoneProbe(gctx, q)
		results[1] = c

		return err
	})
	g.Go(func() error {
		c, err := m.facebookProbe(gctx, q)
		results[2] = c

		return err
	})
	g.Go(func() error {
		c, err := m.nameProbe(gctx, q)
		results[3] = c

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (m *Matcher) domainProbe(ctx context.Context, q model.Query) ([]contribution, error) {
	if q.Website == "" {
		return nil, nil
	}

	domain := normalize.Domain(q.Website)
	if domain == "" {
		return nil, nil
	}

	hits, err := m.store.TermQuery(ctx, "domain", domain, domainProbeSize)
	if err != nil {
		return nil, fmt.Errorf("match: domain probe: %w", err)
	}

	return contributeFixed(hits, domainScore), nil
}

func (m *Matcher) phoneProbe(ctx context.Context, q model.Query) ([]contribution, error) {
	if q.Phone == "" {
		return nil, nil
	}

	phone := normalize.Phone(q.Phone)
	if phone == "" {
		return nil, nil
	}

	hits, err := m.store.MatchQuery(ctx, "phones_normalized", phone, phoneProbeSize)
	if err != nil {
		return nil, fmt.Errorf("match: phone probe: %w", err)
	}

	return contributeFixed(hits, phoneScore), nil
}

func (m *Matcher) facebookProbe(ctx context.Context, q model.Query) ([]contribution, error) {
	if q.Facebook == "" {
		return nil, nil
	}

	handle := normalize.Facebook(q.Facebook)
	if handle == "" {
		return nil, nil
	}

	hits, err := m.store.MatchQuery(ctx, "facebook_links_normalized", handle, facebookProbeSize)
	if err != nil {
		return nil, fmt.Errorf("match: facebook probe: %w", err)
	}

	return contributeFixed(hits, facebookScore), nil
}

func (m *Matcher) nameProbe(ctx context.Context, q model.Query) ([]contribution, error) {
	if q.Name == "" {
		return nil, nil
	}

	fields := []string{"company_commercial_name", "company_legal_name", "company_all_names"}

	hits, err := m.store.FuzzyBoolShould(ctx, fields, q.Name, nameProbeSize)
	if err != nil {
		return nil, fmt.Errorf("match: name probe: %w", err)
	}

	out := make([]contribution, 0, len(hits))

	for _, hit := range hits {
		s := nameSimilarity(q.Name, hit.Record)
		out = append(out, contribution{
			companyID: hit.Record.CompanyID,
			record:    hit.Record,
			score:     s * nameScoreMax,
		})
	}

	return out, nil
}

// fallbackProbe runs a single boosted fuzzy multi-match across every
// relevant field, invoked only when every primary probe returned zero
// candidates. The query string space-joins whichever input fields are
// present.
func (m *Matcher) fallbackProbe(ctx context.Context, q model.Query) ([]contribution, error) {
	value := fallbackQueryString(q)
	if value == "" {
		return nil, nil
	}

	fields := []string{
		"company_commercial_name^3",
		"company_legal_name^2",
		"company_all_names^1",
		"website",
		"phones",
		"facebook_links",
	}

	hits, err := m.store.FuzzyMultiMatch(ctx, fields, value, fallbackSize)
	if err != nil {
		return nil, fmt.Errorf("match: fallback probe: %w", err)
	}

	out := make([]contribution, 0, len(hits))

	for _, hit := range hits {
		out = append(out, contribution{
			companyID: hit.Record.CompanyID,
			record:    hit.Record,
			score:     hit.Score / 10,
		})
	}

	return out, nil
}

func fallbackQueryString(q model.Query) string {
	var parts []string

	for _, v := range []string{q.Name, q.Website, q.Phone, q.Facebook} {
		if v != "" {
			parts = append(parts, v)
		}
	}

	return strings.Join(parts, " ")
}

func contributeFixed(hits []index.Hit, score float64) []contribution {
	out := make([]contribution, 0, len(hits))

	for _, hit := range hits {
		out = append(out, contribution{companyID: hit.Record.CompanyID, record: hit.Record, score: score})
	}

	return out
}

func flatten(probeResults [][]contribution) []contribution {
	var all []contribution

	for _, probe := range probeResults {
		all = append(all, probe...)
	}

	return all
}

// selectBest sums contributions per company_id, keyed in first-seen order,
// and returns the highest total; ties go to whichever candidate was seen
// first (earlier probe, or earlier hit within a probe).
func selectBest(all []contribution) (model.MatchResult, bool, error) {
	if len(all) == 0 {
		return model.MatchResult{}, false, nil
	}

	type tally struct {
		record model.CompanyRecord
		score  float64
		order  int
	}

	totals := make(map[string]*tally)

	var order []string

	for _, c := range all {
		t, ok := totals[c.companyID]
		if !ok {
			t = &tally{record: c.record, order: len(order)}
			totals[c.companyID] = t

			order = append(order, c.companyID)
		}

		t.score += c.score
	}

	var best *tally

	for _, id := range order {
		t := totals[id]

		if best == nil || t.score > best.score {
			best = t
		}
	}

	return model.MatchResult{Record: best.record, MatchScore: best.score}, true, nil
}
