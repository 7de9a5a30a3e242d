package match

import (
	"context"
	"testing"

	"github.com/corpfinder/corpfinder/internal/index"
	"github.com/corpfinder/corpfinder/internal/model"
)

// fakeStore answers each probe with a canned set of hits keyed by field,
// so the matcher can be exercised without a live Elasticsearch cluster.
type fakeStore struct {
	term        map[string][]index.Hit
	match       map[string][]index.Hit
	fuzzyBool   []index.Hit
	fuzzyMulti  []index.Hit
	calledMulti bool
}

func (f *fakeStore) TermQuery(_ context.Context, field, value string, _ int) ([]index.Hit, error) {
	return f.term[field+"="+value], nil
}

func (f *fakeStore) MatchQuery(_ context.Context, field, value string, _ int) ([]index.Hit, error) {
	return f.match[field+"="+value], nil
}

func (f *fakeStore) FuzzyBoolShould(_ context.Context, _ []string, _ string, _ int) ([]index.Hit, error) {
	return f.fuzzyBool, nil
}

func (f *fakeStore) FuzzyMultiMatch(_ context.Context, _ []string, _ string, _ int) ([]index.Hit, error) {
	f.calledMulti = true
	return f.fuzzyMulti, nil
}

func TestMatchByWebsite(t *testing.T) {
	recA := model.CompanyRecord{CompanyID: "1", Domain: "acme.com"}
	store := &fakeStore{term: map[string][]index.Hit{
		"domain=acme.com": {{Record: recA, Score: 9.9}},
	}}

	m := New(store)

	result, found, err := m.Match(context.Background(), model.Query{Website: "https://www.acme.com/about"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if !found {
		t.Fatal("expected a match")
	}

	if result.Record.CompanyID != "1" {
		t.Errorf("CompanyID = %q, want 1", result.Record.CompanyID)
	}

	if result.MatchScore < domainScore {
		t.Errorf("MatchScore = %v, want >= %v", result.MatchScore, domainScore)
	}
}

func TestMatchByPhone(t *testing.T) {
	recB := model.CompanyRecord{CompanyID: "2"}
	store := &fakeStore{match: map[string][]index.Hit{
		"phones_normalized=4155550123": {{Record: recB}},
	}}

	m := New(store)

	result, found, err := m.Match(context.Background(), model.Query{Phone: "+1 (415) 555-0123"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if !found || result.Record.CompanyID != "2" {
		t.Fatalf("result = %+v, found = %v, want CompanyID 2", result, found)
	}

	if result.MatchScore < phoneScore {
		t.Errorf("MatchScore = %v, want >= %v", result.MatchScore, phoneScore)
	}
}

func TestMatchByFacebook(t *testing.T) {
	recE := model.CompanyRecord{CompanyID: "5"}
	store := &fakeStore{match: map[string][]index.Hit{
		"facebook_links_normalized=acmeco": {{Record: recE}},
	}}

	m := New(store)

	result, found, err := m.Match(context.Background(), model.Query{Facebook: "https://www.facebook.com/AcmeCo/"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if !found || result.Record.CompanyID != "5" {
		t.Fatalf("result = %+v, found = %v, want CompanyID 5", result, found)
	}

	if result.MatchScore < facebookScore {
		t.Errorf("MatchScore = %v, want >= %v", result.MatchScore, facebookScore)
	}
}

func TestMatchByNamePicksHigherSimilarity(t *testing.T) {
	recC := model.CompanyRecord{CompanyID: "C", CompanyCommercialName: "Acme Industries", CompanyLegalName: "Acme Industries"}
	recD := model.CompanyRecord{CompanyID: "D", CompanyCommercialName: "Acme Inc.", CompanyLegalName: "Acme Inc."}

	store := &fakeStore{fuzzyBool: []index.Hit{{Record: recC}, {Record: recD}}}

	m := New(store)

	result, found, err := m.Match(context.Background(), model.Query{Name: "Acme Inc"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if !found {
		t.Fatal("expected a match")
	}

	if result.Record.CompanyID != "D" {
		t.Errorf("CompanyID = %q, want D (closer Levenshtein similarity)", result.Record.CompanyID)
	}
}

func TestMatchCombinesMultipleProbes(t *testing.T) {
	recF := model.CompanyRecord{CompanyID: "F", Domain: "acme.com"}

	store := &fakeStore{
		term:  map[string][]index.Hit{"domain=acme.com": {{Record: recF}}},
		match: map[string][]index.Hit{"phones_normalized=4155550123": {{Record: recF}}},
	}

	m := New(store)

	result, found, err := m.Match(context.Background(), model.Query{Website: "acme.com", Phone: "4155550123"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if !found {
		t.Fatal("expected a match")
	}

	if result.MatchScore < domainScore+phoneScore {
		t.Errorf("MatchScore = %v, want >= %v", result.MatchScore, domainScore+phoneScore)
	}
}

func TestMatchFallsBackWhenNoProbeGathersCandidates(t *testing.T) {
	recG := model.CompanyRecord{CompanyID: "G"}
	store := &fakeStore{fuzzyMulti: []index.Hit{{Record: recG, Score: 15}}}

	m := New(store)

	result, found, err := m.Match(context.Background(), model.Query{Name: "Zzz", Website: "nobody.test"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if !store.calledMulti {
		t.Error("expected fallback probe to run when primary probes found nothing")
	}

	if !found || result.Record.CompanyID != "G" {
		t.Fatalf("result = %+v, found = %v, want CompanyID G", result, found)
	}

	if result.MatchScore != 1.5 {
		t.Errorf("MatchScore = %v, want 1.5 (store_score/10)", result.MatchScore)
	}
}

func TestMatchNoFallbackWhenPrimaryProbeHasCandidates(t *testing.T) {
	recA := model.CompanyRecord{CompanyID: "1", Domain: "acme.com"}
	store := &fakeStore{
		term:       map[string][]index.Hit{"domain=acme.com": {{Record: recA}}},
		fuzzyMulti: []index.Hit{{Record: model.CompanyRecord{CompanyID: "unwanted"}, Score: 100}},
	}

	m := New(store)

	result, found, err := m.Match(context.Background(), model.Query{Website: "acme.com"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if store.calledMulti {
		t.Error("fallback probe should not run when a primary probe found candidates")
	}

	if !found || result.Record.CompanyID != "1" {
		t.Fatalf("result = %+v, found = %v, want CompanyID 1", result, found)
	}
}

func TestMatchReturnsNotFoundWhenNothingGathersEvidence(t *testing.T) {
	store := &fakeStore{}

	m := New(store)

	_, found, err := m.Match(context.Background(), model.Query{Name: "Zzz", Website: "nobody.test"})
	if err != nil {
		t.Fatalf("Match returned error: %v", err)
	}

	if found {
		t.Error("expected no match when every probe, including fallback, gathers nothing")
	}
}
