package httpapi

import "github.com/corpfinder/corpfinder/internal/model"

// matchRequest is the JSON body for /api/match and one element of the
// /api/bulk-match list body.
type matchRequest struct {
	Name     string `json:"name,omitempty"`
	Website  string `json:"website,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Facebook string `json:"facebook,omitempty"`
}

func (r matchRequest) toQuery() model.Query {
	return model.Query{Name: r.Name, Website: r.Website, Phone: r.Phone, Facebook: r.Facebook}
}

// companyDocument is the JSON wire shape of a matched CompanyRecord, field
// names matching the CSV/index schema exactly.
type companyDocument struct {
	CompanyID string `json:"company_id"`

	Website string `json:"website"`
	Domain  string `json:"domain"`

	CompanyCommercialName string `json:"company_commercial_name"`
	CompanyLegalName      string `json:"company_legal_name"`
	CompanyAllNames       string `json:"company_all_names"`

	Phones           []string `json:"phones"`
	PhonesNormalized []string `json:"phones_normalized"`
	Addresses        []string `json:"addresses"`

	FacebookLinks           []string `json:"facebook_links"`
	FacebookLinksNormalized []string `json:"facebook_links_normalized"`
	TwitterLinks            []string `json:"twitter_links"`
	InstagramLinks          []string `json:"instagram_links"`
	LinkedinLinks           []string `json:"linkedin_links"`
	YoutubeLinks            []string `json:"youtube_links"`

	Status string `json:"status"`

	MatchScore float64 `json:"match_score"`
}

func toDocument(res model.MatchResult) companyDocument {
	r := res.Record

	return companyDocument{
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
		MatchScore:              res.MatchScore,
	}
}

type matchResponse struct {
	Status string           `json:"status"`
	Match  *companyDocument `json:"match"`
}

type bulkResultEntry struct {
	Input matchRequest     `json:"input"`
	Match *companyDocument `json:"match"`
}

type bulkResponse struct {
	Status     string            `json:"status"`
	MatchCount int               `json:"match_count"`
	TotalCount int               `json:"total_count"`
	Results    []bulkResultEntry `json:"results"`
}

type csvResponse struct {
	Status       string            `json:"status"`
	MatchRate    string            `json:"match_rate"`
	MatchedCount int               `json:"matched_count"`
	TotalCount   int               `json:"total_count"`
	Results      []bulkResultEntry `json:"results"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
