package dataset

import (
	"strconv"
	"strings"

	"github.com/corpfinder/corpfinder/internal/model"
	"github.com/corpfinder/corpfinder/internal/normalize"
)

// Merge left-joins scraped rows onto the name table by domain, fills
// missing names with the domain itself, and emits one CompanyRecord per
// scraped row with company_id set to its row ordinal.
func Merge(scraped []model.ScrapedRow, names []model.NameRow) []model.CompanyRecord {
	byDomain := make(map[string]model.NameRow, len(names))

	for _, n := range names {
		byDomain[strings.ToLower(strings.TrimSpace(n.Domain))] = n
	}

	records := make([]model.CompanyRecord, 0, len(scraped))

	for i, row := range scraped {
		domain := strings.ToLower(strings.TrimSpace(row.Domain))

		name, hasName := byDomain[domain]

		commercial := name.CompanyCommercialName
		legal := name.CompanyLegalName
		allNames := name.CompanyAllAvailableNames

		if !hasName || commercial == "" {
			commercial = domain
			legal = domain
		}

		if legal == "" {
			legal = commercial
		}

		if allNames == "" {
			allNames = commercial
		}

		records = append(records, model.CompanyRecord{
			CompanyID:               strconv.Itoa(i),
			Website:                 row.Website,
			Domain:                  domain,
			CompanyCommercialName:   commercial,
			CompanyLegalName:        legal,
			CompanyAllNames:         allNames,
			Phones:                  row.Phones,
			PhonesNormalized:        normalizeAll(row.Phones, normalize.Phone),
			Addresses:               row.Addresses,
			FacebookLinks:           row.FacebookLinks,
			FacebookLinksNormalized: normalizeAll(row.FacebookLinks, normalize.Facebook),
			TwitterLinks:            row.TwitterLinks,
			InstagramLinks:          row.InstagramLinks,
			LinkedinLinks:           row.LinkedinLinks,
			YoutubeLinks:            row.YoutubeLinks,
			Status:                  string(row.Status),
		})
	}

	return records
}

func normalizeAll(values []string, fn func(string) string) []string {
	if len(values) == 0 {
		return nil
	}

	out := make([]string, 0, len(values))

	for _, v := range values {
		if n := fn(v); n != "" {
			out = append(out, n)
		}
	}

	return out
}
