package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/corpfinder/corpfinder/internal/model"
)

// LoadTargets reads sample-websites.csv: a single "domain" column (one
// website URL per row), header required.
func LoadTargets(path string) ([]model.Target, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(rows[0])

	col, ok := idx["domain"]
	if !ok {
		return nil, fmt.Errorf("%s: missing required column %q", path, "domain")
	}

	targets := make([]model.Target, 0, len(rows)-1)

	for _, row := range rows[1:] {
		url := strings.TrimSpace(field(row, col))
		if url == "" {
			continue
		}

		targets = append(targets, model.Target{URL: url})
	}

	return targets, nil
}

// LoadNameRows reads sample-websites-company-names.csv.
func LoadNameRows(path string) ([]model.NameRow, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(rows[0])

	var out []model.NameRow

	for _, row := range rows[1:] {
		out = append(out, model.NameRow{
			Domain:                   strings.ToLower(strings.TrimSpace(field(row, colOf(idx, "domain")))),
			CompanyCommercialName:    field(row, colOf(idx, "company_commercial_name")),
			CompanyLegalName:         field(row, colOf(idx, "company_legal_name")),
			CompanyAllAvailableNames: field(row, colOf(idx, "company_all_available_names")),
		})
	}

	return out, nil
}

// APIInputRow is one row of API-input-sample.csv.
type APIInputRow struct {
	Name     string
	Website  string
	Phone    string
	Facebook string
}

// LoadAPIInputRows reads API-input-sample.csv.
func LoadAPIInputRows(path string) ([]APIInputRow, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(rows[0])

	out := make([]APIInputRow, 0, len(rows)-1)

	for _, row := range rows[1:] {
		out = append(out, APIInputRow{
			Name:     field(row, colOf(idx, "input name")),
			Website:  field(row, colOf(idx, "input website")),
			Phone:    field(row, colOf(idx, "input phone")),
			Facebook: field(row, colOf(idx, "input_facebook")),
		})
	}

	return out, nil
}

var scrapedColumns = []string{
	"website", "domain", "status",
	"phones", "addresses",
	"facebook_links", "twitter_links", "instagram_links", "linkedin_links", "youtube_links",
	"retries", "error",
}

// WriteScrapedRows writes scraped_company_data.csv: one row per website
// with list fields rendered in list-literal syntax.
func WriteScrapedRows(path string, rows []model.ScrapedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(scrapedColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Website,
			row.Domain,
			string(row.Status),
			formatList(row.Phones),
			formatList(row.Addresses),
			formatList(row.FacebookLinks),
			formatList(row.TwitterLinks),
			formatList(row.InstagramLinks),
			formatList(row.LinkedinLinks),
			formatList(row.YoutubeLinks),
			strconv.Itoa(row.Retries),
			row.Error,
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}

// ReadScrapedRows reads back a file written by WriteScrapedRows.
func ReadScrapedRows(path string) ([]model.ScrapedRow, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	idx := headerIndex(rows[0])

	out := make([]model.ScrapedRow, 0, len(rows)-1)

	for _, row := range rows[1:] {
		retries, _ := strconv.Atoi(field(row, colOf(idx, "retries")))

		out = append(out, model.ScrapedRow{
			Website:        field(row, colOf(idx, "website")),
			Domain:         field(row, colOf(idx, "domain")),
			Status:         model.Status(field(row, colOf(idx, "status"))),
			Phones:         ParseList(field(row, colOf(idx, "phones"))),
			Addresses:      ParseList(field(row, colOf(idx, "addresses"))),
			FacebookLinks:  ParseList(field(row, colOf(idx, "facebook_links"))),
			TwitterLinks:   ParseList(field(row, colOf(idx, "twitter_links"))),
			InstagramLinks: ParseList(field(row, colOf(idx, "instagram_links"))),
			LinkedinLinks:  ParseList(field(row, colOf(idx, "linkedin_links"))),
			YoutubeLinks:   ParseList(field(row, colOf(idx, "youtube_links"))),
			Retries:        retries,
			Error:          field(row, colOf(idx, "error")),
		})
	}

	return out, nil
}

var mergedColumns = []string{
	"company_id", "website", "domain",
	"company_commercial_name", "company_legal_name", "company_all_names",
	"phones", "phones_normalized", "addresses",
	"facebook_links", "facebook_links_normalized",
	"twitter_links", "instagram_links", "linkedin_links", "youtube_links",
	"status",
}

// WriteCompanyRecords writes merged_company_profiles.csv.
func WriteCompanyRecords(path string, records []model.CompanyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(mergedColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		record := []string{
			rec.CompanyID,
			rec.Website,
			rec.Domain,
			rec.CompanyCommercialName,
			rec.CompanyLegalName,
			rec.CompanyAllNames,
			formatList(rec.Phones),
			formatList(rec.PhonesNormalized),
			formatList(rec.Addresses),
			formatList(rec.FacebookLinks),
			formatList(rec.FacebookLinksNormalized),
			formatList(rec.TwitterLinks),
			formatList(rec.InstagramLinks),
			formatList(rec.LinkedinLinks),
			formatList(rec.YoutubeLinks),
			rec.Status,
		}

		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}

func formatList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	quoted := make([]string, len(items))
	for i, item := range items {
		escaped := strings.ReplaceAll(item, `'`, `\'`)
		quoted[i] = "'" + escaped + "'"
	}

	return "[" + strings.Join(quoted, ", ") + "]"
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))

	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	return idx
}

// colOf returns the column index for name, or -1 if the header didn't
// declare it, so field() falls back to an empty value instead of
// silently reading column 0.
func colOf(idx map[string]int, name string) int {
	if col, ok := idx[name]; ok {
		return col
	}

	return -1
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}

	return row[col]
}
