package match

import (
	"strings"

	"github.com/agext/levenshtein"

	"github.com/corpfinder/corpfinder/internal/model"
)

// nameSimilarity returns the best normalized similarity between queryName
// and the candidate's commercial or legal name: 1 - lev(a, b) / max(|a|,
// |b|), taking the max across the two fields.
func nameSimilarity(queryName string, rec model.CompanyRecord) float64 {
	best := similarity(queryName, rec.CompanyCommercialName)

	if s := similarity(queryName, rec.CompanyLegalName); s > best {
		best = s
	}

	return best
}

func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	maxLen := len([]rune(a))
	if bl := len([]rune(b)); bl > maxLen {
		maxLen = bl
	}

	if maxLen == 0 {
		return 0
	}

	dist := levenshtein.Distance(a, b, nil)

	return 1 - float64(dist)/float64(maxLen)
}
