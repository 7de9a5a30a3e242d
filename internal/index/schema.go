package index

// mapping is the Elasticsearch index definition for company profile
// documents: keyword-exact fields for normalized lookup keys, analyzed text
// fields (with a lowercase+ASCII-folding analyzer) for fuzzy name matching.
const mapping = `{
	"mappings": {
		"properties": {
			"company_id": {"type": "keyword"},
			"website": {"type": "keyword"},
			"domain": {"type": "keyword"},
			"company_commercial_name": {
				"type": "text",
				"analyzer": "company_name_analyzer",
				"fields": {
					"keyword": {"type": "keyword"}
				}
			},
			"company_legal_name": {
				"type": "text",
				"analyzer": "company_name_analyzer",
				"fields": {
					"keyword": {"type": "keyword"}
				}
			},
			"company_all_names": {
				"type": "text",
				"analyzer": "company_name_analyzer",
				"fields": {
					"keyword": {"type": "keyword"}
				}
			},
			"phones": {"type": "keyword"},
			"phones_normalized": {"type": "keyword"},
			"addresses": {"type": "text"},
			"facebook_links": {"type": "keyword"},
			"facebook_links_normalized": {"type": "keyword"},
			"twitter_links": {"type": "keyword"},
			"instagram_links": {"type": "keyword"},
			"linkedin_links": {"type": "keyword"},
			"youtube_links": {"type": "keyword"},
			"status": {"type": "keyword"}
		}
	},
	"settings": {
		"analysis": {
			"analyzer": {
				"company_name_analyzer": {
					"type": "custom",
					"tokenizer": "standard",
					"filter": ["lowercase", "asciifolding"]
				}
			}
		}
	}
}`

// document is the wire shape of one indexed company profile, mirroring the
// mapping above field for field.
type document struct {
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
}
