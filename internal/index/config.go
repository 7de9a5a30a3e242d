package index

import "fmt"

const (
	// IndexName is the single Elasticsearch index this service reads and writes.
	IndexName = "company_profiles"

	defaultBulkChunk = 100
	defaultHost      = "localhost"
	defaultPort      = 9200
)

// Config configures the Elasticsearch connection.
type Config struct {
	Host     string `env:"ELASTICSEARCH_HOST" envDefault:"localhost"`
	Port     int    `env:"ELASTICSEARCH_PORT" envDefault:"9200"`
	Username string `env:"ELASTICSEARCH_USERNAME"`
	Password string `env:"ELASTICSEARCH_PASSWORD"`
}

func (c Config) address() string {
	host := c.Host
	if host == "" {
		host = defaultHost
	}

	port := c.Port
	if port == 0 {
		port = defaultPort
	}

	return fmt.Sprintf("http://%s:%d", host, port)
}
