package fetch

import "time"

const (
	// DefaultTimeout is the per-request budget: the lightweight tier's
	// full-timeout retry and the headless tier's page load each get this
	// much, and the short probe gets min(5s, half of it). One attempt can
	// issue several such requests.
	DefaultTimeout = 20 * time.Second

	// DefaultRetryCount is the number of retries after the first attempt
	// before a target is marked failed.
	DefaultRetryCount = 3

	// httpSuccessThreshold is the minimum body length the lightweight tier
	// must return before the result is trusted over falling back to the
	// headless tier.
	httpSuccessThreshold = 700

	// browserSuccessThreshold is the minimum page-source length the
	// headless tier must return to be considered meaningful.
	browserSuccessThreshold = 1000

	userAgentHTTP    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	userAgentBrowser = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36"

	// DefaultGlobalRPS and DefaultDomainRPS bound how fast the fetcher
	// issues requests overall and per target domain, so a large batch
	// doesn't hammer any one site.
	DefaultGlobalRPS = 5.0
	DefaultDomainRPS = 1.0

	globalLimiterBurst = 5
	domainLimiterBurst = 2
)

// Config controls fetcher behavior, sourced from environment variables by
// the owning command.
type Config struct {
	TimeoutSeconds   int     `env:"FETCH_TIMEOUT_SECONDS" envDefault:"20"`
	RetryCount       int     `env:"FETCH_RETRY_COUNT" envDefault:"3"`
	ChromeBinaryPath string  `env:"CHROME_BINARY_PATH"`
	DisableBrowser   bool    `env:"FETCH_DISABLE_BROWSER" envDefault:"false"`
	GlobalRPS        float64 `env:"FETCH_GLOBAL_RPS" envDefault:"5"`
	DomainRPS        float64 `env:"FETCH_DOMAIN_RPS" envDefault:"1"`
}

func (c Config) globalRPS() float64 {
	if c.GlobalRPS <= 0 {
		return DefaultGlobalRPS
	}

	return c.GlobalRPS
}

func (c Config) domainRPS() float64 {
	if c.DomainRPS <= 0 {
		return DefaultDomainRPS
	}

	return c.DomainRPS
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}

	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) retryCount() int {
	if c.RetryCount < 0 {
		return DefaultRetryCount
	}

	return c.RetryCount
}

func shortTimeout(full time.Duration) time.Duration {
	short := full / 2
	if short > 5*time.Second {
		return 5 * time.Second
	}

	return short
}

func settleDelay(full time.Duration) time.Duration {
	settle := full / 5
	if settle > 2*time.Second {
		return 2 * time.Second
	}

	return settle
}
