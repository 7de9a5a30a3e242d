package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxBodySizeBytes = 10 * 1024 * 1024

// httpTier is the lightweight fetch strategy: a plain HTTP GET, tried first
// with a short timeout and then the full timeout, falling back to a
// TLS-verification-disabled client only on certificate errors.
type httpTier struct {
	client       *http.Client
	insecureOnce *http.Client
	timeout      time.Duration
	userAgent    string
}

func newHTTPTier(timeout time.Duration) *httpTier {
	return &httpTier{
		client: &http.Client{
			Timeout: timeout,
		},
		insecureOnce: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		},
		timeout:   timeout,
		userAgent: userAgentHTTP,
	}
}

func (t *httpTier) fetch(ctx context.Context, url string) (string, error) {
	short := shortTimeout(t.timeout)

	body, err := t.do(ctx, t.client, url, short)
	if err == nil {
		return body, nil
	}

	// The server answered with a non-2xx status: that is not a connection
	// or timeout failure, so the full-budget retry does not apply.
	if errors.Is(err, ErrHTTPStatusNotOK) {
		return "", err
	}

	// Short probe hit a connection or timeout failure; retry with the full
	// budget before giving up on the plain client.
	body, err = t.do(ctx, t.client, url, t.timeout)
	if err == nil {
		return body, nil
	}

	if isTLSError(err) {
		return t.do(ctx, t.insecureOnce, url, t.timeout)
	}

	return "", err
}

func (t *httpTier) do(ctx context.Context, client *http.Client, url string, timeout time.Duration) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %d", ErrHTTPStatusNotOK, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySizeBytes))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	return string(raw), nil
}

func isTLSError(err error) bool {
	var (
		unknownAuthErr x509.UnknownAuthorityError
		hostnameErr    x509.HostnameError
		certInvalidErr x509.CertificateInvalidError
	)

	return errors.As(err, &unknownAuthErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &certInvalidErr)
}
