package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// browserTier renders a page in headless Chrome for targets that the
// lightweight tier could not retrieve meaningfully, e.g. JS-rendered SPAs.
type browserTier struct {
	binaryPath string
	timeout    time.Duration
}

func newBrowserTier(binaryPath string, timeout time.Duration) *browserTier {
	return &browserTier{binaryPath: binaryPath, timeout: timeout}
}

func (t *browserTier) available() bool {
	if t.binaryPath == "" {
		return false
	}

	_, err := os.Stat(t.binaryPath)

	return err == nil
}

func (t *browserTier) fetch(ctx context.Context, url string) (string, error) {
	if !t.available() {
		return "", ErrChromeUnavailable
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.ExecPath(t.binaryPath),
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-popup-blocking", false),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(userAgentBrowser),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	runCtx, runCancel := context.WithTimeout(browserCtx, t.timeout)
	defer runCancel()

	var html string

	err := chromedp.Run(runCtx,
		// Navigate via the raw CDP command instead of chromedp.Navigate so
		// the run does not block on the frame's load event; the settle
		// sleep below stands in for "DOM ready plus a beat for late JS".
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, _, _, navErr := page.Navigate(url).Do(ctx)

			return navErr
		}),
		chromedp.Sleep(settleDelay(t.timeout)),
		readOuterHTML(&html),
	)
	if errors.Is(err, context.DeadlineExceeded) && html == "" {
		// Page-load timeout. Whatever DOM exists by now is still worth
		// extracting from, so read it on a fresh short deadline.
		readCtx, readCancel := context.WithTimeout(browserCtx, 3*time.Second)
		defer readCancel()

		err = chromedp.Run(readCtx, readOuterHTML(&html))
	}

	if err != nil && html == "" {
		return "", fmt.Errorf("chrome navigate: %w", err)
	}

	if len(html) < browserSuccessThreshold {
		return html, ErrInsufficientContent
	}

	return html, nil
}

func readOuterHTML(out *string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		root, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}

		html, err := dom.GetOuterHTML().WithNodeID(root.NodeID).Do(ctx)
		if err != nil {
			return err
		}

		*out = html

		return nil
	})
}
