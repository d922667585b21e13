package scraper

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Browser fetches fully rendered page HTML through headless Chrome. Used as
// a fallback for JS-heavy sites where the static fetch yields almost no text.
type Browser struct {
	logger          *zap.Logger
	timeout         time.Duration
	chromedpOptions []chromedp.ExecAllocatorOption
}

func NewBrowser(logger *zap.Logger, timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Browser{
		logger:  logger,
		timeout: timeout,
		chromedpOptions: append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.Headless,
			chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			chromedp.Flag("accept-language", "en-US,en;q=0.9"),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("disable-extensions", ""),
		),
	}
}

// FetchHTML navigates to the URL and returns the rendered document.
func (b *Browser) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.chromedpOptions...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(taskCtx, b.timeout)
	defer timeoutCancel()

	b.logger.Debug("fetching rendered page", zap.String("url", pageURL))

	var rendered string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body"),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		return "", err
	}
	return rendered, nil
}
