package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"hypefunding/internal/funding"
)

// SnapshotPNG renders the chart overview through headless Chrome and
// writes it as a PNG. It is best-effort: callers treat a failure (no
// Chrome installed, say) as a warning, never as a failed run.
func SnapshotPNG(ctx context.Context, path string, records []funding.Record, topN int) error {
	page, err := BuildOverviewPage(records, topN)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := renderPage(page, &buf); err != nil {
		return err
	}
	png, err := renderHTMLToPNG(ctx, buf.Bytes(), overviewWidthPx, 2*overviewHeightPx+80)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0o644)
}

func renderHTMLToPNG(ctx context.Context, html []byte, width, height int) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	parent, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(parent, 20*time.Second)
	defer cancelTimeout()

	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	var screenshot []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(dataURI),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500 * time.Millisecond),
		chromedp.FullScreenshot(&screenshot, 0),
	}
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, err
	}
	return screenshot, nil
}
