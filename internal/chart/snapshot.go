package chart

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrNoBrowser is returned by Snapshot when no headless Chrome can be started.
var ErrNoBrowser = errors.New("headless browser unavailable")

const (
	snapshotTimeout = 20 * time.Second
	// chartSelector matches the element go-echarts sizes from the
	// initialization options; the echarts canvas is drawn inside it.
	chartSelector = "div.item"
	// echarts animates series in; capture after the entry animation.
	settleDelay = 400 * time.Millisecond
)

// snapshotPNG loads a rendered chart page and captures only the chart
// element, so the image has the chart's own size rather than the page's.
func snapshotPNG(ctx context.Context, page []byte, size Size) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	browser, cancel := chromedp.NewContext(ctx)
	defer cancel()
	if err := chromedp.Run(browser); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoBrowser, err)
	}
	runCtx, cancelRun := context.WithTimeout(browser, snapshotTimeout)
	defer cancelRun()

	var png []byte
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(int64(size.Width), int64(size.Height)),
		chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString(page)),
		chromedp.WaitVisible(chartSelector+" canvas", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.Screenshot(chartSelector, &png, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot %dx%d chart: %w", size.Width, size.Height, err)
	}
	return png, nil
}
