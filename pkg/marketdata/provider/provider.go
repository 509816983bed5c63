package provider

import (
	"context"
	"time"

	"github.com/ducklens-lab/trendlens/pkg/marketdata/writer"
)

// OnDownloadProgress reports download progress as bars land.
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads daily bars for a symbol into a configured writer.
type Provider interface {
	// ConfigWriter sets the destination for downloaded bars.
	ConfigWriter(w writer.BarWriter)
	// Download fetches daily bars for the symbol over the inclusive date
	// range and writes them through the configured writer, returning the
	// writer's output path.
	Download(ctx context.Context, symbol string, start time.Time, end time.Time, onProgress OnDownloadProgress) (string, error)
}
