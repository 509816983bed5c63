package writer

import (
	"github.com/ducklens-lab/trendlens/internal/types"
)

// BarWriter defines the destination for downloaded daily bars.
type BarWriter interface {
	// Initialize sets up the writer, creating tables or files as needed.
	Initialize() error
	// Write persists a single daily bar.
	Write(bar types.DailyBar) error
	// Finalize completes the writing process and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
}
