package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"podclaw/internal/feed"
)

// newProgressFunc returns a feed.ProgressFunc drawing a byte progress bar on
// w. Unknown lengths render as a spinner.
func newProgressFunc(w io.Writer, description string) feed.ProgressFunc {
	return func(total int64) io.WriteCloser {
		return progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSpinnerType(14),
		)
	}
}
