package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

// progressBar renders transfer progress on a single terminal line, e.g.
// "Uploading a.txt  42% (1.3 MB / 3.1 MB)". With an unknown total only the
// percentage is shown.
type progressBar struct {
	w     io.Writer
	label string
	total int64

	mu   sync.Mutex
	last int
}

func newProgressBar(w io.Writer, label string, total int64) *progressBar {
	return &progressBar{w: w, label: label, total: total, last: -1}
}

func (p *progressBar) report(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if percent == p.last {
		return
	}
	p.last = percent

	if p.total > 0 {
		done := p.total * int64(percent) / 100
		fmt.Fprintf(p.w, "\r%s %3d%% (%s / %s)", p.label, percent,
			humanize.Bytes(uint64(done)), humanize.Bytes(uint64(p.total)))
		return
	}
	fmt.Fprintf(p.w, "\r%s %3d%%", p.label, percent)
}

// finish ends the progress line if anything was drawn.
func (p *progressBar) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last >= 0 {
		fmt.Fprintln(p.w)
	}
}
