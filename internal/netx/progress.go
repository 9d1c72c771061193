// Package netx contains transfer helpers shared by the HTTP client.
package netx

import (
	"io"
	"sync"
)

// ProgressFunc receives an integer percentage in [0, 100].
type ProgressFunc func(percent int)

// ProgressCounter converts a running byte count into percentage reports.
// Reports are monotonic and each distinct value is emitted once. A total of
// zero or less means the size is unknown; only the final 100 is reported
// then, by Done.
type ProgressCounter struct {
	mu    sync.Mutex
	total int64
	n     int64
	last  int
	fn    ProgressFunc
}

func NewProgressCounter(total int64, fn ProgressFunc) *ProgressCounter {
	return &ProgressCounter{total: total, last: -1, fn: fn}
}

// Add records n more transferred bytes.
func (c *ProgressCounter) Add(n int64) {
	if c == nil || n <= 0 {
		return
	}

	c.mu.Lock()
	c.n += n
	if c.fn == nil || c.total <= 0 {
		c.mu.Unlock()
		return
	}
	pct := int(c.n * 100 / c.total)
	if pct > 100 {
		pct = 100
	}
	emit := pct > c.last
	if emit {
		c.last = pct
	}
	c.mu.Unlock()

	if emit {
		c.fn(pct)
	}
}

// Done reports 100 unless it was already reported.
func (c *ProgressCounter) Done() {
	if c == nil || c.fn == nil {
		return
	}
	c.mu.Lock()
	emit := c.last < 100
	c.last = 100
	c.mu.Unlock()

	if emit {
		c.fn(100)
	}
}

// Bytes returns the number of bytes counted so far.
func (c *ProgressCounter) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// ProgressReader counts bytes read through it.
type ProgressReader struct {
	r io.Reader
	c *ProgressCounter
}

func NewProgressReader(r io.Reader, c *ProgressCounter) *ProgressReader {
	return &ProgressReader{r: r, c: c}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.c.Add(int64(n))
	return n, err
}

// ProgressWriter counts bytes written through it.
type ProgressWriter struct {
	w io.Writer
	c *ProgressCounter
}

func NewProgressWriter(w io.Writer, c *ProgressCounter) *ProgressWriter {
	return &ProgressWriter{w: w, c: c}
}

func (p *ProgressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.c.Add(int64(n))
	return n, err
}
