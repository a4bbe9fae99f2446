package api

import "io"

// countingReader reports upload progress as a percentage while the request
// body streams out. Percentages only move forward and never pass 100.
type countingReader struct {
	r        io.Reader
	total    int64
	sent     int64
	lastPct  int
	progress func(int)
}

func newCountingReader(r io.Reader, total int64, progress func(int)) *countingReader {
	return &countingReader{r: r, total: total, lastPct: -1, progress: progress}
}

// finish reports completion through the same forward-only guard, covering
// bodies the transport consumed without a final full-size read.
func (c *countingReader) finish() {
	if c.lastPct < 100 {
		c.lastPct = 100
		c.progress(100)
	}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.total > 0 {
		c.sent += int64(n)
		pct := int(c.sent * 100 / c.total)
		if pct > 100 {
			pct = 100
		}
		if pct > c.lastPct {
			c.lastPct = pct
			c.progress(pct)
		}
	}
	return n, err
}
