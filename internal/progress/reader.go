package progress

import (
	"io"
	"time"
)

// Reader wraps an io.Reader and feeds every read through a Meter, invoking
// the callback with the resulting report. Used to instrument the file part
// of a streamed multipart upload body.
type Reader struct {
	reader io.Reader
	meter  *Meter
	total  int64
	loaded int64
	onEach Func
	now    func() time.Time
}

// NewReader creates a progress-reporting reader. onEach may be nil.
func NewReader(r io.Reader, total int64, meter *Meter, onEach Func) *Reader {
	return &Reader{
		reader: r,
		meter:  meter,
		total:  total,
		onEach: onEach,
		now:    time.Now,
	}
}

// Read implements io.Reader, reporting after every chunk.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.loaded += int64(n)
		report := r.meter.Observe(r.loaded, r.total, r.now())
		if r.onEach != nil {
			r.onEach(report)
		}
	}
	return n, err
}
