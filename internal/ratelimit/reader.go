package ratelimit

import (
	"context"
	"io"
)

// Reader throttles an io.Reader against a Limiter. Each chunk is charged
// after the read, so short final chunks never over-wait.
type Reader struct {
	ctx     context.Context
	src     io.Reader
	limiter *Limiter
}

// NewReader wraps src so reads consume limiter budget. A nil limiter
// returns src unchanged.
func NewReader(ctx context.Context, src io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return src
	}
	return &Reader{ctx: ctx, src: src, limiter: limiter}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		if waitErr := r.limiter.WaitN(r.ctx, int64(n)); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}
