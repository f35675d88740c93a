package utils

import (
	"context"
	"time"
)

type Backoff struct {
	base       time.Duration
	maxRetries int
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, maxRetries: maxRetries}
}

// Do reintenta fn con espera exponencial base*2^i hasta maxRetries veces.
// Se corta antes si ctx termina o fn devuelve un error Permanent.
func (b Backoff) Do(ctx context.Context, fn func(i int) error) error {
	var err error
	for i := 0; i <= b.maxRetries; i++ {
		err = fn(i)
		if err == nil {
			return nil
		}
		if p, ok := err.(permanent); ok {
			return p.err
		}
		if i == b.maxRetries {
			break
		}
		t := time.NewTimer(b.delay(i))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// maxShift y maxDelay acotan base*2^i para que no desborde int64.
const (
	maxShift = 30
	maxDelay = 5 * time.Minute
)

func (b Backoff) delay(i int) time.Duration {
	if i > maxShift {
		i = maxShift
	}
	if b.base <= 0 {
		return 0
	}
	if b.base > maxDelay>>i {
		return maxDelay
	}
	return b.base << i
}

type permanent struct{ err error }

func (p permanent) Error() string { return p.err.Error() }
func (p permanent) Unwrap() error { return p.err }

// Permanent marca un error que no vale la pena reintentar.
func Permanent(err error) error { return permanent{err: err} }
