// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package fillbuf

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidCapacity is returned when the initial capacity is not positive.
	ErrInvalidCapacity = errors.New("initial capacity must be positive")
	// ErrNegativeCount is returned when a probe reports a negative element count.
	ErrNegativeCount = errors.New("probe reported a negative element count")
	// ErrCapacityOverflow is returned when doubling the buffer would overflow int.
	ErrCapacityOverflow = errors.New("buffer capacity overflow")
)

// Probe fills a fixed-capacity buffer.
//
// Fill writes into buf and returns how many leading elements are valid.
// Returning len(buf) (or more) means the result may not have fit.
type Probe[T any] interface {
	Fill(buf []T) (int, error)
}

// ProbeFunc adapts an ordinary function to the Probe interface.
type ProbeFunc[T any] func(buf []T) (int, error)

// Fill calls f(buf).
func (f ProbeFunc[T]) Fill(buf []T) (int, error) {
	return f(buf)
}

// Query calls probe against a buffer of initialCapacity elements, each set to
// fill, doubling the capacity until the probe reports fewer elements than the
// buffer holds. The returned slice holds exactly the reported elements and
// carries no spare capacity.
//
// A probe error ends the query immediately and is returned unchanged; no
// partial result is ever returned.
func Query[T any](probe Probe[T], fill T, initialCapacity int) ([]T, error) {
	if initialCapacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, initialCapacity)
	}

	capacity := initialCapacity
	for {
		buf := make([]T, capacity)
		for i := range buf {
			buf[i] = fill
		}

		n, err := probe.Fill(buf)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeCount, n)
		}

		if n < capacity {
			// Copy so the large backing array can be released.
			out := make([]T, n)
			copy(out, buf[:n])
			return out, nil
		}

		// Full buffer: the result may have been truncated.
		if capacity > math.MaxInt/2 {
			return nil, fmt.Errorf("%w: cannot grow past %d elements", ErrCapacityOverflow, capacity)
		}
		capacity *= 2
	}
}

// QueryFunc is Query for a plain probe function.
func QueryFunc[T any](probe func(buf []T) (int, error), fill T, initialCapacity int) ([]T, error) {
	return Query[T](ProbeFunc[T](probe), fill, initialCapacity)
}
