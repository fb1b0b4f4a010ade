package buffer

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrIteratorDone is returned by Next once the write side is closed and every
// buffered element has been consumed.
var ErrIteratorDone = errors.New("buffer: iterator done")

// BlockBuffer is a fixed-capacity circular FIFO. Add blocks while the buffer
// is full, Next blocks while it is empty.
type BlockBuffer[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond

	buf        []T
	head, tail int64

	closeWrite bool
	closeErr   error
}

// BlockN creates a BlockBuffer holding at most size elements.
func BlockN[T any](size int) *BlockBuffer[T] {
	if size <= 0 {
		size = 1
	}
	bb := &BlockBuffer[T]{buf: make([]T, size)}
	bb.cond = sync.NewCond(&bb.mu)
	return bb
}

// Add appends v, waiting for room if the buffer is full.
func (bb *BlockBuffer[T]) Add(v T) error {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	size := int64(len(bb.buf))
	for {
		if bb.closeErr != nil {
			return fmt.Errorf("buffer: write to closed buffer: %w", bb.closeErr)
		}
		if bb.closeWrite {
			return fmt.Errorf("buffer: write to closed buffer: %w", io.ErrClosedPipe)
		}
		if bb.tail-bb.head < size {
			break
		}
		bb.cond.Wait()
	}
	bb.buf[bb.tail%size] = v
	bb.tail++
	bb.cond.Broadcast()
	return nil
}

// Next removes and returns the oldest element, waiting for one to arrive.
func (bb *BlockBuffer[T]) Next() (v T, err error) {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	for {
		if bb.closeErr != nil {
			return v, fmt.Errorf("buffer: read from closed buffer: %w", bb.closeErr)
		}
		if bb.head != bb.tail {
			break
		}
		if bb.closeWrite {
			return v, ErrIteratorDone
		}
		bb.cond.Wait()
	}
	size := int64(len(bb.buf))
	idx := bb.head % size
	v = bb.buf[idx]
	var zero T
	bb.buf[idx] = zero
	bb.head++
	bb.cond.Broadcast()
	return v, nil
}

// Len reports the number of buffered elements.
func (bb *BlockBuffer[T]) Len() int {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	return int(bb.tail - bb.head)
}

// CloseWrite stops further Adds. Buffered elements stay readable.
func (bb *BlockBuffer[T]) CloseWrite() error {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	if !bb.closeWrite {
		bb.closeWrite = true
		bb.cond.Broadcast()
	}
	return nil
}

// CloseWithError closes both ends. A nil err means io.ErrClosedPipe. Only the
// first error is kept.
func (bb *BlockBuffer[T]) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	bb.mu.Lock()
	defer bb.mu.Unlock()
	if bb.closeErr != nil {
		return nil
	}
	bb.closeErr = err
	bb.closeWrite = true
	bb.cond.Broadcast()
	return nil
}

// Close is CloseWithError(io.ErrClosedPipe).
func (bb *BlockBuffer[T]) Close() error {
	return bb.CloseWithError(io.ErrClosedPipe)
}

// Error returns the error the buffer was closed with, if any.
func (bb *BlockBuffer[T]) Error() error {
	bb.mu.Lock()
	defer bb.mu.Unlock()
	return bb.closeErr
}
