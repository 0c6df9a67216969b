package utils

import (
	"log/slog"
	"sync"
)

const DEFAULT_BATCH_SIZE = 25

// BatchBuffer collects items until a caller drains it. It is safe for
// concurrent use.
type BatchBuffer[T any] struct {
	buffer     []T
	capacity   int
	bufferLock sync.Mutex
}

// NewBatchBuffer returns a buffer that reports Full once it holds capacity
// items. A non-positive capacity falls back to DEFAULT_BATCH_SIZE.
func NewBatchBuffer[T any](capacity int) *BatchBuffer[T] {
	if capacity <= 0 {
		capacity = DEFAULT_BATCH_SIZE
	}
	return &BatchBuffer[T]{
		buffer:   make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Add appends item and reports whether the buffer has reached capacity.
func (b *BatchBuffer[T]) Add(item T) bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
	return len(b.buffer) >= b.capacity
}

func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.capacity)
	return batch
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) HasData() bool {
	return b.Size() > 0
}

// Requeue puts a batch that failed to flush back in front of anything added
// since it was drained.
func (b *BatchBuffer[T]) Requeue(items []T) {
	if len(items) == 0 {
		return
	}
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(append(make([]T, 0, len(items)+len(b.buffer)), items...), b.buffer...)
	slog.Debug("[BatchBuffer] Requeued batch",
		slog.Int("requeued", len(items)),
		slog.Int("batch_size", len(b.buffer)))
}
