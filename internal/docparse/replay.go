package docparse

import (
	"bytes"
	"fmt"
	"io"
)

// ReplayBuffer is an in-memory copy of a stream that can be read again from
// the start any number of times.
type ReplayBuffer struct {
	*bytes.Reader
	data []byte
}

// Materialize reads r to the end exactly once. r is not closed.
func Materialize(r io.Reader) (*ReplayBuffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer document: %w", err)
	}
	return &ReplayBuffer{Reader: bytes.NewReader(data), data: data}, nil
}

// Reset rewinds the cursor to offset zero.
func (b *ReplayBuffer) Reset() {
	b.Reader.Reset(b.data)
}

// Bytes returns the buffered document. Callers must not modify it.
func (b *ReplayBuffer) Bytes() []byte {
	return b.data
}
