// Package chunker splits a byte stream into line-aligned chunks of a bounded
// read size so large files can be tokenized without loading them whole.
package chunker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultBudget is the per-read byte budget used when none is configured.
const DefaultBudget = 64 * 1024

// Reader yields chunks that end right after a '\n', except possibly the
// last one, which holds whatever followed the final newline.
//
// Memory is bounded by the budget plus the longest line: a line longer than
// the budget is carried over and grown across reads until its newline or
// EOF shows up. It is never truncated.
//
// A Reader is single pass and not safe for concurrent use.
type Reader struct {
	r      io.Reader
	buf    []byte
	carry  []byte
	budget int
	eof    bool
	err    error
}

// New returns a Reader over r. A budget below 1 is raised to 1.
func New(r io.Reader, budget int) *Reader {
	if budget < 1 {
		budget = 1
	}
	return &Reader{
		r:      r,
		buf:    make([]byte, budget),
		budget: budget,
	}
}

// Next returns the next chunk. It returns io.EOF once the stream and the
// carried remainder are exhausted. Any other read error is returned as is
// and is sticky. The returned slice belongs to the caller.
func (c *Reader) Next() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}

	for !c.eof {
		n, err := c.r.Read(c.buf)
		if n > 0 {
			c.carry = append(c.carry, c.buf[:n]...)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.err = fmt.Errorf("reading chunk: %w", err)
				return nil, c.err
			}
			c.eof = true
		}

		if n == 0 {
			continue
		}

		// only the bytes just read can contain the newline we have not seen yet
		idx := bytes.LastIndexByte(c.buf[:n], '\n')
		if idx < 0 {
			continue
		}
		cut := len(c.carry) - n + idx + 1
		chunk := c.carry[:cut:cut]
		c.carry = append([]byte(nil), c.carry[cut:]...)
		return chunk, nil
	}

	if len(c.carry) > 0 {
		chunk := c.carry
		c.carry = nil
		return chunk, nil
	}
	c.err = io.EOF
	return nil, io.EOF
}

// All drains the reader, calling fn for every chunk in order. A nil error is
// returned when the stream ended cleanly.
func (c *Reader) All(fn func(chunk []byte) error) error {
	for {
		chunk, err := c.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
}
