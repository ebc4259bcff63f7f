package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// NonBlockingReader provides context-aware line reading.
type NonBlockingReader struct {
	reader      *bufio.Reader
	readingLock sync.Mutex
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}
	return &NonBlockingReader{reader: bufio.NewReader(reader)}
}

// ReadLine reads one trimmed line, returning ErrInputCancelled if ctx ends first.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		// A final line without newline still counts.
		if errors.Is(err, io.EOF) && value != "" {
			err = nil
		}
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// RFMPrompter asks for recency, frequency and monetary values on a terminal.
type RFMPrompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewRFMPrompter creates a prompter reading from r and writing prompts to w.
func NewRFMPrompter(r io.Reader, w io.Writer) *RFMPrompter {
	return &RFMPrompter{reader: NewNonBlockingReader(r), writer: w}
}

// Prompt reads the three RFM values, re-asking on invalid input.
func (p *RFMPrompter) Prompt(ctx context.Context) (recency, frequency, monetary float64, err error) {
	if recency, err = p.number(ctx, "Recency (days since last purchase)"); err != nil {
		return 0, 0, 0, err
	}
	if frequency, err = p.number(ctx, "Frequency (number of purchases)"); err != nil {
		return 0, 0, 0, err
	}
	if monetary, err = p.number(ctx, "Monetary (total spend)"); err != nil {
		return 0, 0, 0, err
	}
	return recency, frequency, monetary, nil
}

func (p *RFMPrompter) number(ctx context.Context, label string) (float64, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
			return 0, err
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return 0, err
		}

		value, parseErr := ParseNonNegative(line)
		if parseErr == nil {
			return value, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatWarning(parseErr.Error())); err != nil {
			return 0, err
		}
	}
}

// ParseNonNegative parses a finite number that is not negative.
func ParseNonNegative(s string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%q must be a non-negative number", s)
	}
	return value, nil
}
