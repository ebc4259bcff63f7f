package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonBlockingReader_ReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "42\n", want: "42"},
		{name: "whitespace", input: "  12.5  \n", want: "12.5"},
		{name: "empty line", input: "\n", want: ""},
		{name: "no trailing newline", input: "7", want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNonBlockingReader(strings.NewReader(tt.input)).ReadLine(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNonBlockingReader_Cancellation(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	defer func() { _ = pw.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewNonBlockingReader(pr).ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestRFMPrompter(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("abc\n-3\n30\n4\n1250.75\n")

	recency, frequency, monetary, err := NewRFMPrompter(in, &out).Prompt(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 30, recency, 1e-9)
	assert.InDelta(t, 4, frequency, 1e-9)
	assert.InDelta(t, 1250.75, monetary, 1e-9)
	assert.Contains(t, out.String(), "is not a number")
	assert.Contains(t, out.String(), "must be a non-negative number")
}

func TestRFMPrompter_EOF(t *testing.T) {
	var out bytes.Buffer
	_, _, _, err := NewRFMPrompter(strings.NewReader("10\n"), &out).Prompt(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestParseNonNegative(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: " 3.5 ", want: 3.5},
		{in: "-1", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNonNegative(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}
