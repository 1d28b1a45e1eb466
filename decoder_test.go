package regclient

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader hands out at most size bytes per Read, simulating how the
// network fragments a response body at arbitrary byte boundaries.
type chunkReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.size
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

// failReader returns its data, then a non-EOF error.
type failReader struct {
	data []byte
	err  error
	pos  int
}

func (r *failReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, r.err
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// drainLines reads every line until io.EOF.
func drainLines(t *testing.T, d *LineDecoder) []string {
	t.Helper()
	var lines []string
	for {
		line, err := d.Next()
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestLineDecoder_BasicLines(t *testing.T) {
	input := "first line\nsecond line\nthird line\n"
	d := NewLineDecoder(strings.NewReader(input))

	lines := drainLines(t, d)
	expected := []string{"first line", "second line", "third line"}

	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d: %v", len(expected), len(lines), lines)
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("line %d = %q, want %q", i, line, expected[i])
		}
	}
}

func TestLineDecoder_CRLF(t *testing.T) {
	input := "data: one\r\ndata: two\r\n\r\ndata: three\n"
	d := NewLineDecoder(strings.NewReader(input))

	lines := drainLines(t, d)
	expected := []string{"data: one", "data: two", "", "data: three"}

	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d: %v", len(expected), len(lines), lines)
	}
	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("line %d = %q, want %q", i, line, expected[i])
		}
	}
}

func TestLineDecoder_TrailingFragmentFlushedAtEOF(t *testing.T) {
	input := "complete line\npartial without newline"
	d := NewLineDecoder(strings.NewReader(input))

	lines := drainLines(t, d)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[1] != "partial without newline" {
		t.Errorf("expected trailing fragment to be flushed, got %q", lines[1])
	}

	// EOF is sticky.
	if _, err := d.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after drain, got %v", err)
	}
}

func TestLineDecoder_ChunkBoundaries(t *testing.T) {
	// Korean characters are three bytes each, so small chunk sizes are
	// guaranteed to split runes mid-sequence.
	input := "data: {\"type\":\"token\",\"token\":\"정책 변경 사항은 [1] 입니다.\"}\r\n" +
		"data: {\"type\":\"final\"}\n" +
		": keep-alive\n"
	expected := []string{
		`data: {"type":"token","token":"정책 변경 사항은 [1] 입니다."}`,
		`data: {"type":"final"}`,
		": keep-alive",
	}

	for size := 1; size <= 9; size++ {
		d := NewLineDecoder(&chunkReader{data: []byte(input), size: size})
		lines := drainLines(t, d)

		if len(lines) != len(expected) {
			t.Fatalf("chunk size %d: expected %d lines, got %d: %v", size, len(expected), len(lines), lines)
		}
		for i, line := range lines {
			if line != expected[i] {
				t.Errorf("chunk size %d: line %d = %q, want %q", size, i, line, expected[i])
			}
		}
	}
}

func TestLineDecoder_EmptyStream(t *testing.T) {
	d := NewLineDecoder(strings.NewReader(""))
	if _, err := d.Next(); err != io.EOF {
		t.Errorf("expected io.EOF on empty stream, got %v", err)
	}
}

func TestLineDecoder_ReadError(t *testing.T) {
	readErr := errors.New("connection reset")
	d := NewLineDecoder(&failReader{data: []byte("whole line\npartial"), err: readErr})

	line, err := d.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if line != "whole line" {
		t.Errorf("expected buffered line before failure, got %q", line)
	}

	// The partial fragment before the failure is discarded.
	if _, err := d.Next(); !errors.Is(err, readErr) {
		t.Errorf("expected read error to surface, got %v", err)
	}
}

func TestLineDecoder_LongLine(t *testing.T) {
	// Longer than the 4KB read buffer, so the carry buffer has to grow.
	long := strings.Repeat("x", 20000)
	d := NewLineDecoder(strings.NewReader(long + "\nshort\n"))

	lines := drainLines(t, d)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != long {
		t.Errorf("long line corrupted: got %d bytes, want %d", len(lines[0]), len(long))
	}
	if lines[1] != "short" {
		t.Errorf("line after long line = %q, want %q", lines[1], "short")
	}
}
