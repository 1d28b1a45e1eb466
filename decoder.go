package regclient

import (
	"bytes"
	"io"
)

// LineDecoder reassembles complete lines from an arbitrarily chunked byte
// stream. HTTP hands the response body to the client in whatever chunk
// sizes the network produced, so a line may arrive split across reads and a
// single read may carry several lines; the decoder buffers the trailing
// fragment until its newline arrives.
//
// Splitting happens on the byte 0x0A only. UTF-8 continuation bytes always
// have the high bit set, so a multi-byte character can never be split by
// the decoder regardless of where chunk boundaries fall. A trailing
// carriage return is stripped from each line.
//
// The internal buffer grows to hold the longest line seen; there is no
// fixed line-length limit.
type LineDecoder struct {
	r    io.Reader
	buf  []byte // unconsumed bytes carried across reads
	read []byte // scratch for r.Read
	err  error  // sticky, returned once buffered lines are drained
}

// NewLineDecoder returns a decoder reading from r.
func NewLineDecoder(r io.Reader) *LineDecoder {
	return &LineDecoder{
		r:    r,
		read: make([]byte, 4096),
	}
}

// Next returns the next complete line, without its newline. At end of
// stream any non-terminated trailing fragment is returned as a final line,
// then Next returns io.EOF. Any other read error is returned as-is; the
// partial fragment before a mid-line failure is discarded since the
// exchange is failing anyway.
func (d *LineDecoder) Next() (string, error) {
	for {
		if i := bytes.IndexByte(d.buf, '\n'); i >= 0 {
			line := string(dropCR(d.buf[:i]))
			d.buf = append(d.buf[:0], d.buf[i+1:]...)
			return line, nil
		}

		if d.err != nil {
			if d.err == io.EOF && len(d.buf) > 0 {
				// Flush the non-terminated trailing fragment.
				line := string(dropCR(d.buf))
				d.buf = d.buf[:0]
				return line, nil
			}
			return "", d.err
		}

		n, err := d.r.Read(d.read)
		if n > 0 {
			d.buf = append(d.buf, d.read[:n]...)
		}
		if err != nil {
			d.err = err
		}
	}
}

// dropCR removes a trailing carriage return, matching how line-oriented
// protocols terminate lines with \r\n.
func dropCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
