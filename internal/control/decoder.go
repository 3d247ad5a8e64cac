// Package control implements the in-band control protocol carried on
// the embedder input stream: resize directives of the form
// ESC ] RESIZE ; <cols> ; <rows> BEL are decoded and stripped before
// the remaining bytes reach the child, and focus tracking noise echoed
// by some terminal backends is filtered out of child output.
package control

import (
	"bytes"
	"strconv"

	"pkt.systems/pslog"
)

const (
	// directivePrefix introduces a resize directive on the input stream.
	directivePrefix = "\x1b]RESIZE;"
	// directiveTerminator ends a directive.
	directiveTerminator = 0x07
	// maxPending bounds how many bytes the decoder will hold while
	// waiting for a terminator. A well-formed directive never comes
	// close; anything longer is treated as plain data.
	maxPending = 50
)

// Decoder strips resize directives from a terminal input stream. Input
// may arrive in arbitrary chunks, down to one byte at a time; a
// directive split across chunks is held until it completes or turns
// out not to be a directive. Decoder is not safe for concurrent use.
type Decoder struct {
	onResize func(cols, rows int)
	logger   pslog.Logger
	pending  []byte
}

// NewDecoder returns a Decoder that invokes onResize for every
// well-formed directive, in stream order, before Filter returns the
// surrounding plain bytes.
func NewDecoder(onResize func(cols, rows int), logger pslog.Logger) *Decoder {
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	return &Decoder{onResize: onResize, logger: logger}
}

// Filter scans data for resize directives and returns the remaining
// plain bytes. Directives are decoded and applied during the scan, so
// a resize always lands before bytes that followed it are forwarded.
// A trailing partial directive is held for the next call; Flush
// releases it when the stream ends.
func (d *Decoder) Filter(data []byte) []byte {
	buf := data
	if len(d.pending) > 0 {
		buf = append(d.pending, data...)
		d.pending = nil
	}

	clean := make([]byte, 0, len(buf))
	i := 0
	for i < len(buf) {
		if buf[i] != directivePrefix[0] {
			clean = append(clean, buf[i])
			i++
			continue
		}

		rest := buf[i:]
		m := prefixMatch(rest)
		if m < len(directivePrefix) {
			if m == len(rest) {
				// Chunk ended inside the prefix. Hold the bytes so a
				// truncated directive never leaks to the child.
				d.hold(rest)
				break
			}
			// Not a directive. The escape byte is plain data; rescan
			// from the next byte so a directive starting inside the
			// abandoned span is still found.
			clean = append(clean, buf[i])
			i++
			continue
		}

		end := bytes.IndexByte(rest, directiveTerminator)
		switch {
		case end < 0 && len(rest) <= maxPending:
			d.hold(rest)
			i = len(buf)
		case end < 0 || end > maxPending:
			// No terminator within the bound. Treat as plain data.
			clean = append(clean, buf[i])
			i++
		default:
			d.decode(rest[len(directivePrefix):end])
			i += end + 1
		}
	}
	return clean
}

// Flush returns bytes held back while waiting for a directive to
// complete. Call it once input ends so plain data is not lost.
func (d *Decoder) Flush() []byte {
	p := d.pending
	d.pending = nil
	return p
}

func (d *Decoder) hold(b []byte) {
	d.pending = append([]byte(nil), b...)
}

func (d *Decoder) decode(body []byte) {
	fields := bytes.Split(body, []byte{';'})
	if len(fields) != 2 {
		d.logger.Warn("bad resize directive", "body", string(body))
		return
	}
	cols, err := strconv.Atoi(string(fields[0]))
	if err != nil {
		d.logger.Warn("bad resize directive", "body", string(body), "err", err)
		return
	}
	rows, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		d.logger.Warn("bad resize directive", "body", string(body), "err", err)
		return
	}
	if d.onResize != nil {
		d.onResize(cols, rows)
	}
}

// prefixMatch reports how many leading bytes of b match the directive
// prefix, capped at the prefix length.
func prefixMatch(b []byte) int {
	n := len(directivePrefix)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] != directivePrefix[i] {
			return i
		}
	}
	return n
}
