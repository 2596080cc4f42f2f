/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package daemon

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
)

// ErrEmptyBody is returned by FrameReader when a frame carries an explicit
// Content-Length: 0 — a well-formed header naming a zero-length body, as
// opposed to a malformed or missing header (spec.md §8: an empty body is an
// invalid request, not a parse failure).
var ErrEmptyBody = errors.New("empty message body")

// FrameWriter writes one Content-Length-framed JSON object per call. The
// daemon's own socket protocol reuses the exact framing LSP uses (spec.md
// §4.4), so this is a thin wrapper over jsonrpc2's VSCodeObjectCodec rather
// than a hand-rolled header parser.
type FrameWriter struct {
	w     io.Writer
	codec jsonrpc2.VSCodeObjectCodec
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

func (f *FrameWriter) WriteResponse(resp *Response) error {
	return f.codec.WriteObject(f.w, resp)
}

// WriteRequest writes a framed Request — used by the CLI-side client, the
// mirror image of WriteResponse used by the server.
func (f *FrameWriter) WriteRequest(req *Request) error {
	return f.codec.WriteObject(f.w, req)
}

// FrameReader reads one Content-Length-framed JSON object per call. Reads
// are parsed directly (rather than through jsonrpc2's codec) so a header
// naming an explicit zero-length body can be reported as ErrEmptyBody
// instead of surfacing as an opaque JSON decode failure.
type FrameReader struct {
	r *bufio.Reader
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// readFrame reads the Content-Length header block and returns the body that
// follows it. A header explicitly naming zero bytes yields ErrEmptyBody; a
// missing or malformed header yields a plain error (treated as a parse
// failure by callers). Bytes that cannot begin a "Content-" header are
// rejected, and the buffered bytes dropped, without waiting for a line end.
func (f *FrameReader) readFrame() ([]byte, error) {
	if _, err := f.r.Peek(1); err != nil {
		return nil, err
	}
	const headerPrefix = "content-"
	head, _ := f.r.Peek(min(f.r.Buffered(), len(headerPrefix)))
	if !strings.EqualFold(string(head), headerPrefix[:len(head)]) {
		_, _ = f.r.Discard(f.r.Buffered())
		return nil, fmt.Errorf("frame does not begin with a Content-Length header")
	}

	contentLength := int64(-1)
	for {
		line, err := f.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length header %q: %w", value, err)
		}
		contentLength = n
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	if contentLength == 0 {
		return nil, ErrEmptyBody
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(f.r, body); err != nil {
		return nil, err
	}
	return body, nil
}

// ReadRequest reads and parses exactly one framed request. On a framing or
// JSON failure it returns only the error; the caller decides whether to keep
// serving the connection (spec.md §7: a framing failure emits an error frame
// with id 0 and the loop continues).
func (f *FrameReader) ReadRequest() (*Request, error) {
	body, err := f.readFrame()
	if err != nil {
		return nil, err
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ReadResponse reads and parses exactly one framed response — used by the
// CLI-side client, the mirror image of ReadRequest used by the server.
func (f *FrameReader) ReadResponse() (*Response, error) {
	body, err := f.readFrame()
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
