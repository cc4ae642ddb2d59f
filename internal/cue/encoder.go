package cue

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumavid/captionpipe/internal/caperr"
)

// Encode renders segments as a WebVTT document. Encoding is deterministic:
// equal input always produces byte-identical output. An empty segment list is
// an error, never a header-only document.
func Encode(segments []Segment) ([]byte, error) {
	if len(segments) == 0 {
		return nil, caperr.New(caperr.ErrEmptyTranscription, "no segments to encode")
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteString("\n\n")

	for i, segment := range segments {
		fmt.Fprintf(&buf, "%d\n", i+1)
		fmt.Fprintf(&buf, "%s --> %s\n", FormatTimestamp(segment.Start), FormatTimestamp(segment.End))
		fmt.Fprintf(&buf, "%s\n\n", strings.TrimSpace(segment.Text))
	}

	return buf.Bytes(), nil
}

// WriteFile encodes segments and writes the document to path atomically, so a
// concurrent directory snapshot never observes a half-written cue file.
func WriteFile(path string, segments []Segment) error {
	data, err := Encode(segments)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return caperr.Wrap(err, caperr.ErrFileWrite, "failed to create cue directory")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return caperr.Wrap(err, caperr.ErrFileWrite, "failed to write cue file").
			WithContext("path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return caperr.Wrap(err, caperr.ErrFileWrite, "failed to publish cue file").
			WithContext("path", path)
	}
	return nil
}
