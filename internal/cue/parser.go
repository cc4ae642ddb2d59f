package cue

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lumavid/captionpipe/internal/caperr"
)

// ErrNoCues marks a document that parses but contains no complete cue.
var ErrNoCues = errors.New("cue document contains no cues")

// Parse reads a WebVTT document into segments. A document without the WEBVTT
// header or without a single complete cue is rejected, so zero-byte and
// truncated files are never mistaken for a valid cached result.
func Parse(data []byte) ([]Segment, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))

	if !scanner.Scan() || !strings.HasPrefix(strings.TrimSpace(scanner.Text()), header) {
		return nil, fmt.Errorf("missing %s header", header)
	}

	var segments []Segment

	currentSegment := Segment{}
	state := "cue" // possible values: "cue", "text"
	var textLines []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch state {
		case "cue":
			if line == "" {
				continue
			}
			// cue identifiers are optional; skip a bare sequence number
			if _, err := strconv.Atoi(line); err == nil {
				continue
			}
			start, end, err := parseCueTiming(line)
			if err != nil {
				return nil, err
			}
			currentSegment.Start = start
			currentSegment.End = end
			state = "text"
			textLines = []string{}

		case "text":
			if line == "" {
				if len(textLines) > 0 {
					currentSegment.Text = strings.Join(textLines, "\n")
					segments = append(segments, currentSegment)
					currentSegment = Segment{}
				}
				state = "cue"
				textLines = []string{}
			} else {
				textLines = append(textLines, line)
			}
		}
	}

	// handle last cue group
	if state == "text" && len(textLines) > 0 {
		currentSegment.Text = strings.Join(textLines, "\n")
		segments = append(segments, currentSegment)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cue document: %w", err)
	}

	if len(segments) == 0 {
		return nil, ErrNoCues
	}

	return segments, nil
}

// ParseFile reads and parses the cue document at path.
func ParseFile(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, caperr.Wrap(err, caperr.ErrNotFound, "cue file does not exist").
				WithContext("path", path)
		}
		return nil, caperr.Wrap(err, caperr.ErrFileRead, "failed to read cue file").
			WithContext("path", path)
	}
	return Parse(data)
}

// Valid reports whether path holds a parseable, non-empty cue document.
func Valid(path string) bool {
	_, err := ParseFile(path)
	return err == nil
}

func parseCueTiming(line string) (start, end time.Duration, err error) {
	parts := strings.Split(line, " --> ")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid cue timing line: %s", line)
	}
	// trailing cue settings after the end time are ignored
	endField := strings.Fields(strings.TrimSpace(parts[1]))[0]

	start, err = ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseTimestamp(endField)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
