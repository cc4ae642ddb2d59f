package cue

import "time"

// Extension is the file extension of encoded cue documents.
const Extension = ".vtt"

// header is the mandatory first line of a WebVTT document.
const header = "WEBVTT"

// Segment represents a single transcribed span of speech.
type Segment struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}
