package cue

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage guesses the dominant language of the segment text and
// returns its ISO 639-1 code, or "" when nothing can be detected.
func DetectLanguage(segments []Segment) string {
	tag := DetectLanguageTag(segments)
	if tag == language.Und {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// DetectLanguageTag runs per-segment detection and picks the majority vote.
func DetectLanguageTag(segments []Segment) language.Tag {
	if len(segments) == 0 {
		return language.Und
	}

	langMap := make(map[string]int)

	for _, segment := range segments {
		lang := whatlanggo.DetectLang(segment.Text).Iso6391()
		if lang == "" {
			continue
		}
		langMap[lang]++
	}

	// Get top language
	var topLang string
	var topCount int
	for lang, count := range langMap {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}

	if topLang == "" {
		return language.Und
	}
	return language.All.Make(topLang)
}
