// Package outline reads the YAML-shaped course outline a user authors.
//
// Two levels of reading are offered. Validate and Extract are lenient pattern
// checks over the raw text and gate generation. Parse is a typed YAML parse
// used for display and lint warnings.
package outline

import (
	"errors"
	"regexp"
	"strings"
)

// Validation failures, checked in this order.
var (
	ErrMissingSection = errors.New(`missing "chapters:" section`)
	ErrNoChapters     = errors.New(`no chapters defined, use "- number: X" format`)
	ErrMissingTitle   = errors.New(`chapters must have "title:" field`)
)

const sectionMarker = "chapters:"

var (
	chapterMarkerRe = regexp.MustCompile(`- number: \d+`)
	titleMarkerRe   = regexp.MustCompile(`title:`)
)

// Validate returns the first violated rule, or nil.
// The check is purely syntactic: it looks for markers, not for titles
// attached to the chapters they sit near.
func Validate(text string) error {
	if !strings.Contains(text, sectionMarker) {
		return ErrMissingSection
	}
	if !chapterMarkerRe.MatchString(text) {
		return ErrNoChapters
	}
	if !titleMarkerRe.MatchString(text) {
		return ErrMissingTitle
	}
	return nil
}

// ChapterCount returns how many chapter markers appear in text.
func ChapterCount(text string) int {
	return len(chapterMarkerRe.FindAllStringIndex(text, -1))
}
