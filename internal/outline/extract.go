package outline

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// UntitledTitle is used when a chapter's title field has no usable value.
const UntitledTitle = "Untitled"

// Entry is a chapter stub found in the outline text.
type Entry struct {
	Number int
	Title  string
}

var (
	entryLineRe = regexp.MustCompile(`^\s*-\s+number:(.*)$`)
	titleLineRe = regexp.MustCompile(`^\s*(?:-\s+)?title:(.*)$`)
)

// Extract scans text line by line for chapter entries.
//
// A "- number:" line opens an entry; the first "title:" field after it, and
// before the next entry, completes it. An entry with no title field is
// skipped. Unparsable numbers become 0 and empty titles become UntitledTitle.
// Entries are returned in order of appearance without deduplication.
// Zero entries is a valid result.
func Extract(text string) []Entry {
	var (
		entries []Entry
		open    bool
		number  int
	)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for sc.Scan() {
		line := sc.Text()

		if m := entryLineRe.FindStringSubmatch(line); m != nil {
			open = true
			number = parseNumber(m[1])
			continue
		}

		if !open {
			continue
		}

		if m := titleLineRe.FindStringSubmatch(line); m != nil {
			entries = append(entries, Entry{Number: number, Title: parseTitle(m[1])})
			open = false
		}
	}

	return entries
}

func parseNumber(raw string) int {
	n, err := strconv.Atoi(stripComment(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseTitle(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return UntitledTitle
	}

	if q := v[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(v[1:], q)
		if end < 0 {
			return UntitledTitle
		}
		v = v[1 : end+1]
	} else {
		v = stripComment(v)
	}

	if strings.TrimSpace(v) == "" {
		return UntitledTitle
	}
	return v
}

// stripComment drops a trailing YAML comment and surrounding whitespace.
func stripComment(v string) string {
	if i := strings.Index(v, " #"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
