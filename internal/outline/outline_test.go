package outline

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const twoChapters = `course:
  title: "Go"

chapters:
  - number: 1
    title: "Intro"
    duration: "1 hour"
    topics:
      - Setup
  - number: 2
    title: "Basics"
    duration: "2 hours"
`

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{
			name: "valid outline",
			text: twoChapters,
			want: nil,
		},
		{
			name: "missing chapters section",
			text: "course:\n  title: \"Go\"\n  - number: 1\n",
			want: ErrMissingSection,
		},
		{
			name: "section without chapter markers",
			text: "chapters:\n  title: \"x\"\n",
			want: ErrNoChapters,
		},
		{
			name: "chapters without title field",
			text: "chapters:\n  - number: 1\n    duration: \"1h\"\n",
			want: ErrMissingTitle,
		},
		{
			name: "section check runs before chapter check",
			text: "",
			want: ErrMissingSection,
		},
		{
			name: "title anywhere satisfies the marker check",
			text: "course:\n  title: \"Go\"\nchapters:\n  - number: 1\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Entry
	}{
		{
			name: "two well-formed chapters",
			text: twoChapters,
			want: []Entry{{Number: 1, Title: "Intro"}, {Number: 2, Title: "Basics"}},
		},
		{
			name: "no matches",
			text: "course:\n  title: \"Go\"\n",
			want: nil,
		},
		{
			name: "course title is not a chapter title",
			text: "course:\n  title: \"Go\"\nchapters:\n  - number: 4\n    title: \"Four\"\n",
			want: []Entry{{Number: 4, Title: "Four"}},
		},
		{
			name: "unparsable number defaults to zero",
			text: "chapters:\n  - number: one\n    title: \"Intro\"\n",
			want: []Entry{{Number: 0, Title: "Intro"}},
		},
		{
			name: "empty title uses placeholder",
			text: "chapters:\n  - number: 1\n    title: \"\"\n",
			want: []Entry{{Number: 1, Title: UntitledTitle}},
		},
		{
			name: "unquoted and single-quoted titles",
			text: "chapters:\n  - number: 1\n    title: Bare # comment\n  - number: 2\n    title: 'Quoted'\n",
			want: []Entry{{Number: 1, Title: "Bare"}, {Number: 2, Title: "Quoted"}},
		},
		{
			name: "entry without title is skipped",
			text: "chapters:\n  - number: 1\n    duration: \"1h\"\n  - number: 2\n    title: \"Two\"\n",
			want: []Entry{{Number: 2, Title: "Two"}},
		},
		{
			name: "duplicates and order are preserved",
			text: "chapters:\n  - number: 2\n    title: \"B\"\n  - number: 1\n    title: \"A\"\n  - number: 2\n    title: \"B again\"\n",
			want: []Entry{{Number: 2, Title: "B"}, {Number: 1, Title: "A"}, {Number: 2, Title: "B again"}},
		},
		{
			name: "only first title after a marker counts",
			text: "chapters:\n  - number: 1\n    title: \"First\"\n    title: \"Second\"\n",
			want: []Entry{{Number: 1, Title: "First"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	first := Extract(Example)
	second := Extract(Example)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Extract() not idempotent: %+v vs %+v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("len(Extract(Example)) = %d, want 3", len(first))
	}
	if first[2].Title != "React Fundamentals & Component Architecture" {
		t.Errorf("third title = %q", first[2].Title)
	}
}

func TestChapterCount(t *testing.T) {
	if got := ChapterCount(Example); got != 3 {
		t.Errorf("ChapterCount(Example) = %d, want 3", got)
	}
	if got := ChapterCount(""); got != 0 {
		t.Errorf("ChapterCount(\"\") = %d, want 0", got)
	}
}

func TestParse(t *testing.T) {
	doc, err := Parse(twoChapters)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Course.Title != "Go" {
		t.Errorf("Course.Title = %q, want %q", doc.Course.Title, "Go")
	}
	if len(doc.Chapters) != 2 {
		t.Fatalf("len(Chapters) = %d, want 2", len(doc.Chapters))
	}
	first := doc.Chapters[0]
	if first.Number != 1 || first.Title != "Intro" || first.Duration != "1 hour" {
		t.Errorf("Chapters[0] = %+v", first)
	}
	if !reflect.DeepEqual(first.Topics, []string{"Setup"}) {
		t.Errorf("Chapters[0].Topics = %v", first.Topics)
	}
	if first.Line != 5 {
		t.Errorf("Chapters[0].Line = %d, want 5", first.Line)
	}
	if doc.Chapters[1].Line != 10 {
		t.Errorf("Chapters[1].Line = %d, want 10", doc.Chapters[1].Line)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantSub string
	}{
		{name: "blank", text: "  \n", wantSub: "empty"},
		{name: "malformed yaml", text: "chapters: [\n", wantSub: "parsing outline"},
		{name: "scalar entry", text: "chapters:\n  - just text\n", wantSub: "line 2"},
		{name: "non-integer number", text: "chapters:\n  - number: one\n    title: \"x\"\n", wantSub: "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Parse() error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestLint(t *testing.T) {
	doc, err := Parse("chapters:\n  - number: 2\n    title: \"B\"\n  - number: 1\n    title: \"\"\n  - number: 2\n    title: \"C\"\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := Lint(doc)
	want := []string{
		"line 4: chapter 1 appears after chapter 2",
		"line 4: chapter has no title",
		"line 6: chapter 2 already defined on line 2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lint() = %q, want %q", got, want)
	}

	clean, err := Parse(Example)
	if err != nil {
		t.Fatalf("Parse(Example) error = %v", err)
	}
	if w := Lint(clean); len(w) != 0 {
		t.Errorf("Lint(Example) = %q, want none", w)
	}
}
