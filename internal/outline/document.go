package outline

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned by Parse for blank input.
var ErrEmptyDocument = errors.New("outline is empty")

// Document is the typed form of an outline.
type Document struct {
	Course   Course
	Chapters []DocChapter
}

// Course is the top-level course metadata section.
type Course struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Duration    string `yaml:"duration"`
	Level       string `yaml:"level"`
}

// DocChapter is one entry of the chapters section.
// Duration and Topics are display-only.
type DocChapter struct {
	Number   int      `yaml:"number"`
	Title    string   `yaml:"title"`
	Duration string   `yaml:"duration"`
	Topics   []string `yaml:"topics"`
	Line     int      `yaml:"-"` // 1-based line of the entry in the source
}

type rawDocument struct {
	Course   Course      `yaml:"course"`
	Chapters []yaml.Node `yaml:"chapters"`
}

// Parse decodes text as YAML into a Document.
// Unlike Extract it is strict: malformed YAML or a non-integer chapter number
// is an error that names the offending line.
func Parse(text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	var raw rawDocument
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parsing outline: %w", err)
	}

	doc := &Document{Course: raw.Course}
	for i := range raw.Chapters {
		node := &raw.Chapters[i]
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: chapter entry must be a mapping", node.Line)
		}

		var ch DocChapter
		if err := node.Decode(&ch); err != nil {
			return nil, fmt.Errorf("line %d: decoding chapter: %w", node.Line, err)
		}
		ch.Line = node.Line
		doc.Chapters = append(doc.Chapters, ch)
	}

	return doc, nil
}

// Lint returns non-blocking warnings about a parsed outline.
// Generation is never refused because of these.
func Lint(doc *Document) []string {
	var warnings []string

	seen := make(map[int]int) // number -> first line
	prev := 0
	for _, ch := range doc.Chapters {
		if ch.Number <= 0 {
			warnings = append(warnings, fmt.Sprintf("line %d: chapter number must be positive", ch.Line))
		} else {
			if first, ok := seen[ch.Number]; ok {
				warnings = append(warnings, fmt.Sprintf("line %d: chapter %d already defined on line %d", ch.Line, ch.Number, first))
			} else {
				seen[ch.Number] = ch.Line
			}
			if ch.Number < prev {
				warnings = append(warnings, fmt.Sprintf("line %d: chapter %d appears after chapter %d", ch.Line, ch.Number, prev))
			}
			prev = ch.Number
		}

		if strings.TrimSpace(ch.Title) == "" {
			warnings = append(warnings, fmt.Sprintf("line %d: chapter has no title", ch.Line))
		}
	}

	if len(doc.Chapters) == 0 {
		warnings = append(warnings, "outline has no chapters")
	}

	return warnings
}

// Example is a starting outline for a new project.
const Example = `# Full-Stack Web Development Course
# 20 chapters covering modern web development

course:
  title: "Full-Stack Web Development with React and Node.js"
  description: "Comprehensive course covering frontend, backend, and deployment"
  duration: "120 hours"
  level: "Intermediate"

chapters:
  - number: 1
    title: "Introduction to Full-Stack Development & Project Overview"
    duration: "2 hours"
    topics:
      - What is full-stack development
      - Modern web architecture
      - Tools and environment setup
      - Course roadmap

  - number: 2
    title: "JavaScript Fundamentals & ES6+ Features"
    duration: "4 hours"
    topics:
      - Modern JavaScript syntax
      - Arrow functions and destructuring
      - Promises and async/await
      - Modules and imports

  - number: 3
    title: "React Fundamentals & Component Architecture"
    duration: "6 hours"
    topics:
      - JSX and components
      - Props and state
      - Lifecycle methods
      - Hooks (useState, useEffect)

  # Add 17 more chapters...
`
