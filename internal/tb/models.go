package tb

import "time"

// ProjectStatus is the coarse lifecycle stage of a project.
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectGenerating ProjectStatus = "generating"
	ProjectCompleted  ProjectStatus = "completed"
	// ProjectError is reserved for unrecoverable generation failures.
	// No transition assigns it yet.
	ProjectError ProjectStatus = "error"
)

// ChapterStatus is the generation state of a single chapter.
type ChapterStatus string

const (
	ChapterPending    ChapterStatus = "pending"
	ChapterGenerating ChapterStatus = "generating"
	ChapterCompleted  ChapterStatus = "completed"
	ChapterError      ChapterStatus = "error"
)

// ComponentStatus is the generation state of a chapter component.
type ComponentStatus string

const (
	ComponentPending    ComponentStatus = "pending"
	ComponentGenerating ComponentStatus = "generating"
	ComponentCompleted  ComponentStatus = "completed"
	ComponentError      ComponentStatus = "error"
)

// Project is a course being authored and generated.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Outline   string        `json:"outline"`
	Model     AIModel       `json:"model"`
	APIKey    string        `json:"apiKey"`
	Status    ProjectStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Chapters  []Chapter     `json:"chapters"`
}

// Clone returns a deep copy so callers never share chapter slices with the store.
func (p Project) Clone() Project {
	c := p
	if p.Chapters != nil {
		c.Chapters = make([]Chapter, len(p.Chapters))
		for i, ch := range p.Chapters {
			c.Chapters[i] = ch.clone()
		}
	}
	return c
}

// Chapter is a unit of course content derived from the outline.
type Chapter struct {
	Number      int                `json:"number"`
	Title       string             `json:"title"`
	Status      ChapterStatus      `json:"status"`
	Components  []ChapterComponent `json:"components"`
	GeneratedAt *time.Time         `json:"generatedAt,omitempty"`
}

func (c Chapter) clone() Chapter {
	out := c
	if c.Components != nil {
		out.Components = make([]ChapterComponent, len(c.Components))
		for i, comp := range c.Components {
			cc := comp
			if comp.Warnings != nil {
				cc.Warnings = append([]string(nil), comp.Warnings...)
			}
			if comp.Size != nil {
				size := *comp.Size
				cc.Size = &size
			}
			out.Components[i] = cc
		}
	}
	if c.GeneratedAt != nil {
		t := *c.GeneratedAt
		out.GeneratedAt = &t
	}
	return out
}

// ChapterComponent is a named artifact within a chapter (slides, quiz, ...).
// Declared by shape only; nothing populates content yet.
type ChapterComponent struct {
	Name     string          `json:"name"`
	Filename string          `json:"filename"`
	Content  string          `json:"content,omitempty"`
	Status   ComponentStatus `json:"status"`
	Size     *int64          `json:"size,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// APIKeyConfig is the single remembered credential, independent of any project.
type APIKeyConfig struct {
	Model  AIModel `json:"model"`
	APIKey string  `json:"apiKey"`
}

// GenerationProgress describes how far a generation run has advanced.
type GenerationProgress struct {
	ProjectID         string
	CurrentChapter    int
	TotalChapters     int
	CompletedChapters int
	CurrentComponent  string
	Progress          float64 // 0-100
	Message           string  // synthetic log line, empty on quiet ticks
}
