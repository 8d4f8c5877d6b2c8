// Package skills loads the on-disk expert-skill catalog and serves an
// in-memory index over it.
//
// A skill is a directory holding a skill.yaml definition plus up to three
// optional sibling documents (validations.yaml, sharp-edges.yaml,
// collaboration.yaml). The directory's name is the skill id; the directory
// above it is the category. Loading is fault-tolerant per file: a document
// that fails to read or parse is logged and skipped without touching the
// rest of the catalog.
package skills

import (
	"strings"
	"unicode/utf8"
)

// Skill is the full record served by consult_skill. Identity, patterns,
// anti-patterns, and collaboration are free-form document content; the
// index never inspects them.
type Skill struct {
	ID          string `yaml:"-" json:"id"`
	Category    string `yaml:"-" json:"category,omitempty"`
	Name        string `yaml:"name" json:"name,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`

	Identity     any `yaml:"identity" json:"identity,omitempty"`
	Patterns     any `yaml:"patterns" json:"patterns,omitempty"`
	AntiPatterns any `yaml:"anti_patterns" json:"anti_patterns,omitempty"`

	// Attached from sibling files when present, otherwise absent.
	Validations   any `yaml:"-" json:"validations,omitempty"`
	SharpEdges    any `yaml:"-" json:"sharp_edges,omitempty"`
	Collaboration any `yaml:"-" json:"collaboration,omitempty"`

	// Path is where skill.yaml was found, for logs only.
	Path string `yaml:"-" json:"-"`
}

// Summary is the reduced projection returned by listing and search.
// Optional fields that are absent on the skill stay absent here.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// maxSummaryLen caps the description carried by a Summary.
const maxSummaryLen = 160

// Summarize reduces a skill to its listing projection.
func (s *Skill) Summarize() Summary {
	return Summary{
		ID:          s.ID,
		Name:        s.Name,
		Category:    s.Category,
		Description: truncate(s.Description, maxSummaryLen),
	}
}

// truncate shortens s to at most max runes, cutting at a word boundary
// when one falls in the second half, and appends "..." to mark the cut.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := string([]rune(s)[:max])
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
