package skills

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sensei-mcp/sensei/internal/logger"
)

// Index is the lazily-loaded, read-only view over the skill catalog. The
// catalog is read from disk on first access and every caller afterwards
// observes the same snapshot; there is no live reload.
type Index struct {
	loader *Loader

	once   sync.Once
	skills []*Skill
	byID   map[string]*Skill
	report LoadReport
}

// NewIndex wraps a Loader. Nothing touches the disk until the first query.
func NewIndex(loader *Loader) *Index {
	return &Index{loader: loader}
}

func (ix *Index) ensure(ctx context.Context) {
	ix.once.Do(func() {
		skills, report := ix.loader.Load(ctx)
		byID := make(map[string]*Skill, len(skills))
		for _, s := range skills {
			byID[s.ID] = s
		}
		ix.skills = skills
		ix.byID = byID
		ix.report = report

		logger.G(ctx).WithFields(logrus.Fields{
			"skills":  len(skills),
			"skipped": len(report.Skipped),
		}).Info("skill catalog loaded")
	})
}

// List returns the reduced projection of every skill, in load order. A
// non-empty category filters to exact matches.
func (ix *Index) List(ctx context.Context, category string) []Summary {
	ix.ensure(ctx)

	var out []Summary
	for _, s := range ix.skills {
		if category != "" && s.Category != category {
			continue
		}
		out = append(out, s.Summarize())
	}
	return out
}

// Search returns skills whose id, name, or description contains the query,
// case-insensitively, in load order. An empty query matches nothing.
func (ix *Index) Search(ctx context.Context, query string) []Summary {
	ix.ensure(ctx)

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var out []Summary
	for _, s := range ix.skills {
		if strings.Contains(strings.ToLower(s.ID), query) ||
			strings.Contains(strings.ToLower(s.Name), query) ||
			strings.Contains(strings.ToLower(s.Description), query) {
			out = append(out, s.Summarize())
		}
	}
	return out
}

// GetByID returns the full record for id. Absence is signaled by ok=false,
// not an error.
func (ix *Index) GetByID(ctx context.Context, id string) (*Skill, bool) {
	ix.ensure(ctx)
	s, ok := ix.byID[id]
	return s, ok
}

// Count returns how many skills loaded.
func (ix *Index) Count(ctx context.Context) int {
	ix.ensure(ctx)
	return len(ix.skills)
}

// Categories returns the distinct non-empty categories, sorted.
func (ix *Index) Categories(ctx context.Context) []string {
	ix.ensure(ctx)

	seen := make(map[string]bool)
	for _, s := range ix.skills {
		if s.Category != "" {
			seen[s.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Report returns the load report for the snapshot this index serves.
func (ix *Index) Report(ctx context.Context) LoadReport {
	ix.ensure(ctx)
	return ix.report
}
