package skills

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sensei-mcp/sensei/internal/ignore"
	"github.com/sensei-mcp/sensei/internal/logger"
)

const (
	skillFile         = "skill.yaml"
	validationsFile   = "validations.yaml"
	sharpEdgesFile    = "sharp-edges.yaml"
	collaborationFile = "collaboration.yaml"
)

// SkippedFile records one document the loader had to leave behind.
type SkippedFile struct {
	Path   string
	Reason string
}

// LoadReport summarizes one walk of the skills root.
type LoadReport struct {
	Skills  int
	Probed  int
	Skipped []SkippedFile

	// Err aggregates every per-file failure; nil when the whole catalog
	// loaded cleanly. The serving path only logs it; `sensei check`
	// surfaces it.
	Err error
}

// Loader walks a skills root and materializes Skill records.
type Loader struct {
	root    string
	matcher *ignore.Matcher
}

// NewLoader builds a Loader over root, skipping directories matched by the
// ignore globs.
func NewLoader(root string, ignoreGlobs []string) *Loader {
	return &Loader{root: root, matcher: ignore.NewMatcher(root, ignoreGlobs)}
}

// Load walks the root once and returns every loadable skill in walk order.
// It never fails outright: a missing root yields an empty catalog and every
// per-file problem is logged, recorded in the report, and skipped.
func (l *Loader) Load(ctx context.Context) ([]*Skill, LoadReport) {
	log := logger.G(ctx)

	var (
		loaded []*Skill
		report LoadReport
		merr   *multierror.Error
		seen   = make(map[string]string) // id -> defining file
	)

	info, err := os.Stat(l.root)
	if err != nil || !info.IsDir() {
		log.WithField("dir", l.root).Warn("skills directory not found, serving an empty catalog")
		return nil, report
	}

	walkErr := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("skipping unreadable path")
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			merr = multierror.Append(merr, errors.Wrapf(err, "walking %s", path))
			return nil
		}
		if d.IsDir() {
			if l.matcher.Skip(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != skillFile {
			return nil
		}

		report.Probed++
		skill, err := l.loadSkill(path)
		if err != nil {
			log.WithError(err).WithField("file", path).Warn("skipping unparseable skill definition")
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: err.Error()})
			merr = multierror.Append(merr, err)
			return nil
		}
		if prev, dup := seen[skill.ID]; dup {
			log.WithFields(logrus.Fields{"id": skill.ID, "file": path, "kept": prev}).
				Warn("duplicate skill id, keeping the first occurrence")
			report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: "duplicate id " + skill.ID})
			return nil
		}

		l.attachSiblings(ctx, skill, filepath.Dir(path), &report, &merr)

		seen[skill.ID] = path
		loaded = append(loaded, skill)
		return nil
	})
	if walkErr != nil {
		merr = multierror.Append(merr, errors.Wrap(walkErr, "walking skills root"))
	}

	report.Skills = len(loaded)
	report.Err = merr.ErrorOrNil()
	return loaded, report
}

// loadSkill parses one skill.yaml and derives the skill's identity from
// its location.
func (l *Loader) loadSkill(path string) (*Skill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var skill Skill
	if err := yaml.Unmarshal(data, &skill); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	skill.ID, skill.Category = identityFromPath(l.root, path)
	if skill.Name == "" {
		skill.Name = skill.ID
	}
	skill.Path = path
	return &skill, nil
}

// attachSiblings probes the three optional documents next to skill.yaml.
// Each is independent: a broken sibling is logged and skipped while the
// skill and the remaining siblings load normally.
func (l *Loader) attachSiblings(ctx context.Context, skill *Skill, dir string, report *LoadReport, merr **multierror.Error) {
	if v, ok := l.loadSibling(ctx, filepath.Join(dir, validationsFile), report, merr); ok {
		var doc struct {
			Validations any `yaml:"validations"`
		}
		if yaml.Unmarshal(v, &doc) == nil {
			skill.Validations = doc.Validations
		}
	}
	if v, ok := l.loadSibling(ctx, filepath.Join(dir, sharpEdgesFile), report, merr); ok {
		var doc struct {
			SharpEdges any `yaml:"sharp_edges"`
		}
		if yaml.Unmarshal(v, &doc) == nil {
			skill.SharpEdges = doc.SharpEdges
		}
	}
	if v, ok := l.loadSibling(ctx, filepath.Join(dir, collaborationFile), report, merr); ok {
		var content any
		if yaml.Unmarshal(v, &content) == nil {
			skill.Collaboration = content
		}
	}
}

// loadSibling reads an optional sibling document. Absence is silent; any
// other failure is logged and recorded.
func (l *Loader) loadSibling(ctx context.Context, path string, report *LoadReport, merr **multierror.Error) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false
		}
		report.Probed++
		logger.G(ctx).WithError(err).WithField("file", path).Warn("skipping unreadable sibling document")
		report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: err.Error()})
		*merr = multierror.Append(*merr, errors.Wrapf(err, "reading %s", path))
		return nil, false
	}
	report.Probed++

	// Validate the YAML here so a broken sibling is reported once.
	var probe any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		logger.G(ctx).WithError(err).WithField("file", path).Warn("skipping unparseable sibling document")
		report.Skipped = append(report.Skipped, SkippedFile{Path: path, Reason: err.Error()})
		*merr = multierror.Append(*merr, errors.Wrapf(err, "parsing %s", path))
		return nil, false
	}
	return data, true
}

// identityFromPath derives id and category from where the definition file
// sits: the containing directory names the skill and its parent names the
// category. A skill directly under the root has no category.
func identityFromPath(root, definitionPath string) (id, category string) {
	dir := filepath.Dir(definitionPath)
	id = filepath.Base(dir)

	parent := filepath.Dir(dir)
	if rel, err := filepath.Rel(root, parent); err == nil && rel != "." {
		category = filepath.Base(parent)
	}
	return id, category
}
