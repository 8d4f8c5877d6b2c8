package rules

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sensei-mcp/sensei/internal/ignore"
	"github.com/sensei-mcp/sensei/internal/logger"
)

// Kind selects which sibling document an engine reads.
type Kind string

const (
	KindValidation Kind = "validation"
	KindSharpEdge  Kind = "sharp-edge"
)

// Report summarizes one engine load for the check command and the status
// resource.
type Report struct {
	Total int
	Inert int
	Err   error
}

// Engine holds the flattened rule collection for one document kind. Like
// the skill index it loads lazily on first use and serves that snapshot
// forever; its walk is independent of the index's.
type Engine struct {
	kind    Kind
	root    string
	matcher *ignore.Matcher

	once   sync.Once
	rules  []*Rule
	report Report
}

// NewValidationEngine reads validations.yaml documents under root.
func NewValidationEngine(root string, ignoreGlobs []string) *Engine {
	return newEngine(KindValidation, root, ignoreGlobs)
}

// NewSharpEdgeEngine reads sharp-edges.yaml documents under root.
func NewSharpEdgeEngine(root string, ignoreGlobs []string) *Engine {
	return newEngine(KindSharpEdge, root, ignoreGlobs)
}

func newEngine(kind Kind, root string, ignoreGlobs []string) *Engine {
	return &Engine{kind: kind, root: root, matcher: ignore.NewMatcher(root, ignoreGlobs)}
}

// Kind returns which document kind this engine serves.
func (e *Engine) Kind() Kind { return e.kind }

func (e *Engine) filename() string {
	if e.kind == KindValidation {
		return "validations.yaml"
	}
	return "sharp-edges.yaml"
}

// Apply returns every rule whose pattern matches text, in load order.
// Empty text matches nothing.
func (e *Engine) Apply(ctx context.Context, text string) []*Rule {
	return e.ApplyScoped(ctx, text, "")
}

// ApplyScoped is Apply restricted to rules owned by skillID. An empty
// skillID applies every rule.
func (e *Engine) ApplyScoped(ctx context.Context, text, skillID string) []*Rule {
	e.ensure(ctx)

	if text == "" {
		return nil
	}

	var hits []*Rule
	for _, r := range e.rules {
		if skillID != "" && r.SkillID != skillID {
			continue
		}
		if r.Matches(text) {
			hits = append(hits, r)
		}
	}
	return hits
}

// Rules returns the loaded inventory, scoped to skillID when non-empty.
// Inert rules are included; callers render them as disabled.
func (e *Engine) Rules(ctx context.Context, skillID string) []*Rule {
	e.ensure(ctx)

	if skillID == "" {
		out := make([]*Rule, len(e.rules))
		copy(out, e.rules)
		return out
	}
	var out []*Rule
	for _, r := range e.rules {
		if r.SkillID == skillID {
			out = append(out, r)
		}
	}
	return out
}

// Report returns the load report for this engine's snapshot.
func (e *Engine) Report(ctx context.Context) Report {
	e.ensure(ctx)
	return e.report
}

func (e *Engine) ensure(ctx context.Context) {
	e.once.Do(func() { e.load(ctx) })
}

// load walks the root collecting every document of this engine's kind.
// Per-file failures are logged and recorded without aborting the walk.
func (e *Engine) load(ctx context.Context) {
	log := logger.G(ctx)
	var merr *multierror.Error

	info, err := os.Stat(e.root)
	if err != nil || !info.IsDir() {
		log.WithFields(logrus.Fields{"dir": e.root, "kind": e.kind}).
			Warn("skills directory not found, rule engine is empty")
		return
	}

	_ = filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "walking %s", path))
			return nil
		}
		if d.IsDir() {
			if e.matcher.Skip(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != e.filename() {
			return nil
		}

		parsed, err := e.loadDocument(path)
		if err != nil {
			log.WithError(err).WithField("file", path).Warn("skipping unparseable rule document")
			merr = multierror.Append(merr, err)
			return nil
		}
		e.rules = append(e.rules, e.compile(ctx, parsed, path)...)
		return nil
	})

	for _, r := range e.rules {
		if r.Inert() {
			e.report.Inert++
		}
	}
	e.report.Total = len(e.rules)
	e.report.Err = merr.ErrorOrNil()

	log.WithFields(logrus.Fields{
		"kind":  e.kind,
		"rules": e.report.Total,
		"inert": e.report.Inert,
	}).Info("rule engine loaded")
}

// loadDocument reads one YAML document and returns its rule list. Both
// document kinds are wrapper maps around a single list key.
func (e *Engine) loadDocument(path string) ([]*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if e.kind == KindValidation {
		var doc struct {
			Validations []*Rule `yaml:"validations"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
		return doc.Validations, nil
	}

	var doc struct {
		SharpEdges []*Rule `yaml:"sharp_edges"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return doc.SharpEdges, nil
}

// compile attaches identity and the compiled pattern to each rule. A rule
// with an empty or invalid pattern is kept inert so inventories still show
// it, and the failure is logged exactly once, here.
func (e *Engine) compile(ctx context.Context, parsed []*Rule, path string) []*Rule {
	log := logger.G(ctx)
	skillID := filepath.Base(filepath.Dir(path))

	for _, r := range parsed {
		r.SkillID = skillID
		r.SourceFile = path

		if r.Pattern == "" {
			log.WithFields(logrus.Fields{"rule": r.ID, "file": path}).
				Warn("rule has no pattern, disabling it")
			continue
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{"rule": r.ID, "file": path}).
				Warn("rule pattern does not compile, disabling it")
			continue
		}
		r.re = re
	}
	return parsed
}
