package ignore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcherSkipsByBaseName(t *testing.T) {
	root := filepath.Join("/tmp", "skills")
	m := NewMatcher(root, []string{"node_modules", ".git"})

	assert.True(t, m.Skip(filepath.Join(root, "node_modules")))
	assert.True(t, m.Skip(filepath.Join(root, "web", "deep", "node_modules")))
	assert.True(t, m.Skip(filepath.Join(root, ".git")))
	assert.False(t, m.Skip(filepath.Join(root, "biotech")))
}

func TestMatcherSkipsByRelativeGlob(t *testing.T) {
	root := "/srv/catalog"
	m := NewMatcher(root, []string{"**/testdata"})

	assert.True(t, m.Skip(filepath.Join(root, "go", "testdata")))
	assert.False(t, m.Skip(filepath.Join(root, "go", "fixtures")))
}

func TestMatcherNeverSkipsRoot(t *testing.T) {
	m := NewMatcher("/srv/catalog", []string{"**"})
	assert.False(t, m.Skip("/srv/catalog"))
}

func TestMatcherEmptyPatterns(t *testing.T) {
	m := NewMatcher("/srv/catalog", nil)
	assert.False(t, m.Skip("/srv/catalog/anything"))
}
