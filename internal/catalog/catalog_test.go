package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"Fall 2023", "Spring 2024", "Summer 2024", "Fall 2024"}, c.Semesters)
	assert.Equal(t, "2025 Spring", c.Term.Term)
	assert.Equal(t, "2025-01-15", c.Term.RegistrationOpens)
	assert.True(t, c.HasSemester("Fall 2024"))
	assert.False(t, c.HasSemester("Winter 2024"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("semesters: [Spring 2025]\nterm:\n  term: 2025 Fall\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring 2025"}, c.Semesters)
	assert.Equal(t, "2025 Fall", c.Term.Term)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	_, err := Parse([]byte("term:\n  term: x\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
