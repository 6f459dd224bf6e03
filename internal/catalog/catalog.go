// Package catalog loads the academic calendar the console offers in its forms.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// TermInfo describes the upcoming term.
type TermInfo struct {
	Term              string `yaml:"term" json:"term"`
	RegistrationOpens string `yaml:"registration_opens" json:"registration_opens"`
	ClassesStart      string `yaml:"classes_start" json:"classes_start"`
	Message           string `yaml:"message" json:"message"`
}

// Catalog is the closed set of semesters offered for grade entry plus the
// fallback term information.
type Catalog struct {
	Semesters []string `yaml:"semesters"`
	Term      TermInfo `yaml:"term"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Semesters) == 0 {
		return nil, errors.New("catalog lists no semesters")
	}
	return &c, nil
}

// HasSemester reports whether s is one of the offered semesters.
func (c *Catalog) HasSemester(s string) bool {
	for _, v := range c.Semesters {
		if v == s {
			return true
		}
	}
	return false
}
