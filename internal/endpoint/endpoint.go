// Package endpoint is the single place where upstream record URLs are built.
package endpoint

import (
	"fmt"
	"net/url"
	"strings"
)

// Entity names one of the backend's record collections.
type Entity string

const (
	Students Entity = "students"
	Courses  Entity = "courses"
	Grades   Entity = "grades"
)

// Op is a CRUD operation on an entity.
type Op string

const (
	List   Op = "list"
	Get    Op = "get"
	Create Op = "create"
	Update Op = "update"
	Delete Op = "delete"
)

// ParseEntity maps a collection name onto an Entity.
func ParseEntity(s string) (Entity, bool) {
	switch e := Entity(s); e {
	case Students, Courses, Grades:
		return e, true
	}
	return "", false
}

// Resolver maps (entity, op, key) to the backend URL. It is built once from
// the configured base URL.
type Resolver struct {
	base string
}

// NewResolver returns a resolver rooted at base, e.g. http://localhost:8000.
func NewResolver(base string) *Resolver {
	return &Resolver{base: strings.TrimRight(base, "/")}
}

// Base returns the configured base URL.
func (r *Resolver) Base() string { return r.base }

// URL returns the request URL for op on entity. Keyed operations require a
// non-empty key; collection operations ignore it.
func (r *Resolver) URL(entity Entity, op Op, key string) (string, error) {
	if _, ok := ParseEntity(string(entity)); !ok {
		return "", fmt.Errorf("unknown entity %q", entity)
	}
	switch op {
	case List, Create:
		return r.base + "/" + string(entity), nil
	case Get, Update, Delete:
		if key == "" {
			return "", fmt.Errorf("%s %s: empty key", op, entity)
		}
		return r.base + "/" + string(entity) + "/" + url.PathEscape(key), nil
	}
	return "", fmt.Errorf("unknown operation %q", op)
}

// Filters narrows a grade listing.
type Filters struct {
	StudentID  string
	CourseCode string
}

// Query returns the filter as query parameters; empty fields are omitted.
func (f Filters) Query() map[string]string {
	q := make(map[string]string, 2)
	if f.StudentID != "" {
		q["student_id"] = f.StudentID
	}
	if f.CourseCode != "" {
		q["course_code"] = f.CourseCode
	}
	return q
}
