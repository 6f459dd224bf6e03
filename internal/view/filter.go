package view

import (
	"sort"
	"strings"

	"github.com/stemsi/records-admin/internal/model"
)

// FieldAll searches every field of a FieldSet.
const FieldAll = "all"

// FieldSet names the searchable text of a record type. Each field returns
// the strings a query is matched against.
type FieldSet[T any] struct {
	order  []string
	fields map[string]func(T) []string
	// extraAll is searched by FieldAll only.
	extraAll func(T) []string
}

// Names returns the searchable field names in display order, FieldAll first.
func (fs FieldSet[T]) Names() []string {
	return append([]string{FieldAll}, fs.order...)
}

// Has reports whether field names one of the set's fields.
func (fs FieldSet[T]) Has(field string) bool {
	_, ok := fs.fields[field]
	return ok
}

// Match reports whether item contains query, case-insensitively, in field.
// An empty query matches everything; an unknown field searches all fields.
// Whitespace in the query is matched literally.
func (fs FieldSet[T]) Match(item T, field, query string) bool {
	query = strings.ToLower(query)
	if query == "" {
		return true
	}
	if get, ok := fs.fields[field]; ok {
		return containsAny(get(item), query)
	}
	for _, name := range fs.order {
		if containsAny(fs.fields[name](item), query) {
			return true
		}
	}
	if fs.extraAll != nil {
		return containsAny(fs.extraAll(item), query)
	}
	return false
}

func containsAny(values []string, query string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// Filter returns the items matching query in field, preserving order.
func Filter[T any](items []T, fs FieldSet[T], field, query string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if fs.Match(it, field, query) {
			out = append(out, it)
		}
	}
	return out
}

// StudentFields searches students by id, name and e-mail.
var StudentFields = FieldSet[model.Student]{
	order: []string{"id", "name", "email"},
	fields: map[string]func(model.Student) []string{
		"id":    func(s model.Student) []string { return []string{s.StudentID} },
		"name":  func(s model.Student) []string { return []string{s.FirstName, s.LastName} },
		"email": func(s model.Student) []string { return []string{s.Email} },
	},
}

// CourseFields searches courses by code, name and description.
var CourseFields = FieldSet[model.Course]{
	order: []string{"code", "name", "description"},
	fields: map[string]func(model.Course) []string{
		"code":        func(c model.Course) []string { return []string{c.CourseCode} },
		"name":        func(c model.Course) []string { return []string{c.Name} },
		"description": func(c model.Course) []string { return []string{c.Description} },
	},
}

// GradeFields searches grades by student and course. FieldAll also covers
// the semester.
var GradeFields = FieldSet[model.Grade]{
	order: []string{"student", "course"},
	fields: map[string]func(model.Grade) []string{
		"student": func(g model.Grade) []string {
			out := []string{g.StudentID}
			if g.Student != nil {
				out = append(out, g.Student.FirstName, g.Student.LastName)
			}
			return out
		},
		"course": func(g model.Grade) []string {
			out := []string{g.CourseCode}
			if g.Course != nil {
				out = append(out, g.Course.Name)
			}
			return out
		},
	},
	extraAll: func(g model.Grade) []string { return []string{g.Semester} },
}

// Semesters returns the distinct semesters of grades, sorted.
func Semesters(grades []model.Grade) []string {
	seen := make(map[string]struct{}, len(grades))
	out := make([]string, 0)
	for _, g := range grades {
		if g.Semester == "" {
			continue
		}
		if _, ok := seen[g.Semester]; ok {
			continue
		}
		seen[g.Semester] = struct{}{}
		out = append(out, g.Semester)
	}
	sort.Strings(out)
	return out
}

// BySemester keeps the grades of one semester. An empty semester keeps all.
func BySemester(grades []model.Grade, semester string) []model.Grade {
	if semester == "" {
		return grades
	}
	out := make([]model.Grade, 0, len(grades))
	for _, g := range grades {
		if g.Semester == semester {
			out = append(out, g)
		}
	}
	return out
}
