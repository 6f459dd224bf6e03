// Package view holds the page-level state of the console: what each page
// fetched, how it is filtered, and what the user is editing. Handlers render
// these values; nothing here knows about HTTP.
package view

import (
	"errors"
	"fmt"
)

// Status is the fetch state of a page.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// ErrDiscarded is returned when the request that owned a fetch went away
// before the fetch completed. Its results must not be applied.
var ErrDiscarded = errors.New("view discarded before fetch completed")

// Labels for an entity in user-facing messages.
type noun struct {
	one, many string
}

var (
	studentNoun = noun{"student", "students"}
	courseNoun  = noun{"course", "courses"}
	gradeNoun   = noun{"grade", "grades"}
)

func loadListMessage(n noun) string {
	return fmt.Sprintf("Failed to load %s. Please try again later.", n.many)
}

func loadOneMessage(n noun) string {
	return fmt.Sprintf("Failed to load %s. Please try again later.", n.one)
}

func loadDetailMessage(n noun) string {
	return fmt.Sprintf("Failed to load %s information. Please try again later.", n.one)
}

func deleteMessage(n noun) string {
	return fmt.Sprintf("Failed to delete %s. Please try again later.", n.one)
}

func saveMessage(n noun) string {
	return fmt.Sprintf("Failed to save %s. Please try again later.", n.one)
}
