package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/config"
	"github.com/stemsi/records-admin/internal/model"
	"github.com/stemsi/records-admin/internal/repository"
)

// Keyed is a record with a stable key.
type Keyed interface {
	Key() string
}

// ListSource is the part of an entity service a list page needs.
type ListSource[T Keyed] interface {
	GetAll(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, key string) error
}

// Query is the filter a list page is rendered with.
type Query struct {
	Text     string `json:"q" form:"q"`
	Field    string `json:"field" form:"field"`
	Semester string `json:"semester" form:"semester"`
}

// ListState is the persisted state of one mounted list page. Items is the
// collection fetched at mount, minus anything deleted since.
type ListState[T Keyed] struct {
	ViewID  string `json:"view_id"`
	Status  Status `json:"status"`
	Items   []T    `json:"items"`
	Message string `json:"message,omitempty"`
}

// ListController owns a list page: one fetch at mount, local filtering and
// local removal on delete.
type ListController[T Keyed] struct {
	kind   string
	noun   noun
	source ListSource[T]
	fields FieldSet[T]
	narrow func(items []T, q Query) []T
	store  repository.StateStore
	log    zerolog.Logger
	newID  func() string
}

func newListController[T Keyed](kind string, n noun, src ListSource[T], fields FieldSet[T], store repository.StateStore, log zerolog.Logger) *ListController[T] {
	return &ListController[T]{
		kind:   kind,
		noun:   n,
		source: src,
		fields: fields,
		store:  store,
		log:    log.With().Str("component", kind+"_list").Logger(),
		newID:  func() string { return uuid.New().String() },
	}
}

// NewStudentList creates the students list controller.
func NewStudentList(src ListSource[model.Student], store repository.StateStore, log zerolog.Logger) *ListController[model.Student] {
	return newListController("students", studentNoun, src, StudentFields, store, log)
}

// NewCourseList creates the courses list controller.
func NewCourseList(src ListSource[model.Course], store repository.StateStore, log zerolog.Logger) *ListController[model.Course] {
	return newListController("courses", courseNoun, src, CourseFields, store, log)
}

// NewGradeList creates the grades list controller. The semester filter is
// applied before the text filter.
func NewGradeList(src ListSource[model.Grade], store repository.StateStore, log zerolog.Logger) *ListController[model.Grade] {
	c := newListController("grades", gradeNoun, src, GradeFields, store, log)
	c.narrow = func(items []model.Grade, q Query) []model.Grade {
		return BySemester(items, q.Semester)
	}
	return c
}

// Kind names the list, e.g. "students".
func (c *ListController[T]) Kind() string { return c.kind }

// Fields returns the searchable fields of the list.
func (c *ListController[T]) Fields() FieldSet[T] { return c.fields }

// Mount fetches the collection once and stores it under a fresh view id.
// A failed fetch yields an Error state with a user-facing message.
func (c *ListController[T]) Mount(ctx context.Context) (*ListState[T], error) {
	st := &ListState[T]{ViewID: c.newID(), Status: StatusLoading}

	items, err := c.source.GetAll(ctx)
	if ctx.Err() != nil {
		return nil, ErrDiscarded
	}
	if err != nil {
		c.log.Error().Err(err).Msg("List fetch failed")
		st.Status = StatusError
		st.Message = loadListMessage(c.noun)
	} else {
		st.Status = StatusReady
		st.Items = items
	}

	c.save(ctx, st)
	return st, nil
}

// Resume loads the state of a mounted page without refetching.
func (c *ListController[T]) Resume(ctx context.Context, viewID string) (*ListState[T], error) {
	raw, err := c.store.Get(ctx, config.CacheKey.ViewStateKey(c.kind, viewID))
	if err != nil {
		return nil, err
	}
	var st ListState[T]
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode %s view state: %w", c.kind, err)
	}
	return &st, nil
}

// Open resumes viewID when it is still held, else mounts afresh.
func (c *ListController[T]) Open(ctx context.Context, viewID string) (*ListState[T], error) {
	if viewID != "" {
		st, err := c.Resume(ctx, viewID)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, repository.ErrStateNotFound) {
			c.log.Warn().Err(err).Str("view_id", viewID).Msg("Resume failed, remounting")
		}
	}
	return c.Mount(ctx)
}

// Delete removes key upstream. On success the item is dropped from the held
// collection without a refetch; on failure the collection is kept and the
// returned state carries an error message. The message is never stored, so
// later filter changes do not show it again.
func (c *ListController[T]) Delete(ctx context.Context, viewID, key string) (*ListState[T], error) {
	err := c.source.Delete(ctx, key)
	if ctx.Err() != nil {
		return nil, ErrDiscarded
	}

	st, openErr := c.Open(ctx, viewID)
	if openErr != nil {
		return nil, openErr
	}

	if err != nil {
		c.log.Error().Err(err).Str("key", key).Msg("Delete failed")
		failed := *st
		failed.Status = StatusError
		failed.Message = deleteMessage(c.noun)
		return &failed, nil
	}

	st.Items = removeKey(st.Items, key)
	st.Status = StatusReady
	st.Message = ""
	c.save(ctx, st)
	return st, nil
}

// Visible returns the held items that pass q.
func (c *ListController[T]) Visible(st *ListState[T], q Query) []T {
	items := st.Items
	if c.narrow != nil {
		items = c.narrow(items, q)
	}
	return Filter(items, c.fields, q.Field, q.Text)
}

// VisibleKeys returns the keys of the held items that pass q.
func (c *ListController[T]) VisibleKeys(ctx context.Context, viewID string, q Query) ([]string, error) {
	st, err := c.Resume(ctx, viewID)
	if err != nil {
		return nil, err
	}
	visible := c.Visible(st, q)
	keys := make([]string, len(visible))
	for i, it := range visible {
		keys[i] = it.Key()
	}
	return keys, nil
}

func (c *ListController[T]) save(ctx context.Context, st *ListState[T]) {
	raw, err := json.Marshal(st)
	if err != nil {
		c.log.Error().Err(err).Msg("Encode view state failed")
		return
	}
	if err := c.store.Set(ctx, config.CacheKey.ViewStateKey(c.kind, st.ViewID), raw); err != nil {
		c.log.Error().Err(err).Str("view_id", st.ViewID).Msg("Save view state failed")
		return
	}
	if err := c.store.Set(ctx, config.CacheKey.ViewKindKey(st.ViewID), []byte(c.kind)); err != nil {
		c.log.Error().Err(err).Str("view_id", st.ViewID).Msg("Save view kind failed")
	}
}

func removeKey[T Keyed](items []T, key string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Key() != key {
			out = append(out, it)
		}
	}
	return out
}

// KeyLister is a list page that can answer live filter queries.
type KeyLister interface {
	Kind() string
	VisibleKeys(ctx context.Context, viewID string, q Query) ([]string, error)
}

// LiveFilter answers live filter queries for any mounted list page.
type LiveFilter struct {
	store repository.StateStore
	lists map[string]KeyLister
}

// NewLiveFilter creates a LiveFilter over the given lists.
func NewLiveFilter(store repository.StateStore, lists ...KeyLister) *LiveFilter {
	m := make(map[string]KeyLister, len(lists))
	for _, l := range lists {
		m[l.Kind()] = l
	}
	return &LiveFilter{store: store, lists: m}
}

// Keys returns the visible keys of the page mounted as viewID.
func (f *LiveFilter) Keys(ctx context.Context, viewID string, q Query) ([]string, error) {
	kind, err := f.store.Get(ctx, config.CacheKey.ViewKindKey(viewID))
	if err != nil {
		return nil, err
	}
	l, ok := f.lists[string(kind)]
	if !ok {
		return nil, repository.ErrStateNotFound
	}
	return l.VisibleKeys(ctx, viewID, q)
}
