package service

import (
	"context"
	"fmt"

	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/endpoint"
)

// records is the CRUD core shared by the entity services. Each call issues
// exactly one request to the resolved URL.
type records[T any] struct {
	client   *client.Client
	resolver *endpoint.Resolver
	entity   endpoint.Entity
	// found reports whether a fetched record is more than the zero value.
	found func(T) bool
}

func (r records[T]) url(op endpoint.Op, key string) (string, error) {
	u, err := r.resolver.URL(r.entity, op, key)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", r.entity, err)
	}
	return u, nil
}

func (r records[T]) list(ctx context.Context, query map[string]string) ([]T, error) {
	u, err := r.url(endpoint.List, "")
	if err != nil {
		return nil, err
	}
	var out []T
	if err := r.client.Get(ctx, u, query, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (r records[T]) get(ctx context.Context, key string) (*T, error) {
	u, err := r.url(endpoint.Get, key)
	if err != nil {
		return nil, err
	}
	var out T
	if err := r.client.Get(ctx, u, nil, &out); err != nil {
		return nil, err
	}
	if r.found != nil && !r.found(out) {
		return nil, fmt.Errorf("get %s %q: %w", r.entity, key, client.ErrNotFound)
	}
	return &out, nil
}

// create posts in and returns the backend's echo. An empty echo yields in.
func (r records[T]) create(ctx context.Context, in T) (*T, error) {
	u, err := r.url(endpoint.Create, "")
	if err != nil {
		return nil, err
	}
	out := in
	if err := r.client.Post(ctx, u, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r records[T]) update(ctx context.Context, key string, in T) (*T, error) {
	u, err := r.url(endpoint.Update, key)
	if err != nil {
		return nil, err
	}
	out := in
	if err := r.client.Put(ctx, u, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r records[T]) delete(ctx context.Context, key string) error {
	u, err := r.url(endpoint.Delete, key)
	if err != nil {
		return err
	}
	return r.client.Delete(ctx, u)
}
