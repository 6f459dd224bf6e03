package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ViewStateKey returns the store key for a mounted page's view state.
func (r *CacheKeyStruct) ViewStateKey(kind, viewID string) string {
	return fmt.Sprintf("view:%s:%s", kind, viewID)
}

// ViewKindKey returns the store key recording which kind of list a view id belongs to.
func (r *CacheKeyStruct) ViewKindKey(viewID string) string {
	return fmt.Sprintf("view:%s:kind", viewID)
}

var CacheKey = NewCacheKeyStruct()
