package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/catalog"
	"github.com/stemsi/records-admin/internal/client"
)

// TermService provides the upcoming-term panel. It asks the optional
// term-info endpoint first and falls back to the catalog.
type TermService struct {
	client  *client.Client
	url     string
	catalog *catalog.Catalog
	log     zerolog.Logger
}

// NewTermService creates a new TermService. An empty url means catalog only.
func NewTermService(c *client.Client, url string, cat *catalog.Catalog, log zerolog.Logger) *TermService {
	return &TermService{
		client:  c,
		url:     url,
		catalog: cat,
		log:     log.With().Str("component", "term_service").Logger(),
	}
}

// Info returns the upcoming term. It never fails; remote errors are logged.
func (s *TermService) Info(ctx context.Context) catalog.TermInfo {
	if s.url == "" {
		return s.catalog.Term
	}
	var info catalog.TermInfo
	if err := s.client.Get(ctx, s.url, nil, &info); err != nil {
		s.log.Warn().Err(err).Msg("Term info endpoint failed, using catalog")
		return s.catalog.Term
	}
	if info.Term == "" {
		return s.catalog.Term
	}
	return info
}

// Semesters returns the semesters offered for grade entry.
func (s *TermService) Semesters() []string {
	return s.catalog.Semesters
}
