// Package metadata extracts page metadata (title, description, images,
// favicon, timestamps, tags) from bookmark target URLs.
//
// Extraction is best-effort and never fails outward: any fetch or
// parse error produces a domain-derived fallback record instead. A TTL
// cache skips refetching; fallback records are never cached.
package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/booksyhq/booksy/internal/cache"
	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
)

const (
	metadataCacheTTL = 24 * time.Hour
	faviconCacheTTL  = 7 * 24 * time.Hour

	// Description heuristic bounds, applied to body paragraphs when no
	// description meta tag is present.
	minParagraphLen   = 20
	maxParagraphLen   = 300
	maxDescriptionLen = 300
)

func metadataKey(rawURL string) string { return "metadata:" + rawURL }
func faviconKey(rawURL string) string  { return "favicon:" + rawURL }

// SharedCache is an optional second cache layer shared between
// replicas (backed by redis). The zero value of the service runs
// without one.
type SharedCache interface {
	GetCachedMetadata(ctx context.Context, key string) (*domain.Metadata, error)
	CacheMetadata(ctx context.Context, key string, m *domain.Metadata, ttl time.Duration) error
	GetCachedFavicon(ctx context.Context, key string) (string, error)
	CacheFavicon(ctx context.Context, key, favicon string, ttl time.Duration) error
}

// Service is the metadata enricher.
type Service struct {
	fetcher        Fetcher
	faviconFetcher Fetcher
	meta           *cache.Cache[*domain.Metadata]
	favicons       *cache.Cache[string]
	shared         SharedCache // nil when running without redis
	logger         logger.Logger
}

// NewService creates the enricher. faviconFetcher uses a shorter
// timeout than fetcher; shared may be nil.
func NewService(fetcher, faviconFetcher Fetcher, shared SharedCache, log logger.Logger) *Service {
	return &Service{
		fetcher:        fetcher,
		faviconFetcher: faviconFetcher,
		meta:           cache.New[*domain.Metadata](),
		favicons:       cache.New[string](),
		shared:         shared,
		logger:         log,
	}
}

// ExtractMetadata fetches and parses rawURL and returns its metadata
// record. On any failure it returns the fallback record; it never
// returns an error to the caller.
func (s *Service) ExtractMetadata(ctx context.Context, rawURL string) *domain.Metadata {
	key := metadataKey(rawURL)

	if m, ok := s.meta.Get(key); ok {
		s.logger.Debug("metadata cache hit", logger.String("url", rawURL))
		return m
	}
	if s.shared != nil {
		if m, err := s.shared.GetCachedMetadata(ctx, key); err == nil && m != nil {
			s.meta.Set(key, m, metadataCacheTTL)
			return m
		}
	}

	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Warn("metadata fetch failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return fallbackMetadata(rawURL)
	}

	p, err := parsePage(body)
	if err != nil {
		s.logger.Warn("metadata parse failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return fallbackMetadata(rawURL)
	}

	m := extract(p, rawURL)

	s.meta.Set(key, m, metadataCacheTTL)
	if s.shared != nil {
		if err := s.shared.CacheMetadata(ctx, key, m, metadataCacheTTL); err != nil {
			s.logger.Warn("failed to cache metadata in shared cache",
				logger.String("url", rawURL),
				logger.Error(err))
		}
	}

	s.logger.Info("extracted metadata", logger.String("url", rawURL))
	return m
}

// ExtractFaviconOnly resolves just the favicon for rawURL, with its own
// cache key and a longer TTL. On failure it returns the synthesized
// /favicon.ico URL without caching it.
func (s *Service) ExtractFaviconOnly(ctx context.Context, rawURL string) string {
	key := faviconKey(rawURL)

	if favicon, ok := s.favicons.Get(key); ok {
		return favicon
	}
	if s.shared != nil {
		if favicon, err := s.shared.GetCachedFavicon(ctx, key); err == nil && favicon != "" {
			s.favicons.Set(key, favicon, faviconCacheTTL)
			return favicon
		}
	}

	body, err := s.faviconFetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Warn("favicon fetch failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return synthFaviconURL(rawURL)
	}

	p, err := parsePage(body)
	if err != nil {
		s.logger.Warn("favicon parse failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return synthFaviconURL(rawURL)
	}

	favicon := extractFavicon(p, rawURL)

	s.favicons.Set(key, favicon, faviconCacheTTL)
	if s.shared != nil {
		if err := s.shared.CacheFavicon(ctx, key, favicon, faviconCacheTTL); err != nil {
			s.logger.Warn("failed to cache favicon in shared cache",
				logger.String("url", rawURL),
				logger.Error(err))
		}
	}
	return favicon
}

// extract builds the metadata record from a parsed page. Each field
// takes the first non-empty source in preference order.
func extract(p *page, rawURL string) *domain.Metadata {
	m := &domain.Metadata{
		Title:         p.metaFirst("og:title", "twitter:title", "title"),
		Description:   p.metaFirst("og:description", "twitter:description", "description"),
		Thumbnail:     p.metaFirst("og:image", "twitter:image", "twitter:image:src"),
		SiteName:      p.metaFirst("og:site_name", "twitter:site"),
		Author:        p.metaFirst("og:author", "twitter:creator", "author"),
		PublishedTime: p.metaFirst("og:published_time", "article:published_time"),
		ModifiedTime:  p.metaFirst("og:modified_time", "article:modified_time"),
	}

	if m.Title == "" {
		m.Title = p.title
	}
	if m.Description == "" {
		m.Description = descriptionFromParagraphs(p.paragraphs)
	}

	m.Favicon = extractFavicon(p, rawURL)

	if keywords := p.metaFirst("keywords"); keywords != "" {
		for _, tag := range strings.Split(keywords, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				m.Tags = append(m.Tags, tag)
			}
		}
	}

	return m
}

// faviconRels in preference order.
var faviconRels = []string{
	"icon",
	"shortcut icon",
	"apple-touch-icon",
	"apple-touch-icon-precomposed",
}

func extractFavicon(p *page, baseURL string) string {
	for _, rel := range faviconRels {
		if href := p.links[rel]; href != "" {
			return resolveURL(href, baseURL)
		}
	}
	return synthFaviconURL(baseURL)
}

// descriptionFromParagraphs concatenates the leading paragraphs whose
// trimmed length falls within bounds, capped at maxDescriptionLen.
func descriptionFromParagraphs(paragraphs []string) string {
	var sb strings.Builder
	for _, text := range paragraphs {
		if len(text) > minParagraphLen && len(text) < maxParagraphLen {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
	}
	description := strings.TrimSpace(sb.String())
	// The cap counts characters, not bytes; slicing bytes could split a
	// multi-byte rune mid-sequence.
	if runes := []rune(description); len(runes) > maxDescriptionLen {
		description = string(runes[:maxDescriptionLen])
	}
	return description
}

// fallbackMetadata is the locally synthesizable record used when live
// extraction fails.
func fallbackMetadata(rawURL string) *domain.Metadata {
	host := hostOf(rawURL)
	return &domain.Metadata{
		Title:       host,
		Description: fmt.Sprintf("Link to %s", host),
		Favicon:     synthFaviconURL(rawURL),
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return u.Hostname()
}

func synthFaviconURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s/favicon.ico", u.Scheme, u.Hostname())
}

func resolveURL(href, baseURL string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
