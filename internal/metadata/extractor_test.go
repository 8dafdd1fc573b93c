package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/booksyhq/booksy/internal/domain"
	"github.com/booksyhq/booksy/internal/logger"
)

type fakeFetcher struct {
	body  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func newTestService(f Fetcher) *Service {
	return NewService(f, f, nil, logger.Nop())
}

const richPage = `<!DOCTYPE html>
<html>
<head>
  <title>Plain Title</title>
  <meta property="og:title" content="OG Title">
  <meta name="twitter:title" content="Twitter Title">
  <meta property="og:description" content="OG description.">
  <meta name="description" content="Plain description.">
  <meta property="og:image" content="https://cdn.example.com/cover.png">
  <meta property="og:site_name" content="Example">
  <meta name="author" content="Jo Writer">
  <meta property="article:published_time" content="2024-05-01T10:00:00Z">
  <meta name="keywords" content="go, bookmarks , sync">
  <link rel="icon" href="/static/icon.svg">
  <link rel="shortcut icon" href="/old-icon.ico">
</head>
<body><p>Body paragraph that should be ignored here.</p></body>
</html>`

func TestExtractMetadataPrefersOpenGraph(t *testing.T) {
	f := &fakeFetcher{body: richPage}
	s := newTestService(f)

	m := s.ExtractMetadata(context.Background(), "https://example.com/post")

	if m.Title != "OG Title" {
		t.Errorf("Title = %q, want %q", m.Title, "OG Title")
	}
	if m.Description != "OG description." {
		t.Errorf("Description = %q, want %q", m.Description, "OG description.")
	}
	if m.Thumbnail != "https://cdn.example.com/cover.png" {
		t.Errorf("Thumbnail = %q", m.Thumbnail)
	}
	if m.SiteName != "Example" {
		t.Errorf("SiteName = %q, want %q", m.SiteName, "Example")
	}
	if m.Author != "Jo Writer" {
		t.Errorf("Author = %q, want %q", m.Author, "Jo Writer")
	}
	if m.PublishedTime != "2024-05-01T10:00:00Z" {
		t.Errorf("PublishedTime = %q", m.PublishedTime)
	}
	// Relative favicon hrefs resolve against the page URL.
	if m.Favicon != "https://example.com/static/icon.svg" {
		t.Errorf("Favicon = %q", m.Favicon)
	}
	want := []string{"go", "bookmarks", "sync"}
	if len(m.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", m.Tags, want)
	}
	for i, tag := range want {
		if m.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, want %q", i, m.Tags[i], tag)
		}
	}
}

func TestExtractMetadataFallsBackThroughSources(t *testing.T) {
	page := `<html><head>
		<title>  Title   Tag  </title>
		<meta name="twitter:title" content="Twitter Title">
		<meta name="description" content="Plain description.">
	</head><body></body></html>`
	f := &fakeFetcher{body: page}
	s := newTestService(f)

	m := s.ExtractMetadata(context.Background(), "https://example.com")

	if m.Title != "Twitter Title" {
		t.Errorf("Title = %q, want twitter source", m.Title)
	}
	if m.Description != "Plain description." {
		t.Errorf("Description = %q, want plain meta source", m.Description)
	}
	// No link tags at all: favicon synthesizes from the host.
	if m.Favicon != "https://example.com/favicon.ico" {
		t.Errorf("Favicon = %q", m.Favicon)
	}
}

func TestExtractMetadataTitleTagWhenNoMeta(t *testing.T) {
	f := &fakeFetcher{body: `<html><head><title>Only Title</title></head><body></body></html>`}
	s := newTestService(f)

	m := s.ExtractMetadata(context.Background(), "https://example.com")
	if m.Title != "Only Title" {
		t.Errorf("Title = %q, want title tag text", m.Title)
	}
}

func TestExtractMetadataDescriptionFromParagraphs(t *testing.T) {
	long := strings.Repeat("x", 400)
	page := fmt.Sprintf(`<html><body>
		<p>short</p>
		<p>This paragraph is long enough to qualify for the summary.</p>
		<p>%s</p>
		<p>This fourth paragraph is never collected at all, honest.</p>
	</body></html>`, long)
	f := &fakeFetcher{body: page}
	s := newTestService(f)

	m := s.ExtractMetadata(context.Background(), "https://example.com")

	// Too-short and too-long paragraphs are skipped; only the first
	// three paragraphs are considered at all.
	want := "This paragraph is long enough to qualify for the summary."
	if m.Description != want {
		t.Errorf("Description = %q, want %q", m.Description, want)
	}
}

func TestExtractMetadataDescriptionCapped(t *testing.T) {
	para := strings.Repeat("a", 250)
	page := fmt.Sprintf(`<html><body><p>%s</p><p>%s</p></body></html>`, para, para)
	f := &fakeFetcher{body: page}
	s := newTestService(f)

	m := s.ExtractMetadata(context.Background(), "https://example.com")
	if len(m.Description) != maxDescriptionLen {
		t.Errorf("Description length = %d, want cap %d", len(m.Description), maxDescriptionLen)
	}
}

func TestExtractMetadataDescriptionCapKeepsRunesWhole(t *testing.T) {
	// Each paragraph is 140 two-byte runes, so the combined text crosses
	// the cap partway through a rune when counted in bytes.
	para := strings.Repeat("é", 140)
	page := fmt.Sprintf(`<html><body><p>%s</p><p>%s</p><p>%s</p></body></html>`,
		para, para, para)
	f := &fakeFetcher{body: page}
	s := newTestService(f)

	m := s.ExtractMetadata(context.Background(), "https://example.com")

	if !utf8.ValidString(m.Description) {
		t.Fatal("Description is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(m.Description); n != maxDescriptionLen {
		t.Errorf("Description runes = %d, want cap %d", n, maxDescriptionLen)
	}
}

func TestExtractMetadataFetchFailureFallback(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	s := newTestService(f)

	m := s.ExtractMetadata(context.Background(), "https://broken.example.com/page")

	if m.Title != "broken.example.com" {
		t.Errorf("fallback Title = %q, want host", m.Title)
	}
	if m.Description != "Link to broken.example.com" {
		t.Errorf("fallback Description = %q", m.Description)
	}
	if m.Favicon != "https://broken.example.com/favicon.ico" {
		t.Errorf("fallback Favicon = %q", m.Favicon)
	}
}

func TestExtractMetadataFallbackNotCached(t *testing.T) {
	f := &fakeFetcher{err: errors.New("timeout")}
	s := newTestService(f)
	ctx := context.Background()

	s.ExtractMetadata(ctx, "https://down.example.com")
	s.ExtractMetadata(ctx, "https://down.example.com")

	// Each call retries the fetch instead of serving the fallback from
	// cache.
	if f.calls != 2 {
		t.Fatalf("fetch calls = %d, want 2", f.calls)
	}
}

func TestExtractMetadataCachesSuccess(t *testing.T) {
	f := &fakeFetcher{body: richPage}
	s := newTestService(f)
	ctx := context.Background()

	first := s.ExtractMetadata(ctx, "https://example.com")
	second := s.ExtractMetadata(ctx, "https://example.com")

	if f.calls != 1 {
		t.Fatalf("fetch calls = %d, want 1", f.calls)
	}
	if first.Title != second.Title {
		t.Errorf("cached record differs: %q vs %q", first.Title, second.Title)
	}
}

func TestExtractFaviconOnlyRelPreference(t *testing.T) {
	page := `<html><head>
		<link rel="apple-touch-icon" href="/apple.png">
		<link rel="ICON" href="/favicon.svg">
	</head></html>`
	f := &fakeFetcher{body: page}
	s := newTestService(f)

	got := s.ExtractFaviconOnly(context.Background(), "https://example.com")
	if got != "https://example.com/favicon.svg" {
		t.Errorf("favicon = %q, want rel=icon to win", got)
	}
}

func TestExtractFaviconOnlyFailureSynthesizesAndSkipsCache(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	s := newTestService(f)
	ctx := context.Background()

	got := s.ExtractFaviconOnly(ctx, "https://example.com/deep/path")
	if got != "https://example.com/favicon.ico" {
		t.Errorf("favicon = %q, want synthesized root icon", got)
	}

	s.ExtractFaviconOnly(ctx, "https://example.com/deep/path")
	if f.calls != 2 {
		t.Fatalf("fetch calls = %d, want 2", f.calls)
	}
}

type fakeShared struct {
	meta     map[string]*domain.Metadata
	favicons map[string]string
}

func newFakeShared() *fakeShared {
	return &fakeShared{
		meta:     make(map[string]*domain.Metadata),
		favicons: make(map[string]string),
	}
}

func (f *fakeShared) GetCachedMetadata(_ context.Context, key string) (*domain.Metadata, error) {
	return f.meta[key], nil
}

func (f *fakeShared) CacheMetadata(_ context.Context, key string, m *domain.Metadata, _ time.Duration) error {
	f.meta[key] = m
	return nil
}

func (f *fakeShared) GetCachedFavicon(_ context.Context, key string) (string, error) {
	return f.favicons[key], nil
}

func (f *fakeShared) CacheFavicon(_ context.Context, key, favicon string, _ time.Duration) error {
	f.favicons[key] = favicon
	return nil
}

func TestExtractMetadataSharedCacheHitSkipsFetch(t *testing.T) {
	shared := newFakeShared()
	shared.meta[metadataKey("https://example.com")] = &domain.Metadata{Title: "From Shared"}

	f := &fakeFetcher{body: richPage}
	s := NewService(f, f, shared, logger.Nop())

	m := s.ExtractMetadata(context.Background(), "https://example.com")
	if m.Title != "From Shared" {
		t.Errorf("Title = %q, want shared cache record", m.Title)
	}
	if f.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", f.calls)
	}
}

func TestExtractMetadataWritesThroughSharedCache(t *testing.T) {
	shared := newFakeShared()
	f := &fakeFetcher{body: richPage}
	s := NewService(f, f, shared, logger.Nop())

	s.ExtractMetadata(context.Background(), "https://example.com")

	stored := shared.meta[metadataKey("https://example.com")]
	if stored == nil || stored.Title != "OG Title" {
		t.Fatalf("shared cache not populated, got %+v", stored)
	}
}
