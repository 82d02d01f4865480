// Package library discovers, renders and keeps current the markdown
// documents pagenav serves. Every document owns an outline registry that
// live sessions read, so a re-render is visible to them immediately.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/document"
	"github.com/ziadkadry99/pagenav/internal/outline"
	"github.com/ziadkadry99/pagenav/internal/progress"
	"github.com/ziadkadry99/pagenav/internal/walker"
)

// Options configure discovery and rendering.
type Options struct {
	Root        string
	Include     []string
	Exclude     []string
	MaxFileSize int64
	Document    document.Options
}

// Entry is one loaded document. Entries are immutable; a re-render
// replaces the entry but keeps its Registry.
type Entry struct {
	Slug     string
	RelPath  string
	Path     string
	Hash     string
	Doc      *document.Document
	Registry *outline.Registry
}

// Summary describes a document for listings.
type Summary struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Path     string `json:"path"`
	Sections int    `json:"sections"`
}

// Library holds the rendered documents.
type Library struct {
	opts     Options
	root     string
	renderer *document.Renderer
	logger   *zap.Logger

	mu   sync.RWMutex
	docs map[string]*Entry
}

// New creates an empty library rooted at opts.Root.
func New(opts Options, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("library: resolve root: %w", err)
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = walker.DefaultMaxFileSize
	}
	return &Library{
		opts:     opts,
		root:     root,
		renderer: document.NewRenderer(opts.Document),
		logger:   logger,
		docs:     make(map[string]*Entry),
	}, nil
}

// Root returns the absolute documents directory.
func (l *Library) Root() string { return l.root }

// Load walks the root and renders every document. Files that fail to load
// are skipped and their errors combined into the returned error; the rest
// of the library is still replaced.
func (l *Library) Load(ctx context.Context, reporter progress.Reporter) error {
	if reporter == nil {
		reporter = progress.Discard{}
	}

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:     l.root,
		Include:     l.opts.Include,
		Exclude:     l.opts.Exclude,
		MaxFileSize: l.opts.MaxFileSize,
	})
	if err != nil {
		return fmt.Errorf("library: %w", err)
	}

	reporter.Start(len(files))
	defer reporter.Finish()

	docs := make(map[string]*Entry, len(files))
	var errs error
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		reporter.Update(i+1, f.RelPath)

		e, err := l.render(f)
		if err != nil {
			reporter.Skip(f.RelPath, err)
			errs = multierr.Append(errs, err)
			continue
		}
		if prev, dup := docs[e.Slug]; dup {
			err := fmt.Errorf("library: %s and %s share slug %q", prev.RelPath, e.RelPath, e.Slug)
			reporter.Skip(f.RelPath, err)
			errs = multierr.Append(errs, err)
			continue
		}
		docs[e.Slug] = e
	}

	l.mu.Lock()
	for slug, e := range docs {
		if old, ok := l.docs[slug]; ok {
			e.Registry = old.Registry
			e.Registry.Rebuild(e.Doc.Meta())
		}
	}
	for slug, old := range l.docs {
		if _, ok := docs[slug]; !ok {
			old.Registry.Rebuild(nil)
		}
	}
	l.docs = docs
	l.mu.Unlock()

	l.logger.Info("documents loaded",
		zap.String("root", l.root),
		zap.Int("documents", len(docs)),
		zap.Int("failed", len(multierr.Errors(errs))),
	)
	return errs
}

func (l *Library) render(f walker.FileInfo) (*Entry, error) {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("library: reading %s: %w", f.RelPath, err)
	}
	doc, err := l.renderer.Render(src, filepath.Base(f.RelPath))
	if err != nil {
		return nil, fmt.Errorf("library: rendering %s: %w", f.RelPath, err)
	}
	if len(doc.Sections) == 0 {
		l.logger.Debug("document has no sections", zap.String("path", f.RelPath))
	}
	return &Entry{
		Slug:     f.Slug,
		RelPath:  f.RelPath,
		Path:     f.Path,
		Hash:     f.ContentHash,
		Doc:      doc,
		Registry: outline.NewRegistry(doc.Meta()),
	}, nil
}

// List returns a summary of every document ordered by path.
func (l *Library) List() []Summary {
	l.mu.RLock()
	out := make([]Summary, 0, len(l.docs))
	for _, e := range l.docs {
		out = append(out, Summary{
			Slug:     e.Slug,
			Title:    e.Doc.Title,
			Path:     e.RelPath,
			Sections: len(e.Doc.Sections),
		})
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of documents.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.docs)
}

// Get returns the document with the given slug.
func (l *Library) Get(slug string) (*Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.docs[slug]
	return e, ok
}

// Registry returns the outline registry of the document slug.
func (l *Library) Registry(slug string) (*outline.Registry, bool) {
	e, ok := l.Get(slug)
	if !ok {
		return nil, false
	}
	return e.Registry, true
}

// Refresh re-renders the document at path after it changed on disk. It
// reports the document's slug and whether the library changed. Paths
// outside the root or not matching the include patterns are ignored, and
// a removed file drops its document.
func (l *Library) Refresh(path string) (string, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("library: %w", err)
	}
	rel, err := filepath.Rel(l.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false, nil
	}
	rel = filepath.ToSlash(rel)
	if walker.InExcludedDir(rel) || !walker.Matches(rel, l.opts.Include, l.opts.Exclude) {
		return "", false, nil
	}
	slug := walker.Slug(rel)

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return slug, l.remove(slug, rel), nil
	}
	if err != nil {
		return slug, false, fmt.Errorf("library: stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return "", false, nil
	}
	if info.Size() > l.opts.MaxFileSize {
		return slug, l.remove(slug, rel), nil
	}

	hash, err := walker.HashFile(abs)
	if err != nil {
		return slug, false, fmt.Errorf("library: hashing %s: %w", rel, err)
	}

	l.mu.RLock()
	cur, ok := l.docs[slug]
	l.mu.RUnlock()
	if ok && cur.RelPath != rel {
		return slug, false, fmt.Errorf("library: %s and %s share slug %q", cur.RelPath, rel, slug)
	}
	if ok && cur.Hash == hash {
		return slug, false, nil
	}

	e, err := l.render(walker.FileInfo{Path: abs, RelPath: rel, Slug: slug, Size: info.Size(), ContentHash: hash})
	if err != nil {
		return slug, false, err
	}

	l.mu.Lock()
	if cur, ok := l.docs[slug]; ok {
		e.Registry = cur.Registry
		e.Registry.Rebuild(e.Doc.Meta())
	}
	l.docs[slug] = e
	l.mu.Unlock()

	l.logger.Info("document refreshed", zap.String("document", slug), zap.Int("sections", len(e.Doc.Sections)))
	return slug, true, nil
}

func (l *Library) remove(slug, rel string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.docs[slug]
	if !ok || cur.RelPath != rel {
		return false
	}
	delete(l.docs, slug)
	cur.Registry.Rebuild(nil)
	l.logger.Info("document removed", zap.String("document", slug))
	return true
}
