// Package docs loads the document corpus that backs retrieval.
package docs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Loader reads every supported file under a directory and splits the
// contents into retrieval-sized chunks.
type Loader struct {
	dir      string
	splitter textsplitter.TextSplitter
	logger   *slog.Logger
}

// NewLoader creates a loader for the given directory.
func NewLoader(dir string, chunkSize, chunkOverlap int, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dir: dir,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
		logger: logger,
	}
}

// Load walks the directory and returns chunked documents with their source
// file recorded in metadata. The directory must exist; an empty corpus is
// not an error.
func (l *Loader) Load(ctx context.Context) ([]schema.Document, error) {
	if _, err := os.Stat(l.dir); err != nil {
		return nil, fmt.Errorf("documents directory %s: %w", l.dir, err)
	}

	var documents []schema.Document
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		docs, err := l.loadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if docs == nil {
			return nil // unsupported extension
		}

		rel, relErr := filepath.Rel(l.dir, path)
		if relErr != nil {
			rel = path
		}
		for i := range docs {
			if docs[i].Metadata == nil {
				docs[i].Metadata = map[string]any{}
			}
			docs[i].Metadata["source"] = rel
		}
		documents = append(documents, docs...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("document corpus loaded", "dir", l.dir, "chunks", len(documents))
	return documents, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) ([]schema.Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return documentloaders.NewPDF(f, info.Size()).LoadAndSplit(ctx, l.splitter)

	case ".txt", ".md":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return documentloaders.NewText(f).LoadAndSplit(ctx, l.splitter)

	default:
		return nil, nil
	}
}
