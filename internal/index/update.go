package index

import (
	"fmt"
	"os"
	"time"

	"github.com/etr/wonk-sub000/internal/extract"
	"github.com/etr/wonk-sub000/internal/store"
)

// UpdateResult is the outcome of one Incremental Updater operation.
type UpdateResult string

const (
	Unchanged UpdateResult = "unchanged"
	Updated   UpdateResult = "updated"
	Removed   UpdateResult = "removed"
)

// EventKind mirrors the watcher's FileChange action vocabulary for
// process_events dispatch.
type EventKind int

const (
	EventCreate EventKind = iota
	EventModify
	EventDelete
)

// Event is one batched filesystem change handed to process_events.
type Event struct {
	Path string
	Kind EventKind
}

// UpdateOptions configures Reindex/IndexNew/ProcessEvents, mirroring
// BuildOptions' additional_extensions and max_file_size_kb handling so an
// incremental update treats a file the same way a full Build would.
type UpdateOptions struct {
	AdditionalExtensions []string
	MaxFileSizeKB        uint64
}

// Reindex reads path, hashes it, and if the hash differs from the stored
// record, reparses and replaces the file's rows in a single transaction.
// An unsupported extension or an over-budget file clears any pre-existing
// rows and reports Unchanged, matching the "unsupported -> delete stale
// rows" rule.
func Reindex(s *store.Store, path string, opts UpdateOptions) (UpdateResult, error) {
	if opts.MaxFileSizeKB > 0 {
		if info, err := os.Stat(path); err == nil && uint64(info.Size()) > opts.MaxFileSizeKB*1024 {
			return clearStale(s, path)
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("index: reindex: read %s: %w", path, err)
	}
	hash := store.ContentHash(content)

	existing, err := s.FileByPath(path)
	if err != nil {
		return "", fmt.Errorf("index: reindex: lookup %s: %w", path, err)
	}
	if existing != nil && existing.ContentHash == hash {
		return Unchanged, nil
	}

	lang, ok := extract.LanguageForFileWithExtras(path, opts.AdditionalExtensions)
	if !ok {
		return clearStale(s, path)
	}

	res, err := extract.Extract(lang, content)
	if err != nil {
		return "", fmt.Errorf("index: reindex: extract %s: %w", path, err)
	}

	fr := store.FileResult{
		File: store.FileRecord{
			Path:         path,
			Language:     lang,
			ContentHash:  hash,
			LastIndexed:  time.Now().Unix(),
			LineCount:    res.LineCount,
			SymbolsCount: len(res.Symbols),
		},
		Symbols:    res.Symbols,
		References: res.References,
		Imports:    res.Imports,
	}
	if err := s.ApplyFileUpdate(fr); err != nil {
		return "", fmt.Errorf("index: reindex: apply %s: %w", path, err)
	}
	return Updated, nil
}

// clearStale deletes path's rows if present and reports Unchanged, the
// outcome for a file that no longer qualifies for indexing (unsupported
// extension, or over max_file_size_kb).
func clearStale(s *store.Store, path string) (UpdateResult, error) {
	existing, err := s.FileByPath(path)
	if err != nil {
		return "", fmt.Errorf("index: reindex: lookup %s: %w", path, err)
	}
	if existing != nil {
		if err := s.DeleteFile(path); err != nil {
			return "", fmt.Errorf("index: reindex: delete unsupported %s: %w", path, err)
		}
	}
	return Unchanged, nil
}

// Remove deletes path's rows from every table in one transaction.
func Remove(s *store.Store, path string) error {
	if err := s.DeleteFile(path); err != nil {
		return fmt.Errorf("index: remove %s: %w", path, err)
	}
	return nil
}

// IndexNew is Reindex against a file with no stored hash; an unsupported
// extension is a pure no-op (there are no stale rows to clear).
func IndexNew(s *store.Store, path string, opts UpdateOptions) (UpdateResult, error) {
	return Reindex(s, path, opts)
}

// ProcessEvents dispatches each event to the matching operation, counting
// Updated results. A failure on one event is recorded but does not stop the
// batch from continuing — the caller's log sink receives each error.
func ProcessEvents(s *store.Store, events []Event, opts UpdateOptions, onError func(path string, err error)) (updated int) {
	for _, ev := range events {
		var err error
		var result UpdateResult

		switch ev.Kind {
		case EventDelete:
			err = Remove(s, ev.Path)
		case EventCreate:
			result, err = IndexNew(s, ev.Path, opts)
		case EventModify:
			result, err = Reindex(s, ev.Path, opts)
		}

		if err != nil {
			if onError != nil {
				onError(ev.Path, err)
			}
			continue
		}
		if result == Updated {
			updated++
		}
	}
	return updated
}
