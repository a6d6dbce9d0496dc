// Package store implements the single-file, cached, serialized persistence
// layer of spec §4.1: one JSON document holding rooms and lectures, a
// lock-free read path served from an in-memory cache, and a single write
// lock serializing inserts/updates/deletes and their atomic file flushes.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/classroomlive/server/internal/apperr"
	"github.com/classroomlive/server/internal/models"
)

// Store is the singleton-by-convention persistence layer. Tests may
// construct as many independent Stores as they like against alternate
// paths (spec §9: "injected dependency with process-wide default").
type Store struct {
	path    string
	logger  *zap.Logger
	writeMu sync.Mutex
	cache   atomic.Pointer[Document]
}

// New loads path into memory, seeding a default document (one default room,
// no lectures) if the file does not yet exist.
func New(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	s.cache.Store(doc)
	return s, nil
}

func (s *Store) load() (*Document, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		doc := seedDocument()
		if err := s.flush(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabaseReadError, "read store file", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperr.Wrap(apperr.KindDatabaseReadError, "parse store file", err)
	}
	if doc.Rooms == nil {
		doc.Rooms = []models.Room{}
	}
	if doc.Lectures == nil {
		doc.Lectures = []models.Lecture{}
	}
	return &doc, nil
}

// flush writes doc to a sibling tempfile and renames it into place, per the
// atomic-replace durability contract.
func (s *Store) flush(doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperr.Wrap(apperr.KindDatabaseWriteError, "create store directory", err)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.KindDatabaseWriteError, "marshal store document", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.tmp")
	if err != nil {
		return apperr.Wrap(apperr.KindDatabaseWriteError, "create temp store file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return apperr.Wrap(apperr.KindDatabaseWriteError, "write temp store file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return apperr.Wrap(apperr.KindDatabaseWriteError, "close temp store file", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return apperr.Wrap(apperr.KindDatabaseWriteError, "rename temp store file", err)
	}
	return nil
}

// withWriteLock runs mutate against a fresh clone of the cached document,
// flushes the result, and swaps the cache — callers observe writes in
// commit order because both the flush and the swap happen under writeMu.
func (s *Store) withWriteLock(mutate func(*Document)) (*Document, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	doc := s.cache.Load().clone()
	mutate(doc)
	if err := s.flush(doc); err != nil {
		if s.logger != nil {
			s.logger.Error("store flush failed", zap.Error(err))
		}
		return nil, err
	}
	s.cache.Store(doc)
	return doc, nil
}

func (s *Store) snapshot() *Document {
	return s.cache.Load()
}

// --- Rooms ---

// FindRoom returns the first room matching pred.
func (s *Store) FindRoom(pred Predicate[models.Room]) (models.Room, bool) {
	return findOne(s.snapshot().Rooms, pred)
}

// FindRooms returns every room matching pred.
func (s *Store) FindRooms(pred Predicate[models.Room]) []models.Room {
	return find(s.snapshot().Rooms, pred)
}

// InsertRoom appends room and persists it.
func (s *Store) InsertRoom(room models.Room) (models.Room, error) {
	_, err := s.withWriteLock(func(doc *Document) {
		doc.Rooms = append(doc.Rooms, room)
	})
	if err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// UpdateRoom shallow-merges mutate into the first room matching pred.
func (s *Store) UpdateRoom(pred Predicate[models.Room], mutate func(*models.Room)) (models.Room, bool, error) {
	var updated models.Room
	var found bool
	_, err := s.withWriteLock(func(doc *Document) {
		updated, found = updateFirst(doc.Rooms, pred, mutate)
	})
	if err != nil {
		return models.Room{}, false, err
	}
	return updated, found, nil
}

// DeleteRoom removes every room matching pred, returning the count removed.
func (s *Store) DeleteRoom(pred Predicate[models.Room]) (int, error) {
	var removed int
	_, err := s.withWriteLock(func(doc *Document) {
		doc.Rooms, removed = removeAll(doc.Rooms, pred)
	})
	return removed, err
}

// --- Lectures ---

// FindLecture returns the first lecture matching pred.
func (s *Store) FindLecture(pred Predicate[models.Lecture]) (models.Lecture, bool) {
	return findOne(s.snapshot().Lectures, pred)
}

// FindLectures returns every lecture matching pred.
func (s *Store) FindLectures(pred Predicate[models.Lecture]) []models.Lecture {
	return find(s.snapshot().Lectures, pred)
}

// InsertLecture appends lecture and persists it.
func (s *Store) InsertLecture(lecture models.Lecture) (models.Lecture, error) {
	_, err := s.withWriteLock(func(doc *Document) {
		doc.Lectures = append(doc.Lectures, lecture)
	})
	if err != nil {
		return models.Lecture{}, err
	}
	return lecture, nil
}

// UpdateLecture shallow-merges mutate into the first lecture matching pred.
func (s *Store) UpdateLecture(pred Predicate[models.Lecture], mutate func(*models.Lecture)) (models.Lecture, bool, error) {
	var updated models.Lecture
	var found bool
	_, err := s.withWriteLock(func(doc *Document) {
		updated, found = updateFirst(doc.Lectures, pred, mutate)
	})
	if err != nil {
		return models.Lecture{}, false, err
	}
	return updated, found, nil
}

// DeleteLecture removes every lecture matching pred, returning the count
// removed.
func (s *Store) DeleteLecture(pred Predicate[models.Lecture]) (int, error) {
	var removed int
	_, err := s.withWriteLock(func(doc *Document) {
		doc.Lectures, removed = removeAll(doc.Lectures, pred)
	})
	return removed, err
}
