// Package collection owns the user's reading list: an ordered, in-memory set
// of book records that is written back to a key-value store after every
// mutation.
//
// A Manager is not safe for concurrent use. Callers that share one across
// goroutines wrap it in Locked.
package collection

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/kvstore"
)

// ErrCorrupt wraps decode failures of the stored collection.
var ErrCorrupt = errors.New("stored collection is corrupt")

// ErrInvalidStatus is returned with Invalid for a status outside
// entities.AllReadingStatuses.
var ErrInvalidStatus = errors.New("invalid reading status")

// Outcome says what a mutating call did. Persistence failures are reported
// separately as an error; the outcome still describes the in-memory change.
type Outcome int

const (
	Applied Outcome = iota
	Duplicate
	NotFound
	// Invalid means the input was rejected and nothing changed
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Duplicate:
		return "duplicate"
	case NotFound:
		return "not_found"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Op names a mutating operation in Events.
type Op string

const (
	OpAdd      Op = "add"
	OpUpdate   Op = "update"
	OpDelete   Op = "delete"
	OpFavorite Op = "favourite"
	OpStatus   Op = "status"
)

// Event is emitted to observers after every mutating call.
// Book is the record after the change, or the candidate when nothing changed.
type Event struct {
	Op      Op
	Book    entities.Book
	Outcome Outcome
	Err     error
}

// Observer is called synchronously, in order, from the mutating call.
type Observer func(Event)

// Stats summarizes the collection.
type Stats struct {
	Total     int                            `json:"total"`
	Favorites int                            `json:"favorites"`
	ByStatus  map[entities.ReadingStatus]int `json:"by_status"`
}

type Manager struct {
	store     kvstore.Store
	key       string
	books     []entities.Book
	observers []Observer
}

type Option func(*Manager)

// WithKey overrides the store key the collection lives under.
func WithKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.key = key
		}
	}
}

// WithObserver registers fn for mutation events.
func WithObserver(fn Observer) Option {
	return func(m *Manager) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}

// NewManager builds an empty manager. Call Load to restore persisted state.
func NewManager(store kvstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		key:   entities.SettingKeyCollection,
		books: []entities.Book{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key returns the store key the collection is persisted under.
func (m *Manager) Key() string {
	return m.key
}

// Load replaces the in-memory collection with the stored one. A missing key
// is an empty collection. On any error the collection is left empty and the
// error is returned for the caller to report.
func (m *Manager) Load() error {
	m.books = []entities.Book{}

	data, err := m.store.Get(m.key)
	if errors.Is(err, kvstore.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read collection %q: %w", m.key, err)
	}

	books, err := Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	m.books = books
	return nil
}

// Add appends book unless a record with the same title and author exists.
// A nil id is replaced with a fresh one, as is an id already in use.
func (m *Manager) Add(book entities.Book) (entities.Book, Outcome, error) {
	if err := checkStatus(book.Status, true); err != nil {
		return book, Invalid, err
	}
	for _, existing := range m.books {
		if existing.SameWork(book) {
			m.notify(OpAdd, existing, Duplicate, nil)
			return existing.Clone(), Duplicate, nil
		}
	}

	record := book.Clone()
	if record.ID == uuid.Nil || m.indexOf(record.ID) >= 0 {
		record.ID = uuid.New()
	}
	if record.Status == "" {
		record.Status = entities.StatusNotStarted
	}
	m.books = append(m.books, record)

	err := m.persist()
	m.notify(OpAdd, record, Applied, err)
	return record.Clone(), Applied, err
}

// Update overwrites title, author, note, status and favourite flag of the
// record with book.ID. Synopsis and image name are kept. An empty status
// keeps the current one.
func (m *Manager) Update(book entities.Book) (entities.Book, Outcome, error) {
	if err := checkStatus(book.Status, true); err != nil {
		return book, Invalid, err
	}
	idx := m.indexOf(book.ID)
	if idx < 0 {
		m.notify(OpUpdate, book, NotFound, nil)
		return book, NotFound, nil
	}

	record := &m.books[idx]
	record.Title = book.Title
	record.Author = book.Author
	record.Note = book.Note
	if book.Status != "" {
		record.Status = book.Status
	}
	record.IsFavorite = book.IsFavorite

	updated := record.Clone()
	err := m.persist()
	m.notify(OpUpdate, updated, Applied, err)
	return updated, Applied, err
}

// Delete removes the records with the given ids and returns how many were
// removed. Unknown ids are skipped. Nothing is written when nothing changed.
func (m *Manager) Delete(ids ...uuid.UUID) (int, error) {
	targets := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}
	return m.removeWhere(func(i int, book entities.Book) bool {
		_, ok := targets[book.ID]
		return ok
	})
}

// DeleteAt removes the records at the given positions of the unfiltered
// collection. All positions refer to the order before the call; positions
// out of range are skipped.
func (m *Manager) DeleteAt(positions ...int) (int, error) {
	targets := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(m.books) {
			targets[p] = struct{}{}
		}
	}
	return m.removeWhere(func(i int, book entities.Book) bool {
		_, ok := targets[i]
		return ok
	})
}

func (m *Manager) removeWhere(match func(i int, book entities.Book) bool) (int, error) {
	kept := make([]entities.Book, 0, len(m.books))
	var removed []entities.Book
	for i, book := range m.books {
		if match(i, book) {
			removed = append(removed, book)
			continue
		}
		kept = append(kept, book)
	}
	if len(removed) == 0 {
		return 0, nil
	}

	m.books = kept
	err := m.persist()
	for _, book := range removed {
		m.notify(OpDelete, book, Applied, err)
	}
	return len(removed), err
}

// ToggleFavorite flips the favourite flag of the record with id.
func (m *Manager) ToggleFavorite(id uuid.UUID) (entities.Book, Outcome, error) {
	return m.mutate(OpFavorite, id, func(b *entities.Book) {
		b.IsFavorite = !b.IsFavorite
	})
}

// SetStatus changes the reading status of the record with id.
func (m *Manager) SetStatus(id uuid.UUID, status entities.ReadingStatus) (entities.Book, Outcome, error) {
	if err := checkStatus(status, false); err != nil {
		return entities.Book{}, Invalid, err
	}
	return m.mutate(OpStatus, id, func(b *entities.Book) {
		b.Status = status
	})
}

// CycleStatus advances the record with id to its next reading status.
func (m *Manager) CycleStatus(id uuid.UUID) (entities.Book, Outcome, error) {
	return m.mutate(OpStatus, id, func(b *entities.Book) {
		b.Status = b.Status.Next()
	})
}

// checkStatus rejects statuses the stored payload could not be decoded with.
func checkStatus(status entities.ReadingStatus, allowEmpty bool) error {
	if status.IsValid() || (allowEmpty && status == "") {
		return nil
	}
	return fmt.Errorf("%w %q", ErrInvalidStatus, status)
}

func (m *Manager) mutate(op Op, id uuid.UUID, change func(*entities.Book)) (entities.Book, Outcome, error) {
	idx := m.indexOf(id)
	if idx < 0 {
		m.notify(op, entities.Book{ID: id}, NotFound, nil)
		return entities.Book{}, NotFound, nil
	}

	change(&m.books[idx])
	updated := m.books[idx].Clone()
	err := m.persist()
	m.notify(op, updated, Applied, err)
	return updated, Applied, err
}

// Filter returns the records matching q in collection order.
func (m *Manager) Filter(q Query) []entities.Book {
	return filterBooks(m.books, q)
}

// Books returns a copy of the whole collection.
func (m *Manager) Books() []entities.Book {
	return filterBooks(m.books, Query{})
}

// Get returns the record with id.
func (m *Manager) Get(id uuid.UUID) (entities.Book, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		return entities.Book{}, false
	}
	return m.books[idx].Clone(), true
}

// Contains reports whether a record with exactly this title and author exists.
func (m *Manager) Contains(title, author string) bool {
	probe := entities.Book{Title: title, Author: author}
	for _, book := range m.books {
		if book.SameWork(probe) {
			return true
		}
	}
	return false
}

func (m *Manager) Len() int {
	return len(m.books)
}

func (m *Manager) Stats() Stats {
	stats := Stats{
		Total:    len(m.books),
		ByStatus: make(map[entities.ReadingStatus]int, 3),
	}
	for _, status := range entities.AllReadingStatuses() {
		stats.ByStatus[status] = 0
	}
	for _, book := range m.books {
		stats.ByStatus[book.Status]++
		if book.IsFavorite {
			stats.Favorites++
		}
	}
	return stats
}

func (m *Manager) indexOf(id uuid.UUID) int {
	for i := range m.books {
		if m.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) persist() error {
	data, err := Encode(m.books)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := m.store.Set(m.key, data); err != nil {
		return fmt.Errorf("persist collection %q: %w", m.key, err)
	}
	return nil
}

func (m *Manager) notify(op Op, book entities.Book, outcome Outcome, err error) {
	if len(m.observers) == 0 {
		return
	}
	event := Event{Op: op, Book: book.Clone(), Outcome: outcome, Err: err}
	for _, fn := range m.observers {
		fn(event)
	}
}
