package collection

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Locked serializes access to a Manager so it can be shared between request
// handlers and background jobs.
type Locked struct {
	mu sync.RWMutex
	m  *Manager
}

func NewLocked(m *Manager) *Locked {
	return &Locked{m: m}
}

func (l *Locked) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Load()
}

func (l *Locked) Add(book entities.Book) (entities.Book, Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Add(book)
}

func (l *Locked) Update(book entities.Book) (entities.Book, Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Update(book)
}

func (l *Locked) Delete(ids ...uuid.UUID) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Delete(ids...)
}

func (l *Locked) DeleteAt(positions ...int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.DeleteAt(positions...)
}

func (l *Locked) ToggleFavorite(id uuid.UUID) (entities.Book, Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.ToggleFavorite(id)
}

func (l *Locked) SetStatus(id uuid.UUID, status entities.ReadingStatus) (entities.Book, Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.SetStatus(id, status)
}

func (l *Locked) CycleStatus(id uuid.UUID) (entities.Book, Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.CycleStatus(id)
}

func (l *Locked) Filter(q Query) []entities.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m.Filter(q)
}

func (l *Locked) Books() []entities.Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m.Books()
}

func (l *Locked) Get(id uuid.UUID) (entities.Book, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m.Get(id)
}

func (l *Locked) Contains(title, author string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m.Contains(title, author)
}

func (l *Locked) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m.Len()
}

func (l *Locked) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.m.Stats()
}
