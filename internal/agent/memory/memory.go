// Package memory хранит локальную историю вопросов и ответов CLI-клиента.
package memory

import (
	"sync"
	"time"
)

// MaxEntries: сколько последних записей храним; старые вытесняются.
const MaxEntries = 500

// Entry: один вопрос к странице и ответ сервера.
type Entry struct {
	URL      string    `json:"url"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// HistoryStore: потокобезопасная история в порядке добавления.
//
// Используется CLI для:
//   - записи ответа после ask (Add)
//   - вывода истории целиком или по одному URL (List)
//   - очистки (Clear)
type HistoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewHistory создаёт пустую историю.
func NewHistory() *HistoryStore {
	return &HistoryStore{}
}

// Add добавляет запись в конец истории.
// Пустой AskedAt заполняется текущим временем.
func (s *HistoryStore) Add(e Entry) {
	if e.AskedAt.IsZero() {
		e.AskedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)
	if over := len(s.entries) - MaxEntries; over > 0 {
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}
}

// List возвращает копию истории; url != "": только записи этого URL.
func (s *HistoryStore) List(url string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if url == "" || e.URL == url {
			out = append(out, e)
		}
	}
	return out
}

// Len: число записей.
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear удаляет все записи.
func (s *HistoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
