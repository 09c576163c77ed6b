package knowledge

import (
	"maps"
	"sync"
)

// MemoryStore: потокобезопасное in-memory хранилище контента сайтов.
//
// Ключ: нормализованный URL, значение: извлечённый текст (markdown).
// Записи живут только в памяти процесса и никогда не удаляются;
// повторный crawl перезаписывает значение (побеждает последний писатель).
type MemoryStore struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		content: make(map[string]string),
	}
}

// Put сохраняет (или перезаписывает) контент по ключу.
func (s *MemoryStore) Put(key, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.content[key] = text
}

// Get возвращает контент по ключу и признак наличия.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.content[key]
	return text, ok
}

// List возвращает копию всех записей.
func (s *MemoryStore) List() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.content)
}

// Len: количество записей.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.content)
}
