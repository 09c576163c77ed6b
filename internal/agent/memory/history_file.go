package memory

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/IvanChernomyrdin/go-webchat/internal/agent/config"
)

// HistoryDump: формат файла локальной истории.
//
// Файл содержит объект вида:
//
//	{ "entries": [ ... ] }
type HistoryDump struct {
	Entries []Entry `json:"entries"`
}

// DefaultHistoryPath возвращает путь по умолчанию для файла истории.
//
// Путь формируется как:
//
//	<config.Dir()>/history.json
func DefaultHistoryPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// SaveToFile сериализует историю в JSON и сохраняет в файл по пути path.
//
// Поведение:
//   - читает store под RLock (потокобезопасно);
//   - создаёт директорию для файла (MkdirAll) с правами 0700;
//   - сохраняет файл с правами 0600.
func SaveToFile(path string, store *HistoryStore) error {
	store.mu.RLock()
	out := HistoryDump{Entries: append([]Entry{}, store.entries...)}
	store.mu.RUnlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// LoadFromFile загружает историю из JSON-файла в store.
//
// Поведение:
//   - если файл не существует, возвращает nil (первый запуск);
//   - если JSON некорректный, возвращает ошибку Unmarshal;
//   - при успешной загрузке полностью заменяет содержимое store.
func LoadFromFile(path string, store *HistoryStore) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var dump HistoryDump
	if err := json.Unmarshal(b, &dump); err != nil {
		return err
	}

	entries := dump.Entries
	if over := len(entries) - MaxEntries; over > 0 {
		entries = entries[over:]
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries = entries

	return nil
}
