package service

import "github.com/IvanChernomyrdin/go-webchat/internal/server/knowledge"

// KnowledgeService отдаёт превью базы знаний.
// База общая для всех пользователей.
type KnowledgeService struct {
	store        ContentStore
	previewChars int
}

func NewKnowledgeService(store ContentStore, previewChars int) *KnowledgeService {
	if previewChars <= 0 {
		previewChars = 200
	}
	return &KnowledgeService{store: store, previewChars: previewChars}
}

// Snapshot: URL -> первые previewChars символов контента ("..." если длиннее).
func (s *KnowledgeService) Snapshot() map[string]string {
	all := s.store.List()
	out := make(map[string]string, len(all))
	for url, content := range all {
		out[url] = knowledge.Preview(content, s.previewChars)
	}
	return out
}
