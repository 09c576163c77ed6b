// Package models содержит JSON-модели HTTP API, общие для сервера и CLI-клиента.
package models

// TokenTypeBearer: значение token_type в ответе /login.
const TokenTypeBearer = "bearer"

// SignupRequest: тело запроса регистрации.
//
// Используется в:
//
//	POST /signup
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo: публичное представление пользователя (без хэша пароля).
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignupResponse: ответ на успешную регистрацию.
type SignupResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

// TokenResponse: ответ /login (OAuth2 password flow).
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CrawlRequest: тело запроса POST /crawl.
type CrawlRequest struct {
	URL string `json:"url"`
}

// CrawlResponse: ответ POST /crawl.
//
// URL: нормализованный адрес, под которым контент сохранён в базе знаний.
type CrawlResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// QueryRequest: тело запроса POST /query.
type QueryRequest struct {
	URL   string `json:"url"`
	Query string `json:"query"`
}

// QueryResponse: ответ POST /query.
type QueryResponse struct {
	Response string `json:"response"`
	URL      string `json:"url"`
}

// RootResponse: ответ GET /: описание API и email текущего пользователя.
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
	User      string            `json:"user"`
}

// KnowledgeResponse: ответ GET /knowledge.
//
// KnowledgeBase: нормализованный URL -> превью контента
// (первые 200 символов и "..." если текст длиннее).
type KnowledgeResponse struct {
	KnowledgeBase map[string]string `json:"knowledge_base"`
}

// ErrorResponse: стандартный формат ошибки API.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
