// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован (токен отсутствует, невалиден или истёк)
	ErrUnauthorized = errors.New("could not validate credentials")
	// Ресурс уже существует (например нарушена уникальность в хранилище)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// Слишком много запросов (rate limit)
	ErrTooManyRequests = errors.New("too many requests")
	// ожидаемая ошибка
	ErrExpectedError = errors.New("expected error")
	// неожиданная ошибка
	ErrUnexpectedError = errors.New("unexpected error")
)

// аккаунты
var (
	// пароль короче 8 символов
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// email уже зарегистрирован
	ErrEmailTaken = errors.New("email already registered")
)

// краулинг и вопросы к LLM
var (
	// URL пустой, не парсится или без scheme/host
	ErrInvalidURL = errors.New("invalid url, must include scheme (e.g., https) and domain")
	// страницу не удалось скачать или извлечь из неё текст
	ErrCrawlFailed = errors.New("crawling failed")
	// краулинг не уложился в отведённое время
	ErrCrawlTimeout = errors.New("crawling timed out")
	// для URL нет контента, сначала нужно сделать crawl
	ErrContentNotFound = errors.New("url not found, please crawl the website first")
	// внешний LLM сервис не ответил
	ErrGenerationFailed = errors.New("generation failed")
)
