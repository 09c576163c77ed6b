// Модели уровня сервисов (не уходят наружу через HTTP)
package models

// ExtractResult: основной контент страницы после удаления шапки/меню/футера.
type ExtractResult struct {
	// Title: заголовок страницы из метаданных.
	Title string
	// ContentHTML: очищенный HTML основного контента.
	ContentHTML string
}
