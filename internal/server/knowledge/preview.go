package knowledge

// PreviewSuffix добавляется к обрезанному превью.
const PreviewSuffix = "..."

// Preview возвращает первые n символов (рун) текста и "..." если текст длиннее.
func Preview(text string, n int) string {
	if n <= 0 {
		return text
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i] + PreviewSuffix
		}
		count++
	}
	return text
}
