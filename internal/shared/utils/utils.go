// Утилитарные функции общего назначения
package utils

// Ptr возвращает указатель на копию v (удобно для опциональных полей SDK).
func Ptr[T any](v T) *T {
	return &v
}
