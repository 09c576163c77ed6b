// Package knowledge содержит базу знаний сервера: нормализацию URL,
// in-memory хранилище контента и превью для выдачи.
package knowledge

import (
	"fmt"
	"net/url"
	"strings"

	serr "github.com/IvanChernomyrdin/go-webchat/internal/shared/errors"
)

// Normalize приводит URL к каноническому виду scheme://host/path:
// query, fragment и ";params" последнего сегмента отбрасываются,
// завершающие "/" в пути удаляются.
//
// Путь берётся из исходной строки без перекодирования: "/café" и "/caf%C3%A9"
// это разные ключи. userinfo и порт остаются частью host как есть.
// Пустая строка, неразбираемый URL или отсутствие scheme/host: serr.ErrInvalidURL.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty url", serr.ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", serr.ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q has no scheme or host", serr.ErrInvalidURL, raw)
	}

	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	b.WriteString(strings.TrimRight(stripParams(rawPath(raw, u.Scheme)), "/"))

	return b.String(), nil
}

// rawPath возвращает путь как он записан в raw (после authority, до "?" или "#").
func rawPath(raw, scheme string) string {
	rest := strings.TrimPrefix(raw[len(scheme)+1:], "//")
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[i:]
	} else {
		return ""
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// stripParams отрезает ";params" у последнего сегмента пути.
func stripParams(path string) string {
	last := strings.LastIndexByte(path, '/')
	if last < 0 {
		last = 0
	}
	if i := strings.IndexByte(path[last:], ';'); i >= 0 {
		return path[:last+i]
	}
	return path
}
