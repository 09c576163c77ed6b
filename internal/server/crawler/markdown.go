package crawler

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
)

var _ service.Converter = (*MarkdownConverter)(nil)

// MarkdownConverter переводит очищенный HTML в markdown.
type MarkdownConverter struct {
	conv *converter.Converter
}

func NewMarkdownConverter() *MarkdownConverter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &MarkdownConverter{conv: conv}
}

// Convert возвращает markdown; пустой HTML: ErrEmptyHTML.
func (c *MarkdownConverter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ErrEmptyHTML
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
