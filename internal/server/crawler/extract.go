package crawler

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/service"
	smodels "github.com/IvanChernomyrdin/go-webchat/internal/server/service/models"
)

var (
	_ service.Extractor = (*TrafilaturaExtractor)(nil)
	_ service.Extractor = (*ReadabilityExtractor)(nil)
	_ service.Extractor = (*FallbackExtractor)(nil)
)

// ErrEmptyHTML: на вход экстрактору пришёл пустой документ.
var ErrEmptyHTML = errors.New("empty HTML input")

// NewExtractor возвращает экстрактор по имени из конфига
// (trafilatura|readability), обёрнутый в FallbackExtractor.
func NewExtractor(name string) service.Extractor {
	var primary service.Extractor = NewTrafilaturaExtractor()
	if name == "readability" {
		primary = NewReadabilityExtractor()
	}
	return NewFallbackExtractor(primary)
}

// TrafilaturaExtractor вырезает основной контент через go-trafilatura.
type TrafilaturaExtractor struct{}

func NewTrafilaturaExtractor() *TrafilaturaExtractor {
	return &TrafilaturaExtractor{}
}

func (e *TrafilaturaExtractor) Extract(rawHTML string) (*smodels.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ErrEmptyHTML
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &smodels.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// ReadabilityExtractor вырезает основной контент через go-readability.
type ReadabilityExtractor struct{}

func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{}
}

func (e *ReadabilityExtractor) Extract(rawHTML string) (*smodels.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ErrEmptyHTML
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &smodels.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}

// FallbackExtractor сначала пробует primary, а если тот ничего не нашёл
// (ошибка или пустой контент): берёт <body> целиком без script/style/noscript.
type FallbackExtractor struct {
	primary service.Extractor
}

func NewFallbackExtractor(primary service.Extractor) *FallbackExtractor {
	return &FallbackExtractor{primary: primary}
}

func (e *FallbackExtractor) Extract(rawHTML string) (*smodels.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, ErrEmptyHTML
	}

	res, err := e.primary.Extract(rawHTML)
	if err == nil && res != nil && strings.TrimSpace(res.ContentHTML) != "" {
		return res, nil
	}

	return bodyContent(rawHTML)
}

// bodyContent: запасной вариант на goquery.
func bodyContent(rawHTML string) (*smodels.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript, template, iframe").Remove()

	body := doc.Find("body")
	content, err := body.Html()
	if err != nil {
		return nil, err
	}

	return &smodels.ExtractResult{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		ContentHTML: strings.TrimSpace(content),
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
