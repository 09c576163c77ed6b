package api

import "github.com/IvanChernomyrdin/go-webchat/internal/shared/models"

// Crawl просит сервер загрузить страницу в базу знаний (POST /crawl).
func (c *Client) Crawl(accessToken, url string) (models.CrawlResponse, error) {
	var resp models.CrawlResponse
	err := c.PostJSON("/crawl", models.CrawlRequest{URL: url}, &resp, accessToken)
	return resp, err
}

// Query задаёт вопрос по ранее загруженной странице (POST /query).
func (c *Client) Query(accessToken, url, question string) (models.QueryResponse, error) {
	var resp models.QueryResponse
	err := c.PostJSON("/query", models.QueryRequest{URL: url, Query: question}, &resp, accessToken)
	return resp, err
}

// Knowledge возвращает превью базы знаний (GET /knowledge).
func (c *Client) Knowledge(accessToken string) (models.KnowledgeResponse, error) {
	var resp models.KnowledgeResponse
	err := c.GetJSON("/knowledge", &resp, accessToken)
	return resp, err
}
