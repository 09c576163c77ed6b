// В этом файле описаны методы клиента для работы
// с эндпоинтами аутентификации: регистрация, вход и информация о пользователе.
package api

import (
	"net/url"

	"github.com/IvanChernomyrdin/go-webchat/internal/shared/models"
)

// Signup регистрирует пользователя (POST /signup).
func (c *Client) Signup(email, password string) (models.SignupResponse, error) {
	var resp models.SignupResponse
	err := c.PostJSON("/signup", models.SignupRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Login выполняет вход и получает access-токен (POST /login, form username/password).
func (c *Client) Login(email, password string) (models.TokenResponse, error) {
	var resp models.TokenResponse
	form := url.Values{
		"username": {email},
		"password": {password},
	}
	err := c.PostForm("/login", form, &resp, "")
	return resp, err
}

// Me запрашивает описание API и email владельца токена (GET /).
func (c *Client) Me(accessToken string) (models.RootResponse, error) {
	var resp models.RootResponse
	err := c.GetJSON("/", &resp, accessToken)
	return resp, err
}
