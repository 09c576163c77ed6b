// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Конфигурация хранит учётные данные (access токен и email) и размещается
// в домашней директории пользователя в файле:
//
//	~/.webchat/credentials.json
//
// Каталог можно переопределить переменной окружения WEBCHAT_HOME.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// HomeEnv: переменная окружения, переопределяющая каталог клиента.
const HomeEnv = "WEBCHAT_HOME"

// Credentials содержит учётные данные, используемые CLI-клиентом.
//
// AccessToken применяется для авторизации запросов к серверу.
// Server: адрес, на котором токен был получен.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Email       string `json:"email,omitempty"`
	Server      string `json:"server,omitempty"`
}

// LoggedIn: есть ли сохранённый токен.
func (c *Credentials) LoggedIn() bool {
	return c != nil && c.AccessToken != ""
}

// Dir возвращает каталог клиента: $WEBCHAT_HOME или <home>/.webchat.
func Dir() (string, error) {
	if d := os.Getenv(HomeEnv); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".webchat"), nil
}

// DefaultPath возвращает путь к файлу учётных данных.
//
// Формат пути:
//
//	<Dir()>/credentials.json
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.json"), nil
}

// Load загружает конфигурацию из указанного файла.
//
// Если файл не существует, возвращает пустую конфигурацию без ошибки.
// Если файл существует, но содержит некорректный JSON, возвращает ошибку.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// дефолтный конфиг, если файла нет
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save сохраняет конфигурацию в указанный файл в JSON формате.
//
// При необходимости создаёт директорию назначения с правами 0700.
// Файл конфигурации записывается с правами 0600.
func Save(path string, c *Credentials) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Remove удаляет файл учётных данных (logout). Отсутствие файла не ошибка.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
