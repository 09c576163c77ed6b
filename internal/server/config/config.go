// Package config отвечает за:
// - чтение server.yaml
// - подстановку переменных окружения вида ${SECRET_KEY}
// - проставление дефолтов
// - валидацию (чтобы сервер не стартовал с дырявыми настройками)
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Драйверы хранилища аккаунтов.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Fetcher-ы краулера.
const (
	FetcherRod  = "rod"
	FetcherHTTP = "http"
)

// Config: корневая структура всего конфига сервера.
type Config struct {
	Env        string           `yaml:"env"` // dev|stage|prod
	Server     ServerConfig     `yaml:"server"`
	TLS        TLSConfig        `yaml:"tls"`
	CORS       CORSConfig       `yaml:"cors"`
	DB         DBConfig         `yaml:"db"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Auth       AuthConfig       `yaml:"auth"`
	Password   PasswordConfig   `yaml:"password"`
	Crawl      CrawlConfig      `yaml:"crawl"`
	LLM        LLMConfig        `yaml:"llm"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Security   SecurityConfig   `yaml:"security"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig: настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	TrustProxy        bool          `yaml:"trust_proxy"` // доверять ли заголовкам X-Forwarded-*
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"` // должен быть больше crawl.timeout
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxHeaderBytes    int           `yaml:"max_header_bytes"` // лимит размера заголовков
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера тела запроса
}

// TLSConfig: настройки HTTPS (опционально).
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"` // "1.2"|"1.3" (1.0/1.1 запрещаем т.к. устарели)
}

// CORSConfig: какие origin-ы фронтенда могут ходить в API из браузера.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DBConfig: настройки подключения к хранилищу аккаунтов.
type DBConfig struct {
	Driver          string        `yaml:"driver"` // postgres|mongo, пусто: определяем по dsn
	DSN             string        `yaml:"dsn"`
	Database        string        `yaml:"database"`   // только для mongo
	Collection      string        `yaml:"collection"` // только для mongo
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	QueryTimeout    time.Duration `yaml:"query_timeout"` // таймаут на запросы к БД
}

// MigrationsConfig: настройки миграций БД (только postgres).
type MigrationsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AuthConfig: настройки аутентификации.
type AuthConfig struct {
	Issuer    string        `yaml:"issuer"`   // опционально
	Audience  string        `yaml:"audience"` // опционально
	AccessTTL time.Duration `yaml:"access_ttl"`
	JWT       JWTConfig     `yaml:"jwt"`
}

// JWTConfig: как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm"`   // поддерживаем только HS256
	SigningKey string `yaml:"signing_key"` // обычно ${SECRET_KEY}
}

// PasswordConfig: настройки хэширования паролей пользователей.
type PasswordConfig struct {
	Hasher    string       `yaml:"hasher"`     // bcrypt|argon2id
	MinLength int          `yaml:"min_length"` // минимальная длина пароля
	Argon2    Argon2Config `yaml:"argon2"`
	Bcrypt    BcryptConfig `yaml:"bcrypt"`
}

// Argon2Config: параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// BcryptConfig: параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost"`
}

// CrawlConfig: настройки краулинга одной страницы.
type CrawlConfig struct {
	Fetcher         string        `yaml:"fetcher"`   // rod|http
	Extractor       string        `yaml:"extractor"` // trafilatura|readability
	Timeout         time.Duration `yaml:"timeout"`   // бюджет на всю операцию crawl
	MaxConcurrent   int64         `yaml:"max_concurrent"`
	UserAgent       string        `yaml:"user_agent"`
	BrowserMaxPages int64         `yaml:"browser_max_pages"` // после скольких страниц перезапускаем chrome
	BrowserArgs     []string      `yaml:"browser_args"`
	BrowserBin      string        `yaml:"browser_bin"` // путь к chrome, пусто: rod найдёт/скачает сам
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// LLMConfig: настройки генеративной модели.
type LLMConfig struct {
	Provider      string  `yaml:"provider"` // gemini
	APIKey        string  `yaml:"api_key"`  // обычно ${GEMINI_API_KEY}
	Model         string  `yaml:"model"`
	Temperature   float32 `yaml:"temperature"`
	AssistantName string  `yaml:"assistant_name"`
}

// KnowledgeConfig: параметры выдачи базы знаний.
type KnowledgeConfig struct {
	PreviewChars int `yaml:"preview_chars"`
}

// SecurityConfig: ограничения/защита.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig: простой rate limit (по IP или по пользователю).
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	Key     string  `yaml:"key"` // ip|user
}

// LogConfig: настройки логирования (zap).
type LogConfig struct {
	Level      string `yaml:"level"`  // debug|info|warn|error
	Format     string `yaml:"format"` // json|console
	File       string `yaml:"file"`
	Stdout     bool   `yaml:"stdout"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Load читает YAML, подставляет переменные окружения вида ${VAR},
// затем парсит в структуру, проставляет дефолты и валидирует.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфиг: %w", err)
	}

	// signing_key: "${SECRET_KEY}" -> signing_key: "реальное_значение"
	expanded := ExpandEnvStrict(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("не удалось распарсить yaml: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envPlaceholder = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict заменяет ${VAR} на значение из окружения.
// Если переменная не задана, оставляем ${VAR} как есть,
// а потом Validate() упадёт с понятной ошибкой.
func ExpandEnvStrict(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := envPlaceholder.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		if val, ok := os.LookupEnv(sub[1]); ok {
			return val
		}
		return m
	})
}

// ApplyDefaults: дефолтные значения, если в yaml поле не задано.
func ApplyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 90 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverFromDSN(cfg.DB.DSN)
	}
	if cfg.DB.Database == "" {
		cfg.DB.Database = "website_chat"
	}
	if cfg.DB.Collection == "" {
		cfg.DB.Collection = "user_collection"
	}
	if cfg.DB.ConnectTimeout == 0 {
		cfg.DB.ConnectTimeout = 10 * time.Second
	}
	if cfg.Migrations.Path == "" {
		cfg.Migrations.Path = "file://migrations/postgres"
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 30 * time.Minute
	}
	if cfg.Auth.JWT.Algorithm == "" {
		cfg.Auth.JWT.Algorithm = "HS256"
	}
	if cfg.Password.Hasher == "" {
		cfg.Password.Hasher = "bcrypt"
	}
	if cfg.Password.MinLength == 0 {
		cfg.Password.MinLength = 8
	}
	if cfg.Password.Bcrypt.Cost == 0 {
		cfg.Password.Bcrypt.Cost = 12
	}
	if cfg.Crawl.Fetcher == "" {
		cfg.Crawl.Fetcher = FetcherRod
	}
	if cfg.Crawl.Extractor == "" {
		cfg.Crawl.Extractor = "trafilatura"
	}
	if cfg.Crawl.Timeout == 0 {
		cfg.Crawl.Timeout = 60 * time.Second
	}
	if cfg.Crawl.MaxConcurrent == 0 {
		cfg.Crawl.MaxConcurrent = 4
	}
	if cfg.Crawl.UserAgent == "" {
		cfg.Crawl.UserAgent = "WebChatCrawler/1.0"
	}
	if cfg.Crawl.BrowserMaxPages == 0 {
		cfg.Crawl.BrowserMaxPages = 75
	}
	if cfg.Crawl.MaxBodyBytes == 0 {
		cfg.Crawl.MaxBodyBytes = 10 << 20
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gemini-2.5-flash"
	}
	if cfg.LLM.AssistantName == "" {
		cfg.LLM.AssistantName = "Pluto"
	}
	if cfg.Knowledge.PreviewChars == 0 {
		cfg.Knowledge.PreviewChars = 200
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Security.RateLimit.Key == "" {
		cfg.Security.RateLimit.Key = "ip"
	}
}

// DriverFromDSN определяет драйвер хранилища по схеме DSN.
func DriverFromDSN(dsn string) string {
	if strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://") {
		return DriverMongo
	}
	return DriverPostgres
}

// Validate проверяет, что конфиг заполнен корректно и безопасно.
// Если что-то не так, возвращаем ошибку и сервер НЕ стартует.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host обязателен")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port некорректен: %d", c.Server.Port)
	}

	// TLS/HTTPS
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return errors.New("tls.cert_file и tls.key_file обязательны при tls.enabled=true")
		}
		if c.TLS.MinVersion == "" {
			c.TLS.MinVersion = "1.2"
		}
		// TLS 1.0/1.1 считаются небезопасными: запрещаем
		if c.TLS.MinVersion == "1.0" || c.TLS.MinVersion == "1.1" {
			return fmt.Errorf("tls.min_version=%s небезопасен; используй 1.2 или 1.3", c.TLS.MinVersion)
		}
	}

	// База данных
	if c.DB.DSN == "" || hasPlaceholder(c.DB.DSN) {
		return errors.New("db.dsn обязателен (через ${DATABASE_DSN}/${MONGO_URI} или прямо строкой)")
	}
	if c.DB.Driver != DriverPostgres && c.DB.Driver != DriverMongo {
		return fmt.Errorf("db.driver должен быть postgres|mongo (сейчас %q)", c.DB.Driver)
	}

	// JWT
	alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm))
	if alg != "HS256" {
		return fmt.Errorf("auth.jwt.algorithm должен быть HS256 (сейчас %q)", c.Auth.JWT.Algorithm)
	}

	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	if key == "" {
		return errors.New("auth.jwt.signing_key обязателен (через ${SECRET_KEY} или прямо строкой)")
	}
	// Если ${SECRET_KEY} не подставился, значит переменная окружения не задана
	if hasPlaceholder(key) {
		return fmt.Errorf("auth.jwt.signing_key содержит неподставленную переменную: %q (нужно задать SECRET_KEY)", key)
	}
	// Для HS256 ключ должен быть длинным и случайным
	if len(key) < 32 {
		return fmt.Errorf("auth.jwt.signing_key слишком короткий (%d символов); нужно >= 32", len(key))
	}
	if c.Auth.AccessTTL <= 0 {
		return errors.New("auth.access_ttl должен быть > 0")
	}

	// Rate limit
	if c.Security.RateLimit.Enabled {
		if c.Security.RateLimit.RPS <= 0 {
			return errors.New("security.rate_limit.rps должен быть > 0 при включённом rate_limit")
		}
		if c.Security.RateLimit.Burst <= 0 {
			return errors.New("security.rate_limit.burst должен быть > 0 при включённом rate_limit")
		}
		if c.Security.RateLimit.Key != "ip" && c.Security.RateLimit.Key != "user" {
			return fmt.Errorf("security.rate_limit.key должен быть ip|user (сейчас %q)", c.Security.RateLimit.Key)
		}
	}

	// Хэширование паролей
	switch strings.ToLower(c.Password.Hasher) {
	case "argon2id":
		if c.Password.Argon2.Time == 0 || c.Password.Argon2.MemoryKiB == 0 || c.Password.Argon2.Threads == 0 {
			return errors.New("password.argon2 должен быть настроен для argon2id")
		}
	case "bcrypt":
		if c.Password.Bcrypt.Cost < 4 || c.Password.Bcrypt.Cost > 31 {
			return fmt.Errorf("password.bcrypt.cost должен быть в диапазоне 4..31 (сейчас %d)", c.Password.Bcrypt.Cost)
		}
	default:
		return fmt.Errorf("password.hasher должен быть argon2id|bcrypt (сейчас %q)", c.Password.Hasher)
	}

	// Краулер
	if c.Crawl.Fetcher != FetcherRod && c.Crawl.Fetcher != FetcherHTTP {
		return fmt.Errorf("crawl.fetcher должен быть rod|http (сейчас %q)", c.Crawl.Fetcher)
	}
	if c.Crawl.Extractor != "trafilatura" && c.Crawl.Extractor != "readability" {
		return fmt.Errorf("crawl.extractor должен быть trafilatura|readability (сейчас %q)", c.Crawl.Extractor)
	}
	if c.Crawl.Timeout <= 0 {
		return errors.New("crawl.timeout должен быть > 0")
	}
	// 0 у write_timeout: без ограничения
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Crawl.Timeout {
		return fmt.Errorf("server.write_timeout (%s) должен быть больше crawl.timeout (%s), иначе ответ 504 не успеет уйти",
			c.Server.WriteTimeout, c.Crawl.Timeout)
	}
	if c.Crawl.MaxConcurrent <= 0 {
		return errors.New("crawl.max_concurrent должен быть > 0")
	}

	// LLM
	if c.LLM.Provider != "gemini" {
		return fmt.Errorf("llm.provider поддерживается только gemini (сейчас %q)", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" || hasPlaceholder(c.LLM.APIKey) {
		return errors.New("llm.api_key обязателен (нужно задать GEMINI_API_KEY)")
	}

	return nil
}

// ApplyEnvOverrides: даёт возможность переопределять
// некоторые настройки через переменные окружения без ${...} в yaml.
// Например SERVER_PORT=9090 (или PORT=9090) переопределит server.port.
func (c *Config) ApplyEnvOverrides() {
	for _, name := range []string{"PORT", "SERVER_PORT"} {
		if v := os.Getenv(name); v != "" {
			if p, err := strconv.Atoi(v); err == nil && p > 0 {
				c.Server.Port = p
			}
		}
	}
}

// hasPlaceholder: осталась ли в значении неподставленная ${VAR}.
func hasPlaceholder(s string) bool {
	return strings.Contains(s, "${") && strings.Contains(s, "}")
}
