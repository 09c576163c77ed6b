package tests

import (
	"time"

	"github.com/IvanChernomyrdin/go-webchat/internal/server/config"
)

const testSigningKey = "supersecretkeysupersecretkey123456"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:    "test",
			Audience:  "test",
			AccessTTL: time.Minute,
			JWT: config.JWTConfig{
				SigningKey: testSigningKey,
			},
		},
		Password: config.PasswordConfig{
			Hasher:    "bcrypt",
			MinLength: 8,
			Bcrypt:    config.BcryptConfig{Cost: 4},
			Argon2: config.Argon2Config{
				Time:      1,
				MemoryKiB: 32 * 1024,
				Threads:   1,
				KeyLen:    32,
				SaltLen:   16,
			},
		},
		Crawl: config.CrawlConfig{
			Timeout:       2 * time.Second,
			MaxConcurrent: 2,
		},
		Knowledge: config.KnowledgeConfig{PreviewChars: 200},
	}
}
