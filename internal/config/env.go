package config

import (
	"os"
	"strings"
	"time"
)

// Env carries all runtime configuration. Values come from the process
// environment (optionally seeded from .env by main).
type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	// Daraja (M-Pesa) provider settings.
	DarajaAPIKey    string
	DarajaAPISecret string
	DarajaShortcode string
	DarajaPasskey   string
	DarajaAuthURL   string
	DarajaSTKURL    string
	DarajaTimeout   time.Duration

	// Public base URL of this service, used to build the STK callback URL.
	PublicBaseURL string

	// Agora video credentials.
	AgoraAppID       string
	AgoraCertificate string

	// Optional; empty disables the redis token cache.
	RedisAddr string
}

func LoadEnv() Env {
	env := Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: getenv("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: getenv("DB_HOST", "127.0.0.1:3306"),
		DBName: getenv("DB_NAME", "meet_a_vet"),

		JWTSecret: getenv("JWT_SECRET_KEY", "change-me-in-production"),
		JWTTTL:    time.Hour,

		DarajaAPIKey:    os.Getenv("DARAJA_API_KEY"),
		DarajaAPISecret: os.Getenv("DARAJA_API_SECRET"),
		DarajaShortcode: getenv("DARAJA_SHORTCODE", "174379"),
		DarajaPasskey:   os.Getenv("DARAJA_PASSKEY"),
		DarajaAuthURL:   getenv("DARAJA_AUTH_URL", "https://sandbox.safaricom.co.ke/oauth/v1/generate?grant_type=client_credentials"),
		DarajaSTKURL:    getenv("DARAJA_STK_URL", "https://sandbox.safaricom.co.ke/mpesa/stkpush/v1/processrequest"),
		DarajaTimeout:   8 * time.Second,

		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		AgoraAppID:       os.Getenv("AGORA_APP_ID"),
		AgoraCertificate: os.Getenv("AGORA_APP_CERTIFICATE"),

		RedisAddr: strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSAllowedOrigins = append(env.CORSAllowedOrigins, o)
			}
		}
	} else {
		env.CORSAllowedOrigins = []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}

	return env
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
