package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// 保存先の種類
type StoreMode string

const (
	StoreModeDatabase StoreMode = "database" // DATABASE_URL で直接接続
	StoreModeRemote   StoreMode = "remote"   // SUPABASE_URL + anon key（REST）
	StoreModeDegraded StoreMode = "degraded" // 未設定：擬似送信
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod
	FEURL string // フロントURL（CORS）。空ならCORSなし

	SupabaseURL     string // REST エンドポイント
	SupabaseAnonKey string // anon key（静的）

	DatabaseURL string // 直接接続用DSN
	AutoMigrate bool   // consents を AutoMigrate する（開発用）

	SessionTTL     time.Duration // セッションの有効期間
	SimulatedDelay time.Duration // 擬似送信の待ち時間
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:  normalizePort(getEnvOrDefault("PORT", "8080")),
		GoEnv: getEnvOrDefault("GO_ENV", "dev"),
		FEURL: getEnvOrDefault("FE_URL", ""),

		SupabaseURL:     firstEnv("SUPABASE_URL", "VITE_SUPABASE_URL"),
		SupabaseAnonKey: firstEnv("SUPABASE_ANON_KEY", "VITE_SUPABASE_ANON_KEY"),

		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		AutoMigrate: envBool("AUTO_MIGRATE", false),

		SessionTTL:     getDurationEnv("SESSION_TTL_MINUTES", 30, time.Minute),
		SimulatedDelay: getDurationEnv("SIMULATED_DELAY_MS", 1000, time.Millisecond),
	}

	//URLの形式チェック
	if cfg.SupabaseURL != "" {
		u, err := url.Parse(cfg.SupabaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Config{}, fmt.Errorf("SUPABASE_URL must be an http(s) URL")
		}
	}

	//service_role キーは公開フォームに載せない
	if cfg.SupabaseAnonKey != "" {
		info := InspectAnonKey(cfg.SupabaseAnonKey)
		if info.Role == "service_role" {
			return Config{}, fmt.Errorf("SUPABASE_ANON_KEY must not be a service_role key")
		}
	}

	return cfg, nil
}

// StoreMode は設定から保存先を決める。
func (c Config) StoreMode() StoreMode {
	if c.DatabaseURL != "" {
		return StoreModeDatabase
	}
	if c.SupabaseURL != "" && c.SupabaseAnonKey != "" {
		return StoreModeRemote
	}
	return StoreModeDegraded
}

// Diagnostics は起動時に運用者へ出す警告。
func (c Config) Diagnostics(now time.Time) []string {
	var out []string

	switch c.StoreMode() {
	case StoreModeDegraded:
		if c.SupabaseURL != "" || c.SupabaseAnonKey != "" {
			out = append(out, "only one of SUPABASE_URL / SUPABASE_ANON_KEY is set; submissions will be simulated")
		} else {
			out = append(out, "record store not configured; submissions will be simulated")
		}
	case StoreModeRemote:
		info := InspectAnonKey(c.SupabaseAnonKey)
		if info.IsJWT && !info.ExpiresAt.IsZero() && now.After(info.ExpiresAt) {
			out = append(out, fmt.Sprintf("SUPABASE_ANON_KEY expired at %s", info.ExpiresAt.Format(time.RFC3339)))
		}
		if info.IsJWT && info.Role != "" && info.Role != "anon" {
			out = append(out, fmt.Sprintf("SUPABASE_ANON_KEY has role %q, expected anon", info.Role))
		}
	}
	return out
}

// anon key の中身
type AnonKeyInfo struct {
	IsJWT     bool
	Role      string
	ExpiresAt time.Time
}

// InspectAnonKey は署名を検証せずにクレームを読む（署名はサーバー側で検証される）。
// JWT でないキー（publishable key など）は IsJWT=false。
func InspectAnonKey(key string) AnonKeyInfo {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return AnonKeyInfo{}
	}

	info := AnonKeyInfo{IsJWT: true}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		info.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return info
}

func normalizePort(v string) string {
	if strings.HasPrefix(v, ":") {
		return v
	}
	return ":" + v
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := getEnvOrDefault(key, ""); v != "" {
			return v
		}
	}
	return ""
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func envBool(key string, def bool) bool {
	switch strings.TrimSpace(os.Getenv(key)) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}
