package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort          string
	DBDSN            string
	JWTSecret        string
	JWTExpiresMin    int
	MediaRoot        string
	TemplateDir      string
	GenLogPath       string
	CatalogPath      string
	RenderTimeoutSec int
}

func Load() Config {
	expires, _ := strconv.Atoi(get("JWT_EXPIRES_MIN", "10080"))
	renderTimeout, _ := strconv.Atoi(get("RENDER_TIMEOUT_SEC", "60"))
	return Config{
		AppPort:          get("APP_PORT", "8080"),
		DBDSN:            must("DB_DSN"),
		JWTSecret:        must("JWT_SECRET"),
		JWTExpiresMin:    expires,
		MediaRoot:        get("MEDIA_ROOT", "./media"),
		TemplateDir:      get("TEMPLATE_DIR", "./templates"),
		GenLogPath:       get("GEN_LOG_PATH", "./media/resume_pairs_log.csv"),
		CatalogPath:      get("CATALOG_PATH", ""),
		RenderTimeoutSec: renderTimeout,
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
