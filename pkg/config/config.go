package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración del SDK (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// APIConfig configuración del backend REST consumido.
type APIConfig struct {
	BaseURL    string // ej. https://api.sermixer.example/api
	TimeoutSec int    // timeout del cliente HTTP en segundos
}

// Timeout devuelve el timeout como time.Duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// StorageConfig configuración del almacenamiento local persistente (token, tema).
type StorageConfig struct {
	Path string // ruta del archivo JSON de estado local
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, STORAGE_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "backoffice-sdk"),
		},
		API: APIConfig{
			BaseURL:    getString(v, "API_BASE_URL", "http://localhost:3001"),
			TimeoutSec: getInt(v, "API_TIMEOUT_SEC", 30),
		},
		Storage: StorageConfig{
			Path: getString(v, "STORAGE_PATH", ".backoffice-state.json"),
		},
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("config: API_BASE_URL no puede estar vacío")
	}
	if cfg.API.TimeoutSec <= 0 {
		return nil, fmt.Errorf("config: API_TIMEOUT_SEC debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}
