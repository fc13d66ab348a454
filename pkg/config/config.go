package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// DefaultJWTSecret secreto de desarrollo; en producción debe definirse JWT_SECRET.
const DefaultJWTSecret = "inventory-management-secret-key"

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Store   StoreConfig
	Auth    AuthConfig
	Swagger SwaggerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// UsesDefaultSecret indica si el secreto es el de desarrollo.
func (c JWTConfig) UsesDefaultSecret() bool {
	return c.Secret == DefaultJWTSecret
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig configuración del documento JSON persistido.
type StoreConfig struct {
	Path string
}

// AuthConfig credenciales iniciales y costo de hash.
type AuthConfig struct {
	AdminDefaultPassword string
	// AdminResetOnStart reactiva el comportamiento heredado: en cada arranque
	// la cuenta "admin" vuelve a la contraseña por defecto.
	AdminResetOnStart bool
	BcryptCost        int
}

// SwaggerConfig ubicación del swagger.json servido en /docs.
type SwaggerConfig struct {
	FilePath string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, JWT_SECRET, STORE_PATH, etc.
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
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stock-tracker"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", DefaultJWTSecret),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 24*60),
			Issuer:     getString(v, "JWT_ISSUER", "stock-tracker"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 3001),
			CORSOrigins: getString(v, "CORS_ORIGINS", "*"),
		},
		Store: StoreConfig{
			Path: getString(v, "STORE_PATH", "data/inventory.json"),
		},
		Auth: AuthConfig{
			AdminDefaultPassword: getString(v, "ADMIN_DEFAULT_PASSWORD", "admin123"),
			AdminResetOnStart:    getBool(v, "ADMIN_RESET_ON_START", false),
			BcryptCost:           getInt(v, "BCRYPT_COST", 10),
		},
		Swagger: SwaggerConfig{
			FilePath: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET vacío")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("config: STORE_PATH vacío")
	}
	if len(c.Auth.AdminDefaultPassword) < 6 {
		return fmt.Errorf("config: ADMIN_DEFAULT_PASSWORD debe tener al menos 6 caracteres")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
