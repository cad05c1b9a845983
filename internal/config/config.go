package config

// Config holds all application configuration. It is constructed once at
// startup, validated, and passed by value into the components that need
// it; nothing mutates it afterwards.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"     validate:"required"`
	Google   GoogleConfig   `mapstructure:"google"   validate:"required"`
}

// ServerConfig contains server and URL settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port"         validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level"    validate:"required,oneof=debug info warn error"`
	FrontendURL string `mapstructure:"frontend_url" validate:"required,url"`
	BackendURL  string `mapstructure:"backend_url"  validate:"required,url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains token signing settings. The access-token lifetime
// doubles as the reset-code validity window.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// MailConfig contains SMTP delivery settings.
type MailConfig struct {
	Host     string `mapstructure:"host"     validate:"required"`
	Port     int    `mapstructure:"port"     validate:"required,gt=0,lt=65536"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	From     string `mapstructure:"from"     validate:"required,email"`
}

// GoogleConfig contains the OAuth client credentials for federated login.
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"     validate:"required"`
	ClientSecret string `mapstructure:"client_secret" validate:"required"`
}
