// Package config defines the typed configuration structs shared across the
// application. Loading lives in internal/infrastructure/config.
package config

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	// BaseURL is the externally visible origin of the API. The WebAuthn
	// relying party id and expected origins are derived from it.
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	// Enabled switches the passkey challenge store from the in-process map
	// to Redis so ceremonies survive restarts and work across instances.
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	// PrivateKeyPEM holds the ES256 signing key. When empty a fresh key is
	// generated at startup, which invalidates outstanding tokens on restart.
	PrivateKeyPEM string `mapstructure:"private_key_pem"`
	Issuer        string `mapstructure:"issuer"`
}

type ProvisionConfig struct {
	// Secret verifies externally issued provisioning tokens (HMAC).
	Secret string `mapstructure:"secret"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type WebAuthnConfig struct {
	RPName  string `mapstructure:"rp_name"`
	Timeout int    `mapstructure:"timeout_ms"`
}

type AuthConfig struct {
	JWT       JWTConfig       `mapstructure:"jwt"`
	Password  PasswordConfig  `mapstructure:"password"`
	WebAuthn  WebAuthnConfig  `mapstructure:"webauthn"`
	Provision ProvisionConfig `mapstructure:"provision"`
}
