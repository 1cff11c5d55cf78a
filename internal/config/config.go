package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string        `mapstructure:"env"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	BodyLimitMB    int           `mapstructure:"body_limit_mb"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConf struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConf struct {
	Secret           string `mapstructure:"secret"`
	AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
}

type OTPConf struct {
	TTLMinutes                    int `mapstructure:"ttl_minutes"`
	RateLimitPerIdentifierPerHour int `mapstructure:"rate_limit_per_identifier_per_hour"`
}

type TwilioConf struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
}

type BrevoConf struct {
	APIKey      string `mapstructure:"api_key"`
	SenderEmail string `mapstructure:"sender_email"`
	SenderName  string `mapstructure:"sender_name"`
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type UploadsConf struct {
	Dir string `mapstructure:"dir"`
}

type GoogleConf struct {
	ClientID string `mapstructure:"client_id"`
}

type ValidationConf struct {
	StrictInstructorFields bool `mapstructure:"strict_instructor_fields"`
}

type Config struct {
	App        AppConf        `mapstructure:"app"`
	Mongo      MongoConf      `mapstructure:"mongo"`
	Redis      RedisConf      `mapstructure:"redis"`
	JWT        JWTConf        `mapstructure:"jwt"`
	OTP        OTPConf        `mapstructure:"otp"`
	Twilio     TwilioConf     `mapstructure:"twilio"`
	Brevo      BrevoConf      `mapstructure:"brevo"`
	Kafka      KafkaConf      `mapstructure:"kafka"`
	Uploads    UploadsConf    `mapstructure:"uploads"`
	Google     GoogleConf     `mapstructure:"google"`
	Validation ValidationConf `mapstructure:"validation"`

	// derived
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	OTPTTL     time.Duration
}

// Load reads the YAML config file, then lets environment variables override
// individual keys (MONGO_URI, JWT_SECRET and friends via viper's env
// binding). Derived durations are filled in from the integer knobs.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"app.env":            "APP_ENV",
		"app.port":           "APP_PORT",
		"mongo.uri":          "MONGO_URI",
		"mongo.database":     "MONGO_DB",
		"redis.addr":         "REDIS_ADDR",
		"redis.password":     "REDIS_PASSWORD",
		"jwt.secret":         "JWT_SECRET",
		"twilio.account_sid": "TWILIO_ACCOUNT_SID",
		"twilio.auth_token":  "TWILIO_AUTH_TOKEN",
		"twilio.from":        "TWILIO_FROM",
		"brevo.api_key":      "BREVO_API_KEY",
		"brevo.sender_email": "BREVO_SENDER_EMAIL",
		"google.client_id":   "GOOGLE_CLIENT_ID",
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.App.Port == 0 {
		cfg.App.Port = 7002
	}
	if cfg.App.BodyLimitMB == 0 {
		cfg.App.BodyLimitMB = 25
	}
	if cfg.JWT.AccessTTLMinutes == 0 {
		cfg.JWT.AccessTTLMinutes = 24 * 60
	}
	if cfg.JWT.RefreshTTLDays == 0 {
		cfg.JWT.RefreshTTLDays = 5
	}
	if cfg.OTP.TTLMinutes == 0 {
		cfg.OTP.TTLMinutes = 10
	}
	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "uploads"
	}

	cfg.AccessTTL = time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	cfg.RefreshTTL = time.Duration(cfg.JWT.RefreshTTLDays) * 24 * time.Hour
	cfg.OTPTTL = time.Duration(cfg.OTP.TTLMinutes) * time.Minute

	if cfg.Mongo.URI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required (set in .env or config.yaml)")
	}

	return &cfg, nil
}
