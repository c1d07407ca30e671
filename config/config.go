// server/config/config.go
package config

import (
	"time"

	"github.com/spf13/viper"
)

// --- Sub-structs mirroring the YAML layout ---

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type NotifyConfig struct {
	// Bases are tried in order until one accepts the message.
	Bases           []string `mapstructure:"bases"`
	EstDeliveryDays string   `mapstructure:"estDeliveryDays"`
}

type UpstreamConfig struct {
	QuoteBase      string `mapstructure:"quoteBase"`
	PayoutBase     string `mapstructure:"payoutBase"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

// --- Main Config struct ---

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	S3       S3Config       `mapstructure:"s3"`
}

// UpstreamTimeout is the bound applied to every outbound collaborator call.
func (c Config) UpstreamTimeout() time.Duration {
	secs := c.Upstream.TimeoutSeconds
	if secs <= 0 {
		secs = 8
	}
	return time.Duration(secs) * time.Second
}

// LoadConfig reads the YAML file and overrides values with environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("admin.email", "ADMIN_EMAIL")
	viper.BindEnv("admin.password", "ADMIN_PASSWORD")
	viper.BindEnv("notify.bases", "NOTIFY_BASES")
	viper.BindEnv("notify.estDeliveryDays", "EST_DELIVERY_DAYS")
	viper.BindEnv("upstream.quoteBase", "QUOTE_BASE")
	viper.BindEnv("upstream.payoutBase", "PAYOUT_BASE")
	viper.BindEnv("upstream.timeoutSeconds", "UPSTREAM_TIMEOUT_SECONDS")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")

	viper.SetDefault("server.port", "3031")
	viper.SetDefault("server.allowedOrigins", []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://localhost:8080",
	})
	viper.SetDefault("mongo.dbName", "reeutil")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("notify.bases", []string{"http://localhost:3061"})
	viper.SetDefault("notify.estDeliveryDays", "2–5")
	viper.SetDefault("upstream.quoteBase", "http://localhost:3021")
	viper.SetDefault("upstream.payoutBase", "http://localhost:3051")
	viper.SetDefault("upstream.timeoutSeconds", 8)

	// A missing file is fine; Viper falls back to env vars and defaults.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
