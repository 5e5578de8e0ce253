package config

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"5m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
	// Realtime listener reconnect bounds.
	ListenerMinReconnect time.Duration `yaml:"LISTENER_MIN_RECONNECT" env:"PG_LISTENER_MIN_RECONNECT" env-default:"10s"`
	ListenerMaxReconnect time.Duration `yaml:"LISTENER_MAX_RECONNECT" env:"PG_LISTENER_MAX_RECONNECT" env-default:"1m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-required:"true"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-required:"true"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15m"`
}

type Stripe struct {
	APIKey        string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret string `yaml:"STRIPE_WEBHOOK_SECRET" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	Currency      string `yaml:"STRIPE_CURRENCY" env:"STRIPE_CURRENCY" env-default:"eur"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"no-reply@munera.fr"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Munera Collective"`
}

type Security struct {
	JWTKey         string        `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	JWTExpiryHours int           `yaml:"JWT_EXPIRY_HOURS" env:"JWT_EXPIRY_HOURS" env-default:"168"`
	MagicLinkTTL   time.Duration `yaml:"MAGIC_LINK_TTL" env:"MAGIC_LINK_TTL" env-default:"15m"`
	PublicBaseURL  string        `yaml:"PUBLIC_BASE_URL" env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080"`
	AdminEmails    []string      `yaml:"ADMIN_EMAILS" env:"ADMIN_EMAILS" env-default:"admin@munera.fr"`
	// Hosts a sign-in link may send the browser back to, besides PublicBaseURL's.
	RedirectHosts []string `yaml:"REDIRECT_HOSTS" env:"AUTH_REDIRECT_HOSTS" env-default:""`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"munera-platform"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
}

type Storage struct {
	Endpoint        string `yaml:"S3_ENDPOINT" env:"S3_ENDPOINT" env-default:""`
	Region          string `yaml:"S3_REGION" env:"S3_REGION" env-default:"auto"`
	Bucket          string `yaml:"S3_BUCKET" env:"S3_BUCKET" env-default:"munera"`
	AccessKeyID     string `yaml:"S3_ACCESS_KEY_ID" env:"S3_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `yaml:"S3_SECRET_ACCESS_KEY" env:"S3_SECRET_ACCESS_KEY" env-default:""`
	PublicURL       string `yaml:"S3_PUBLIC_URL" env:"S3_PUBLIC_URL" env-default:""`
}

type Cart struct {
	Namespace string        `yaml:"namespace" env:"CART_NAMESPACE" env-default:"munera_cart"`
	TTL       time.Duration `yaml:"ttl" env:"CART_TTL" env-default:"720h"`
}

type Contest struct {
	LeaderboardSize int `yaml:"leaderboard_size" env:"CONTEST_LEADERBOARD_SIZE" env-default:"5"`
	TallyQueueSize  int `yaml:"tally_queue_size" env:"CONTEST_TALLY_QUEUE_SIZE" env-default:"256"`
}

type Flyer struct {
	BrandName    string        `yaml:"brand_name" env:"FLYER_BRAND_NAME" env-default:"MUNERA COLLECTIVE"`
	ImageTimeout time.Duration `yaml:"image_timeout" env:"FLYER_IMAGE_TIMEOUT" env-default:"10s"`
	MaxImageSize int64         `yaml:"max_image_size" env:"FLYER_MAX_IMAGE_SIZE" env-default:"10485760"`
	// Extra hosts backgrounds may be fetched from; the storage public URL host is always allowed.
	BackgroundHosts []string `yaml:"background_hosts" env:"FLYER_BACKGROUND_HOSTS" env-default:""`
}

type Geocoding struct {
	BaseURL   string        `yaml:"base_url" env:"GEOCODING_BASE_URL" env-default:"https://nominatim.openstreetmap.org"`
	Country   string        `yaml:"country" env:"GEOCODING_COUNTRY" env-default:"France"`
	UserAgent string        `yaml:"user_agent" env:"GEOCODING_USER_AGENT" env-default:"munera-platform/1.0"`
	Timeout   time.Duration `yaml:"timeout" env:"GEOCODING_TIMEOUT" env-default:"5s"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Stripe       Stripe       `yaml:"stripe"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
	Otel         Otel         `yaml:"otel"`
	Cache        CacheConfig  `yaml:"cache"`
	Storage      Storage      `yaml:"storage"`
	Cart         Cart         `yaml:"cart"`
	Contest      Contest      `yaml:"contest"`
	Flyer        Flyer        `yaml:"flyer"`
	Geocoding    Geocoding    `yaml:"geocoding"`
}

func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the yaml config file")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			configPath = "config/local.yaml"
		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}

// IsAdmin reports whether email is on the admin allow-list. Comparison ignores case.
func (s *Security) IsAdmin(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	for _, admin := range s.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}

	return false
}

func (s *Security) JWTExpiry() time.Duration {
	return time.Duration(s.JWTExpiryHours) * time.Hour
}

// AllowsRedirect reports whether raw is an absolute http(s) URL on PublicBaseURL's
// host or one of RedirectHosts.
func (s *Security) AllowsRedirect(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	hosts := append([]string{}, s.RedirectHosts...)
	if base, err := url.Parse(s.PublicBaseURL); err == nil && base.Host != "" {
		hosts = append(hosts, base.Host)
	}

	for _, h := range hosts {
		if strings.EqualFold(strings.TrimSpace(h), u.Host) {
			return true
		}
	}

	return false
}

// FlyerBackgroundHosts lists the hosts flyer backgrounds may be fetched from.
func (c *Config) FlyerBackgroundHosts() []string {
	var hosts []string

	if u, err := url.Parse(c.Storage.PublicURL); err == nil && u.Host != "" {
		hosts = append(hosts, u.Host)
	}

	for _, h := range c.Flyer.BackgroundHosts {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}

	return hosts
}
