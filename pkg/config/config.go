package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"payrelay:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// Daraja holds the provider credentials and endpoint selection.
// Env selects the host: "sandbox" or "production".
type Daraja struct {
	Env                string        `envconfig:"ENV" default:"sandbox"`
	ConsumerKey        string        `envconfig:"CONSUMER_KEY"`
	ConsumerSecret     string        `envconfig:"CONSUMER_SECRET"`
	ShortCode          string        `envconfig:"SHORT_CODE"`
	PassKey            string        `envconfig:"PASS_KEY"`
	InitiatorName      string        `envconfig:"INITIATOR_NAME"`
	SecurityCredential string        `envconfig:"SECURITY_CREDENTIAL"`
	CallbackBaseURL    string        `envconfig:"CALLBACK_BASE_URL"`
	TokenTimeout       time.Duration `envconfig:"TOKEN_TIMEOUT" default:"10s"`
	TokenExpiryBuffer  time.Duration `envconfig:"TOKEN_EXPIRY_BUFFER" default:"1m"`
	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// RateLimit caps inbound requests per source IP inside a rolling window.
// The provider allows 5 status queries per 60s; we stay below that.
type RateLimit struct {
	ChargeMax int           `envconfig:"CHARGE_MAX" default:"3"`
	QueryMax  int           `envconfig:"QUERY_MAX" default:"4"`
	Window    time.Duration `envconfig:"WINDOW" default:"60s"`
}

type StatusCache struct {
	TTL    time.Duration `envconfig:"TTL" default:"15s"`
	Prefix string        `envconfig:"PREFIX" default:"status:"`
	Url    string        `envconfig:"URL"`
}

type Kafka struct {
	Brokers     string `envconfig:"BROKERS"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"payrelay.events"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[payrelay]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"8000"`
}

type App struct {
	Env         string       `envconfig:"APP_ENV" default:"development"`
	Server      *Server      `envconfig:"SERVER"`
	Log         *Log         `envconfig:"LOG"`
	DB          *DB          `envconfig:"DATABASE"`
	Daraja      *Daraja      `envconfig:"MPESA"`
	Redis       *Redis       `envconfig:"REDIS"`
	RateLimit   *RateLimit   `envconfig:"RATE_LIMIT"`
	StatusCache *StatusCache `envconfig:"STATUS_CACHE"`
	Kafka       *Kafka       `envconfig:"KAFKA"`
}
