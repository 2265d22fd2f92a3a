package config

import (
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

type Config struct {
	Port     int    `help:"HTTP listen port." env:"PORT" default:"8084"`
	LogLevel string `help:"Log level." env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error"`

	DBHost    string `help:"MySQL host." env:"DB_HOST" default:"127.0.0.1"`
	DBPort    int    `help:"MySQL port." env:"DB_PORT" default:"3306"`
	DBUser    string `help:"MySQL user." env:"DB_USER" default:"root"`
	DBPass    string `help:"MySQL password." env:"DB_PASS" default:""`
	DBName    string `help:"MySQL database." env:"DB_NAME" default:"cart-db"`
	DBRetries int    `help:"Connection and migration attempts before giving up." env:"DB_RETRIES" default:"10"`

	ProductServiceURL   string        `help:"Catalog base URL; products are read from {url}/{productId}." env:"PRODUCT_SERVICE_URL" default:"http://localhost:8081/products"`
	InventoryServiceURL string        `help:"Inventory base URL; stock is reduced at {url}/{productId}/reduce." env:"INVENTORY_SERVICE_URL" default:"http://localhost:8081/inventory"`
	OrderServiceURL     string        `help:"Order creation URL." env:"ORDER_SERVICE_URL" default:"http://localhost:8082/orders"`
	RemoteTimeout       time.Duration `help:"Bound on each remote call." env:"REMOTE_TIMEOUT" default:"5s"`

	RedisAddr        string        `help:"Redis address for the shared checkout lock. Empty uses an in-process lock." env:"REDIS_ADDR" default:""`
	CheckoutLockKey  string        `help:"Redis key of the checkout lock." env:"CHECKOUT_LOCK_KEY" default:"cart:checkout:lock"`
	CheckoutLockTTL  time.Duration `help:"Lease of the Redis checkout lock." env:"CHECKOUT_LOCK_TTL" default:"1m"`
	CheckoutLockWait time.Duration `help:"How long a checkout waits for another to finish." env:"CHECKOUT_LOCK_WAIT" default:"10s"`

	KafkaBrokers []string `help:"Kafka brokers for checkout events. Empty disables events." env:"KAFKA_BROKERS"`
	KafkaTopic   string   `help:"Topic for checkout events." env:"KAFKA_TOPIC" default:"cart-topic"`

	RateLimit float64 `help:"Requests per second per client; 0 disables limiting." env:"RATE_LIMIT" default:"10"`
	RateBurst int     `help:"Rate limiter burst." env:"RATE_BURST" default:"20"`
}

// DSN returns the MySQL DSN. parseTime is required to scan added_at.
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.DBUser
	mc.Passwd = c.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort))
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
