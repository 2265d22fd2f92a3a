package config

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
	"github.com/go-sql-driver/mysql"
)

func parse(t *testing.T, args ...string) Config {
	t.Helper()
	var cli struct {
		Config Config `embed:""`
	}
	parser, err := kong.New(&cli, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	assert.NoError(t, err)
	_, err = parser.Parse(args)
	assert.NoError(t, err)
	return cli.Config
}

func TestDefaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, ":8084", cfg.Addr())
	assert.Equal(t, "cart-db", cfg.DBName)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 10*time.Second, cfg.CheckoutLockWait)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, 0, len(cfg.KafkaBrokers))
	assert.Zero(t, NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
}

func TestEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "mysql")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("REMOTE_TIMEOUT", "750ms")
	t.Setenv("ORDER_SERVICE_URL", "http://orders:8082/orders")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg := parse(t)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 750*time.Millisecond, cfg.RemoteTimeout)
	assert.Equal(t, "http://orders:8082/orders", cfg.OrderServiceURL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)

	dsn, err := mysql.ParseDSN(cfg.DSN())
	assert.NoError(t, err)
	assert.Equal(t, "mysql:3306", dsn.Addr)
	assert.Equal(t, "secret", dsn.Passwd)
	assert.Equal(t, "cart-db", dsn.DBName)
	assert.True(t, dsn.ParseTime)

	w := NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	assert.NotZero(t, w)
	assert.Equal(t, "cart-topic", w.Topic)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg := parse(t, "--port=7070", "--log-level=debug")
	assert.Equal(t, ":7070", cfg.Addr())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestKafkaBrokerURLsSkipsBlanks(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, kafkaBrokerURLs([]string{" a:9092", "", "b:9092 "}))
	assert.Zero(t, kafkaBrokerURLs(nil))
}
