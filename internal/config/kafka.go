package config

import (
	"strings"

	"github.com/segmentio/kafka-go"
)

func kafkaBrokerURLs(brokers []string) []string {
	var out []string
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// NewKafkaWriter returns nil when no brokers are configured.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	urls := kafkaBrokerURLs(brokers)
	if len(urls) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(urls...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{}, // Balancer for selecting partition
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}
