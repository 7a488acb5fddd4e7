//go:build kafka
// +build kafka

package main

import (
	"log/slog"

	infraeventbus "github.com/mwendwa/payrelay/infra/eventbus"
	"github.com/mwendwa/payrelay/pkg/config"
	"github.com/mwendwa/payrelay/pkg/eventbus"
)

func newBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	if cfg.Kafka.Brokers == "" {
		return infraeventbus.NewWithMemory(logger), nil
	}
	return infraeventbus.NewWithKafka(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, logger)
}
