//go:build !kafka
// +build !kafka

package main

import (
	"log/slog"

	infraeventbus "github.com/mwendwa/payrelay/infra/eventbus"
	"github.com/mwendwa/payrelay/pkg/config"
	"github.com/mwendwa/payrelay/pkg/eventbus"
)

func newBus(_ *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	return infraeventbus.NewWithMemory(logger), nil
}
