package handler

import (
	"github.com/x0x0b/chat-frontend/internal/app/relay"
	"github.com/x0x0b/chat-frontend/internal/configs"
)

// AppDeps bundles the dependencies the HTTP handlers need.
type AppDeps struct {
	Config *configs.AppConfig
	Room   *relay.Room
}
