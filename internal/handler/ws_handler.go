/*
Package handler provides the HTTP handler for websocket connection upgrading.

The join handshake itself happens in-band: the first frame a client sends is
its join command, so the upgrade endpoint only rate-limits and upgrades.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/x0x0b/chat-frontend/internal/app/relay"
	"github.com/x0x0b/chat-frontend/internal/pkg/errs"
	"github.com/x0x0b/chat-frontend/internal/pkg/limiter"
	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
	"github.com/x0x0b/chat-frontend/internal/pkg/resp"
)

// HandleWebSocket returns the handler that upgrades connections and starts
// the per-connection pumps.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := relay.NewClient(deps.Room, conn)

		go client.WritePump()
		client.ReadPump()
	}
}
