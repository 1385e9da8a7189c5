package transport

import (
	"fmt"
	"net/http"
	"time"

	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/session"

	"go.uber.org/zap"
)

const (
	eventCartCount     = "cart-count"
	eventWishlistCount = "wishlist-count"

	keepAliveInterval = 25 * time.Second
)

// Events streams the navbar badge counts as server-sent events. Each stream
// starts with the current counts. It ends when the client goes away, the
// server shuts down or the workspace is closed.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	rc := http.NewResponseController(w)

	cartSub := ws.Cart.SubscribeCount()
	defer cartSub.Cancel()
	wishSub := ws.Wishlist.SubscribeCount()
	defer wishSub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.FromCtx(r.Context()).Error("streaming unsupported", zap.Error(err))
		return
	}
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	log := logger.FromCtx(r.Context()).With(zap.String("layer", "transport"), zap.String("method", "Events"))
	log.Debug("event stream opened")
	defer log.Debug("event stream closed")

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case <-h.shutdown:
			return
		case n, ok := <-cartSub.C():
			if !ok {
				return
			}
			err = writeEvent(w, eventCartCount, n)
		case n, ok := <-wishSub.C():
			if !ok {
				return
			}
			err = writeEvent(w, eventWishlistCount, n)
		case <-keepAlive.C:
			_, err = fmt.Fprint(w, ": keep-alive\n\n")
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			log.Debug("event stream write failed", zap.Error(err))
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data int) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %d\n\n", name, data)
	return err
}
