package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/matiasleandrokruk/trendwords/internal/domain/trend"
)

// LiveHandler upgrades /live requests to a websocket and hands the connection
// to the live feed protocol.
type LiveHandler struct {
	feed     *trend.LiveFeed
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a LiveHandler over feed.
func NewLiveHandler(feed *trend.LiveFeed) *LiveHandler {
	return &LiveHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Upgrade handles GET /live?subreddit=a&subreddit=b. Repeated subreddit
// parameters seed the feed's initial request; none means the feed starts from
// trending topics.
func (h *LiveHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	seed := trend.ToTopics(r.URL.Query()["subreddit"])

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return
	}
	defer ws.Close() //nolint:errcheck

	if serveErr := h.feed.Serve(r.Context(), textConn{ws: ws}, seed); serveErr != nil {
		log.Printf("live feed closed: %v", serveErr)
	}
}

// errBinaryFrame is returned for inbound binary frames, which the live
// protocol does not support; it terminates the read loop.
var errBinaryFrame = errors.New("binary frames are not supported")

// textConn adapts a websocket connection to trend.Conn, restricted to text
// frames (binary frames are unsupported and close the connection).
type textConn struct {
	ws *websocket.Conn
}

func (c textConn) ReadMessage() ([]byte, error) {
	messageType, data, err := c.ws.ReadMessage()
	if err != nil {
		return nil, err
	}
	if messageType != websocket.TextMessage {
		return nil, errBinaryFrame
	}
	return data, nil
}

func (c textConn) WriteMessage(frame []byte) error {
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}
