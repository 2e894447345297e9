// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"ambient/internal/log"

	"github.com/gorilla/websocket"
)

const (
	// EventsPath is the endpoint clients connect to.
	EventsPath = "/events"

	broadcastQueue = 256
	writeTimeout   = 2 * time.Second
)

// WebSocketTransport broadcasts every message as JSON to all clients
// connected to EventsPath.
type WebSocketTransport struct {
	upgrader  websocket.Upgrader
	listener  net.Listener
	server    *http.Server
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
	broadcast chan any
	sendMu    sync.RWMutex // guards stopping and the close of broadcast
	stopping  bool
	done      chan struct{} // closed once the queue is drained
	closeOnce sync.Once
	closed    bool
}

// NewWebSocketTransport listens on addr and starts serving. Use port 0 to
// pick a free port; Addr reports the bound address.
func NewWebSocketTransport(addr string) (*WebSocketTransport, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	wst := &WebSocketTransport{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // events are read-only
			},
		},
		listener:  ln,
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan any, broadcastQueue),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(EventsPath, wst.handleWebSocket)
	wst.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Infof("WebSocketTransport: Serving events on ws://%s%s", ln.Addr(), EventsPath)
		if err := wst.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("WebSocketTransport: Server error: %v", err)
		}
	}()
	go wst.handleBroadcasts()
	return wst, nil
}

// Addr returns the listening address.
func (wst *WebSocketTransport) Addr() net.Addr {
	return wst.listener.Addr()
}

// ClientCount returns the number of connected clients.
func (wst *WebSocketTransport) ClientCount() int {
	wst.clientsMu.Lock()
	defer wst.clientsMu.Unlock()
	return len(wst.clients)
}

// handleWebSocket upgrades HTTP connections to WebSocket
func (wst *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wst.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("WebSocketTransport: Upgrade error: %v", err)
		return
	}

	wst.clientsMu.Lock()
	if wst.closed {
		wst.clientsMu.Unlock()
		conn.Close()
		return
	}
	wst.clients[conn] = true
	total := len(wst.clients)
	wst.clientsMu.Unlock()
	log.Debugf("WebSocketTransport: Client connected, total: %d", total)

	// Clients never send; a read error means they went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wst.drop(conn)
				return
			}
		}
	}()
}

func (wst *WebSocketTransport) drop(conn *websocket.Conn) {
	wst.clientsMu.Lock()
	_, ok := wst.clients[conn]
	delete(wst.clients, conn)
	total := len(wst.clients)
	wst.clientsMu.Unlock()
	if ok {
		conn.Close()
		log.Debugf("WebSocketTransport: Client disconnected, total: %d", total)
	}
}

// handleBroadcasts sends messages to all connected clients until the queue
// is closed and empty.
func (wst *WebSocketTransport) handleBroadcasts() {
	defer close(wst.done)
	for data := range wst.broadcast {
		wst.clientsMu.Lock()
		for client := range wst.clients {
			_ = client.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := client.WriteJSON(data); err != nil {
				log.Warnf("WebSocketTransport: Error sending to client: %v", err)
				client.Close()
				delete(wst.clients, client)
			}
		}
		wst.clientsMu.Unlock()
	}
}

// Send queues data for broadcast. Messages are dropped when the queue is
// full so a slow client never blocks the pipeline.
func (wst *WebSocketTransport) Send(data any) error {
	wst.sendMu.RLock()
	defer wst.sendMu.RUnlock()
	if wst.stopping {
		return ErrClosed
	}
	select {
	case wst.broadcast <- data:
	default:
		log.Debugf("WebSocketTransport: queue full, dropping message")
	}
	return nil
}

// Close stops accepting messages, delivers the queued ones, then
// disconnects all clients and shuts down the server.
func (wst *WebSocketTransport) Close() error {
	var err error
	wst.closeOnce.Do(func() {
		wst.sendMu.Lock()
		wst.stopping = true
		close(wst.broadcast)
		wst.sendMu.Unlock()
		<-wst.done

		wst.clientsMu.Lock()
		wst.closed = true
		bye := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		for client := range wst.clients {
			_ = client.WriteControl(websocket.CloseMessage, bye, time.Now().Add(writeTimeout))
			client.Close()
		}
		wst.clients = make(map[*websocket.Conn]bool)
		wst.clientsMu.Unlock()
		err = wst.server.Close()
	})
	return err
}

// Ensure WebSocketTransport satisfies the interface
var _ Transport = (*WebSocketTransport)(nil)
