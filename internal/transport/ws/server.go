package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Acceptor upgrades incoming HTTP requests into peer connections.
// A match has exactly one remote peer, so while a connection is live any
// further upgrade attempt is answered with 409 Conflict.
type Acceptor struct {
	opts     Options
	upgrader websocket.Upgrader
	conns    chan *Conn

	mu   sync.Mutex
	busy bool
}

// NewAcceptor creates an acceptor whose connections use opts.
func NewAcceptor(opts Options) *Acceptor {
	opts = opts.withDefaults()
	return &Acceptor{
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   MaxFrameSize,
			WriteBufferSize:  MaxFrameSize,
			HandshakeTimeout: opts.HandshakeTimeout,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
		conns: make(chan *Conn, 1),
	}
}

// ServeHTTP implements http.Handler.
func (a *Acceptor) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		http.Error(rw, "match already has a peer", http.StatusConflict)
		return
	}
	a.busy = true
	a.mu.Unlock()

	c, err := a.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		a.opts.Logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		a.release()
		return
	}

	conn := newConn(c, a.opts)
	a.opts.Logger.Info("peer connected", "remote", conn.RemoteAddr(), "request_id", chimw.GetReqID(r.Context()))

	select {
	case a.conns <- conn:
	default:
		// Nobody collected the previous connection; keep the newest.
		select {
		case old := <-a.conns:
			_ = old.Close()
		default:
		}
		a.conns <- conn
	}

	go func() {
		<-conn.Done()
		a.release()
	}()
}

func (a *Acceptor) release() {
	a.mu.Lock()
	a.busy = false
	a.mu.Unlock()
}

// Accept waits for the next peer connection.
func (a *Acceptor) Accept(ctx context.Context) (*Conn, error) {
	select {
	case c := <-a.conns:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Busy reports whether a peer is currently connected.
func (a *Acceptor) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Status is the body of GET /status.
type Status struct {
	Service   string `json:"service"`
	SessionID string `json:"session_id,omitempty"`
	PeerReady bool   `json:"peer_connected"`
	Tick      uint32 `json:"tick"`
	State     string `json:"state"`
	Score     [2]int `json:"score"`
}

// NewRouter mounts the acceptor at /ws and a JSON status endpoint at /status.
// status may be nil.
func NewRouter(acc *Acceptor, status func() Status) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/ws", acc.ServeHTTP)
	r.Get("/status", func(rw http.ResponseWriter, req *http.Request) {
		st := Status{Service: "lockstep-pong"}
		if status != nil {
			st = status()
		}
		st.PeerReady = acc.Busy()
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(st)
	})
	return r
}
