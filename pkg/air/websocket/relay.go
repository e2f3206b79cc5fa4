package websocket

import (
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Relay forwards every message from one connection to all the others.
type Relay struct {
	lock  sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewRelay creates a Relay.
func NewRelay() *Relay {
	return &Relay{conns: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP implements http.Handler.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	websocket.Handler(r.serve).ServeHTTP(w, req)
}

// Len returns the number of connections.
func (r *Relay) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.conns)
}

func (r *Relay) serve(conn *websocket.Conn) {
	r.lock.Lock()
	r.conns[conn] = struct{}{}
	r.lock.Unlock()
	glog.V(2).Infof("JOIN %s", conn.Request().RemoteAddr)
	defer func() {
		r.lock.Lock()
		delete(r.conns, conn)
		r.lock.Unlock()
		conn.Close()
		glog.V(2).Infof("LEAVE %s", conn.Request().RemoteAddr)
	}()
	for {
		var pkt []byte
		if err := websocket.Message.Receive(conn, &pkt); err != nil {
			return
		}
		r.broadcast(conn, pkt)
	}
}

func (r *Relay) broadcast(from *websocket.Conn, pkt []byte) {
	r.lock.Lock()
	defer r.lock.Unlock()
	for conn := range r.conns {
		if conn == from {
			continue
		}
		if err := websocket.Message.Send(conn, pkt); err != nil {
			glog.Warningf("relay to %s: %v", conn.Request().RemoteAddr, err)
		}
	}
}
