package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/baohm88/mycabs/internal/domain"
	"github.com/baohm88/mycabs/pkg"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type myWebSocket struct {
	once   sync.Once
	done   chan struct{}
	sendCh chan any
}

// NotifyHub pushes notification events to connected users and a broadcast
// admin channel. One connection per user id; admins are fan-out.
type NotifyHub struct {
	secret  []byte
	srv     *http.Server
	slogger *slog.Logger
	clients sync.Map // user id -> *myWebSocket
	admins  sync.Map // connection addr -> *myWebSocket
}

func NewNotifyHub(slogger *slog.Logger, secret []byte, port uint16) *NotifyHub {
	mux := http.NewServeMux()
	hub := &NotifyHub{
		secret:  secret,
		slogger: slogger,
	}
	mux.HandleFunc("/ws/users/{user_id}", hub.connectUser)
	mux.HandleFunc("/ws/admin", hub.connectAdmin)
	hub.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return hub
}

func (hub *NotifyHub) GiveToUser(id string, zat any) {
	wsStu, ok := hub.clients.Load(id)
	if !ok {
		return
	}
	ws, ok := wsStu.(*myWebSocket)
	if !ok {
		hub.slogger.Info("cannot parse myWebSocket")
		return
	}
	ws.pushToChannel(zat)
}

func (hub *NotifyHub) BroadcastAdmin(zat any) {
	hub.admins.Range(func(_, v any) bool {
		if ws, ok := v.(*myWebSocket); ok {
			ws.pushToChannel(zat)
		}
		return true
	})
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// auth reads the first frame, which must be {"type":"auth","token":...}, and
// returns the verified claims.
func (hub *NotifyHub) auth(conn *websocket.Conn) (*pkg.MyClaims, error) {
	err := conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err != nil {
		return nil, err
	}
	auth := new(authMessage)
	err = conn.ReadJSON(auth)
	if err != nil {
		return nil, err
	}
	if auth.Type != "auth" {
		return nil, fmt.Errorf("invalid auth type: %s", auth.Type)
	}
	return pkg.ParseTokenMyClaims(auth.Token, hub.secret)
}

func (hub *NotifyHub) connectUser(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.slogger.Error("upgrade error:", "error", err)
		return
	}
	defer conn.Close()
	id := r.PathValue("user_id")

	claim, err := hub.auth(conn)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	if claim.UserID != id {
		conn.WriteJSON(map[string]string{"error": "user id != token's id"})
		return
	}

	_, ok := hub.clients.Load(id)
	if ok {
		conn.WriteJSON(map[string]string{"error": "already connected in other ws"})
		return
	}

	myWS := &myWebSocket{
		done:   make(chan struct{}),
		sendCh: make(chan any),
	}
	go hub.pingPong(r.Context(), conn, myWS)

	hub.clients.Store(id, myWS)
	defer hub.clients.Delete(id)
	go hub.writer(conn, myWS)
	<-myWS.done
}

func (hub *NotifyHub) connectAdmin(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.slogger.Error("upgrade error:", "error", err)
		return
	}
	defer conn.Close()

	claim, err := hub.auth(conn)
	if err != nil {
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	role, err := domain.ParseRole(claim.Role)
	if err != nil || role != domain.RoleAdmin {
		conn.WriteJSON(map[string]string{"error": "admin role required"})
		return
	}

	myWS := &myWebSocket{
		done:   make(chan struct{}),
		sendCh: make(chan any),
	}
	go hub.pingPong(r.Context(), conn, myWS)

	key := conn.RemoteAddr().String()
	hub.admins.Store(key, myWS)
	defer hub.admins.Delete(key)
	go hub.writer(conn, myWS)
	<-myWS.done
}

func (s *myWebSocket) safeClose() {
	s.once.Do(func() {
		close(s.done)
		time.Sleep(5 * time.Second)
		close(s.sendCh)
	})
}

func (s *myWebSocket) pushToChannel(zat any) {
	select {
	case <-s.done:
		return
	case s.sendCh <- zat:
		return
	}
}

func (hub *NotifyHub) pingPong(ctx context.Context, ws *websocket.Conn, my *myWebSocket) {
	defer my.safeClose()
	const (
		pingPeriod = 30 * time.Second
		pongWait   = 60 * time.Second
	)

	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(appData string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				ws.Close()
				return
			}
		}
	}
}

func (hub *NotifyHub) writer(conn *websocket.Conn, ws *myWebSocket) {
	defer ws.safeClose()
	for data := range ws.sendCh {
		err := conn.WriteJSON(data)
		if err != nil {
			return
		}
	}
}

func (hub *NotifyHub) StartServer() error {
	return hub.srv.ListenAndServe()
}

func (hub *NotifyHub) CloseServer() error {
	return hub.srv.Close()
}
