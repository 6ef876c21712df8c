package almanac

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/almanac/internal/errors"
	"github.com/vango-dev/almanac/pkg/nav"
	"github.com/vango-dev/almanac/pkg/session"
	"github.com/vango-dev/almanac/pkg/theme"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
	liveSendBuffer = 16
	liveMaxMessage = 4 << 10
)

// Client messages.
const (
	msgSetMode         = "setMode"
	msgToggleMode      = "toggleMode"
	msgAddPenFriend    = "addPenFriend"
	msgRemovePenFriend = "removePenFriend"
	msgNavigate        = "navigate"
	msgPing            = "ping"
)

// Server events.
const (
	evtWelcome = "welcome"
	evtSession = "session"
	evtView    = "view"
	evtError   = "error"
	evtPong    = "pong"
)

// liveMessage is a message from the reader.
type liveMessage struct {
	Type string `json:"type"`

	// Mode is the target of setMode.
	Mode string `json:"mode,omitempty"`

	// UpdatedAt is when the reader chose Mode. Concurrent setMode messages
	// from several tabs resolve to the latest; without it the change
	// applies as of now.
	UpdatedAt time.Time `json:"updatedAt,omitempty"`

	// Name is the author of addPenFriend and removePenFriend.
	Name string `json:"name,omitempty"`

	// Query is the navigate target: a query string, with or without "?",
	// or a relative link such as "/?edition=2025-11".
	Query string `json:"query,omitempty"`
}

// liveEvent is a message to the reader.
type liveEvent struct {
	Type    string            `json:"type"`
	Session *session.Snapshot `json:"session,omitempty"`
	View    *View             `json:"view,omitempty"`

	// Following reports, on column views, whether the reader follows the
	// column's author.
	Following bool `json:"following,omitempty"`

	Error *errorResponse `json:"error,omitempty"`
}

// liveHub serves /api/live. Each connection is bound to one reader
// session; several connections may share a session, and all of them see
// its changes.
type liveHub struct {
	app      *App
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.Mutex
	conns map[*liveConn]struct{}
}

func newLiveHub(a *App) *liveHub {
	h := &liveHub{
		app:    a,
		logger: a.logger.With("component", "live"),
		conns:  make(map[*liveConn]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts same-origin and allow-listed origins. Requests
// without an Origin header are not from browsers and are accepted.
func (h *liveHub) checkOrigin(r *http.Request) bool {
	cfg := h.app.config
	if cfg.DevMode {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range cfg.Security.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	if cfg.Security.AllowSameOrigin {
		if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
	}
	h.logger.Warn("rejected live connection", "origin", origin)
	return false
}

// ServeHTTP resumes the session named by the "session" query parameter or
// creates a new one, then upgrades the connection.
func (h *liveHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, created, err := h.session(r)
	if err != nil {
		writeError(w, errors.New("A130").WithDetail(err.Error()), http.StatusServiceUnavailable)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.app.metrics.WebSocketError("upgrade")
		if created {
			h.app.sessions.Delete(sess.ID)
		}
		return
	}

	c := &liveConn{
		hub:   h,
		ws:    ws,
		sess:  sess,
		ctx:   context.WithoutCancel(r.Context()),
		send:  make(chan liveEvent, liveSendBuffer),
		done:  make(chan struct{}),
		state: nav.Home(),
	}
	c.subscribe()
	h.add(c)
	defer h.remove(c)

	go c.writeLoop()

	snap := sess.Snapshot()
	c.enqueue(liveEvent{Type: evtWelcome, Session: &snap})
	c.readLoop()
}

func (h *liveHub) session(r *http.Request) (*session.Session, bool, error) {
	if id := r.URL.Query().Get("session"); id != "" {
		if s, ok := h.app.sessions.Get(id); ok {
			return s, false, nil
		}
	}
	mode := h.app.config.DefaultMode
	if m, ok := theme.ParseMode(r.URL.Query().Get("mode")); ok {
		mode = m
	}
	s, err := h.app.sessions.Create(mode)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func (h *liveHub) add(c *liveConn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	h.app.metrics.LiveOpened()
}

func (h *liveHub) remove(c *liveConn) {
	c.close()
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	if ok {
		h.app.metrics.LiveClosed()
	}
}

// count returns the number of open connections.
func (h *liveHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// closeAll closes every connection. Their handlers then unwind.
func (h *liveHub) closeAll() {
	h.mu.Lock()
	conns := make([]*liveConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}

// liveConn is one websocket connection.
type liveConn struct {
	hub  *liveHub
	ws   *websocket.Conn
	sess *session.Session
	ctx  context.Context

	send      chan liveEvent
	done      chan struct{}
	closeOnce sync.Once
	unsubs    []func()

	mu    sync.Mutex
	state nav.State
}

// subscribe forwards session changes made through any connection.
func (c *liveConn) subscribe() {
	c.unsubs = append(c.unsubs,
		c.sess.Mode.Subscribe(func(theme.Mode) {
			c.pushSession()
			c.pushView()
		}),
		c.sess.PenFriends.Subscribe(func(session.PenFriends) {
			c.pushSession()
			c.mu.Lock()
			isColumn := c.state.Kind() == nav.KindColumn
			c.mu.Unlock()
			if isColumn {
				c.pushView()
			}
		}),
	)
}

func (c *liveConn) close() {
	c.closeOnce.Do(func() {
		for _, unsub := range c.unsubs {
			unsub()
		}
		close(c.done)
		// WriteControl may run alongside writeLoop's writes.
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(liveWriteWait))
		c.ws.Close()
	})
}

// enqueue hands ev to the writer. A reader that cannot keep up is
// disconnected.
func (c *liveConn) enqueue(ev liveEvent) {
	select {
	case <-c.done:
	case c.send <- ev:
	default:
		c.hub.app.metrics.WebSocketError("slow_consumer")
		c.hub.logger.Warn("live send buffer full, closing", "session", c.sess.ID)
		c.close()
	}
}

func (c *liveConn) readLoop() {
	c.ws.SetReadLimit(liveMaxMessage)
	c.ws.SetReadDeadline(time.Now().Add(livePongWait))
	// A connected reader keeps its session from idling out.
	c.ws.SetPongHandler(func(string) error {
		c.sess.Touch(time.Now())
		return c.ws.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.hub.app.metrics.WebSocketError("read")
				c.hub.logger.Debug("live read error", "session", c.sess.ID, "error", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(livePongWait))
		c.sess.Touch(time.Now())

		var msg liveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.app.metrics.WebSocketError("decode")
			c.sendError(errors.New("A130").WithDetail("message is not JSON"))
			continue
		}
		c.handle(msg)
	}
}

func (c *liveConn) handle(msg liveMessage) {
	c.hub.app.metrics.LiveMessage(msg.Type)

	switch msg.Type {
	case msgSetMode:
		m, ok := theme.ParseMode(msg.Mode)
		if !ok {
			c.sendError(errors.New("A130").WithDetailf("mode %q is not light or dark", msg.Mode))
			return
		}
		if !c.sess.SetMode(m, msg.UpdatedAt) {
			// Stale: tell this tab what the mode is now.
			c.pushSession()
		}

	case msgToggleMode:
		c.sess.ToggleMode()

	case msgAddPenFriend, msgRemovePenFriend:
		name := strings.TrimSpace(msg.Name)
		if name == "" {
			c.sendError(errors.New("A130").WithDetail("name is required"))
			return
		}
		if msg.Type == msgAddPenFriend {
			c.sess.AddPenFriend(name)
		} else {
			c.sess.RemovePenFriend(name)
		}

	case msgNavigate:
		c.mu.Lock()
		c.state = decodeTarget(msg.Query)
		c.mu.Unlock()
		c.pushView()

	case msgPing:
		c.enqueue(liveEvent{Type: evtPong})

	default:
		c.sendError(errors.New("A130").WithDetailf("unknown message type %q", msg.Type))
	}
}

// decodeTarget accepts "edition=x", "?edition=x" or "/path?edition=x".
func decodeTarget(target string) nav.State {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return nav.Decode(target[:i], target[i+1:])
	}
	if strings.HasPrefix(target, "/") {
		return nav.Home()
	}
	return nav.Decode("", target)
}

func (c *liveConn) pushSession() {
	snap := c.sess.Snapshot()
	c.enqueue(liveEvent{Type: evtSession, Session: &snap})
}

func (c *liveConn) pushView() {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	v, err := c.hub.app.View(c.ctx, state, c.sess.Mode.Get())
	if err != nil {
		c.sendError(err)
		return
	}
	ev := liveEvent{Type: evtView, View: v}
	if v.Column != nil {
		ev.Following = c.sess.IsPenFriend(v.Column.Author.Name)
	}
	c.enqueue(ev)
}

func (c *liveConn) sendError(err error) {
	resp := errorResponse{Status: statusFor(err), Message: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		resp.Code = e.Code
		resp.Message = e.Message
		resp.Detail = e.Detail
	}
	c.enqueue(liveEvent{Type: evtError, Error: &resp})
}

func (c *liveConn) writeLoop() {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case ev := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.ws.WriteJSON(ev); err != nil {
				c.hub.app.metrics.WebSocketError("write")
				c.close()
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		}
	}
}
