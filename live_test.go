package almanac

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"github.com/vango-dev/almanac/pkg/nav"
	"github.com/vango-dev/almanac/pkg/theme"
)

func dialLive(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/live"
	if query != "" {
		u += "?" + query
	}
	ws, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", u, err)
	}
	resp.Body.Close()
	return ws
}

func readEvent(t *testing.T, ws *websocket.Conn) liveEvent {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev liveEvent
	if err := ws.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

// readUntil skips events until one of type typ arrives.
func readUntil(t *testing.T, ws *websocket.Conn, typ string) liveEvent {
	t.Helper()
	for i := 0; i < 10; i++ {
		if ev := readEvent(t, ws); ev.Type == typ {
			return ev
		}
	}
	t.Fatalf("no %q event within 10 events", typ)
	return liveEvent{}
}

func send(t *testing.T, ws *websocket.Conn, msg liveMessage) {
	t.Helper()
	if err := ws.WriteJSON(msg); err != nil {
		t.Fatalf("write %+v: %v", msg, err)
	}
}

func TestLive_SessionFlow(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := newTestApp(t)
	srv := httptest.NewServer(app)
	defer srv.Close()
	defer app.Close()

	ws := dialLive(t, srv, "mode=dark")
	defer ws.Close()

	welcome := readEvent(t, ws)
	if welcome.Type != evtWelcome || welcome.Session == nil {
		t.Fatalf("first event = %+v, want welcome", welcome)
	}
	if welcome.Session.Mode != theme.Dark || welcome.Session.ID == "" {
		t.Errorf("welcome session = %+v", welcome.Session)
	}

	send(t, ws, liveMessage{Type: msgNavigate, Query: "/?edition=2025-11&article=essay"})
	ev := readUntil(t, ws, evtView)
	if ev.View == nil || ev.View.State != nav.Column("2025-11", "essay") {
		t.Fatalf("view = %+v", ev.View)
	}
	if ev.View.Mode != theme.Dark || ev.Following {
		t.Errorf("view mode = %v following = %v", ev.View.Mode, ev.Following)
	}

	send(t, ws, liveMessage{Type: msgAddPenFriend, Name: "Ana"})
	ev = readUntil(t, ws, evtSession)
	if diff := cmp.Diff([]string{"Ana"}, ev.Session.PenFriends); diff != "" {
		t.Errorf("pen friends mismatch (-want +got):\n%s", diff)
	}
	ev = readUntil(t, ws, evtView)
	if !ev.Following {
		t.Error("view should report the author as followed")
	}

	send(t, ws, liveMessage{Type: msgToggleMode})
	ev = readUntil(t, ws, evtSession)
	if ev.Session.Mode != theme.Light {
		t.Errorf("mode after toggle = %v", ev.Session.Mode)
	}
	ev = readUntil(t, ws, evtView)
	if ev.View.Mode != theme.Light {
		t.Errorf("re-rendered view mode = %v", ev.View.Mode)
	}

	send(t, ws, liveMessage{Type: msgPing})
	readUntil(t, ws, evtPong)

	s, ok := app.Sessions().Get(welcome.Session.ID)
	if !ok {
		t.Fatal("session not registered with the manager")
	}
	if !s.IsPenFriend("Ana") || s.Mode.Get() != theme.Light {
		t.Errorf("server-side session = %+v", s.Snapshot())
	}
}

func TestLive_SharedSession(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := newTestApp(t)
	srv := httptest.NewServer(app)
	defer srv.Close()
	defer app.Close()

	first := dialLive(t, srv, "")
	defer first.Close()
	id := readEvent(t, first).Session.ID

	second := dialLive(t, srv, "session="+id)
	defer second.Close()
	if got := readEvent(t, second).Session.ID; got != id {
		t.Fatalf("second connection got session %q, want %q", got, id)
	}

	send(t, first, liveMessage{Type: msgSetMode, Mode: "dark"})
	ev := readUntil(t, second, evtSession)
	if ev.Session.Mode != theme.Dark {
		t.Errorf("second connection saw mode %v, want dark", ev.Session.Mode)
	}
	if n := app.live.count(); n != 2 {
		t.Errorf("live count = %d, want 2", n)
	}
}

func TestLive_StaleSetModeLoses(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := newTestApp(t)
	srv := httptest.NewServer(app)
	defer srv.Close()
	defer app.Close()

	ws := dialLive(t, srv, "")
	defer ws.Close()
	welcome := readEvent(t, ws)
	base := welcome.Session.ModeUpdatedAt

	send(t, ws, liveMessage{Type: msgSetMode, Mode: "dark", UpdatedAt: base.Add(2 * time.Second)})
	ev := readUntil(t, ws, evtSession)
	if ev.Session.Mode != theme.Dark {
		t.Fatalf("mode after newer write = %v, want dark", ev.Session.Mode)
	}

	// Written earlier by another tab, arriving late.
	send(t, ws, liveMessage{Type: msgSetMode, Mode: "light", UpdatedAt: base.Add(time.Second)})
	ev = readUntil(t, ws, evtSession)
	if ev.Session.Mode != theme.Dark {
		t.Errorf("stale write changed mode to %v", ev.Session.Mode)
	}
	if !ev.Session.ModeUpdatedAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("ModeUpdatedAt = %v", ev.Session.ModeUpdatedAt)
	}

	s, _ := app.Sessions().Get(welcome.Session.ID)
	if s.Mode.Get() != theme.Dark {
		t.Errorf("server-side mode = %v", s.Mode.Get())
	}
}

func TestLive_Errors(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := newTestApp(t)
	srv := httptest.NewServer(app)
	defer srv.Close()
	defer app.Close()

	ws := dialLive(t, srv, "")
	defer ws.Close()
	readEvent(t, ws)

	tests := []struct {
		name string
		raw  string
		code string
	}{
		{"not json", `nonsense`, "A130"},
		{"unknown type", `{"type":"dance"}`, "A130"},
		{"bad mode", `{"type":"setMode","mode":"sepia"}`, "A130"},
		{"empty name", `{"type":"addPenFriend","name":"  "}`, "A130"},
		{"unknown edition", `{"type":"navigate","query":"edition=1999-01"}`, "A100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(tt.raw)); err != nil {
				t.Fatal(err)
			}
			ev := readUntil(t, ws, evtError)
			if ev.Error == nil || ev.Error.Code != tt.code {
				t.Errorf("error = %+v, want %s", ev.Error, tt.code)
			}
		})
	}
}

func TestLive_CloseDisconnectsReaders(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	app := newTestApp(t)
	srv := httptest.NewServer(app)
	defer srv.Close()

	ws := dialLive(t, srv, "")
	defer ws.Close()
	readEvent(t, ws)

	app.Close()

	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, _, err := ws.ReadMessage()
		if err == nil {
			continue
		}
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			t.Errorf("read error = %v, want a normal close frame", err)
		}
		break
	}
}

func TestLive_CheckOrigin(t *testing.T) {
	app := newTestApp(t, func(c *Config) {
		c.Security.AllowedOrigins = []string{"https://reader.example"}
	})

	tests := []struct {
		origin string
		host   string
		want   bool
	}{
		{"", "example.com", true},
		{"https://reader.example", "example.com", true},
		{"http://example.com", "example.com", true},
		{"https://evil.example", "example.com", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "http://"+tt.host+"/api/live", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := app.live.checkOrigin(r); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestDecodeTarget(t *testing.T) {
	tests := map[string]nav.State{
		"":                                nav.Home(),
		"view=archive":                    nav.Archive(),
		"?edition=2025-11":                nav.Cover("2025-11"),
		"/?edition=2025-11&view=contents": nav.Index("2025-11"),
		"/reader":                         nav.Home(),
	}
	for in, want := range tests {
		if got := decodeTarget(in); got != want {
			t.Errorf("decodeTarget(%q) = %v, want %v", in, got, want)
		}
	}
}
