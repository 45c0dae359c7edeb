package chrome

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

const fakeSessionID = "session-1"

var errNoReply = errors.New("no reply")

type fakeHandler func(params json.RawMessage) (interface{}, error)

type fakeCall struct {
	SessionID string
	Method    string
	Params    json.RawMessage
}

// fakeBrowser is a minimal DevTools endpoint: /json/version plus a
// websocket that answers commands from registered handlers.
type fakeBrowser struct {
	srv      *httptest.Server
	mu       sync.Mutex
	handlers map[string]fakeHandler
	calls    []fakeCall
	writeMu  sync.Mutex
	conn     *websocket.Conn
}

func newFakeBrowser(t *testing.T) *fakeBrowser {
	t.Helper()

	fb := &fakeBrowser{handlers: map[string]fakeHandler{
		"Target.attachToTarget": func(json.RawMessage) (interface{}, error) {
			return map[string]string{"sessionId": fakeSessionID}, nil
		},
	}}

	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/json/version", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"Browser":              "FakeChrome/1.0",
			"webSocketDebuggerUrl": fb.wsURL(),
		})
	})
	mux.HandleFunc("/devtools/browser/fake", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		fb.writeMu.Lock()
		fb.conn = conn
		fb.writeMu.Unlock()

		for {
			var req cdpRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			fb.serve(req)
		}
	})

	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBrowser) wsURL() string {
	return "ws" + strings.TrimPrefix(fb.srv.URL, "http") + "/devtools/browser/fake"
}

func (fb *fakeBrowser) handle(method string, h fakeHandler) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[method] = h
}

func (fb *fakeBrowser) reply(method string, result interface{}) {
	fb.handle(method, func(json.RawMessage) (interface{}, error) { return result, nil })
}

func (fb *fakeBrowser) serve(req cdpRequest) {
	fb.mu.Lock()
	fb.calls = append(fb.calls, fakeCall{SessionID: req.SessionID, Method: req.Method, Params: req.Params})
	h := fb.handlers[req.Method]
	fb.mu.Unlock()

	var result interface{} = map[string]interface{}{}
	var protoErr *ProtocolError
	if h != nil {
		r, err := h(req.Params)
		switch {
		case errors.Is(err, errNoReply):
			return
		case errors.As(err, &protoErr):
		case r != nil:
			result = r
		}
	}

	resp := map[string]interface{}{"id": req.ID}
	if req.SessionID != "" {
		resp["sessionId"] = req.SessionID
	}
	if protoErr != nil {
		resp["error"] = protoErr
	} else {
		resp["result"] = result
	}
	fb.write(resp)
}

func (fb *fakeBrowser) emit(sessionID, method string, params interface{}) {
	fb.write(map[string]interface{}{
		"sessionId": sessionID,
		"method":    method,
		"params":    params,
	})
}

func (fb *fakeBrowser) write(msg interface{}) {
	fb.writeMu.Lock()
	defer fb.writeMu.Unlock()
	if fb.conn != nil {
		fb.conn.WriteJSON(msg)
	}
}

// callsTo returns the recorded calls for method, in order.
func (fb *fakeBrowser) callsTo(method string) []fakeCall {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []fakeCall
	for _, c := range fb.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (fb *fakeBrowser) methods() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]string, 0, len(fb.calls))
	for _, c := range fb.calls {
		out = append(out, c.Method)
	}
	return out
}
