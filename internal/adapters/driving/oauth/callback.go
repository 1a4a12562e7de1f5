// Package oauth provides the loopback server that receives the OAuth
// redirect during `notesearch auth login`.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// ErrStateMismatch is returned when the callback state differs from the one
// sent with the authorisation request.
var ErrStateMismatch = errors.New("oauth state mismatch")

// CallbackServer handles OAuth redirect callbacks.
// It starts a local HTTP server to receive the authorisation code.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server for port. The expectedState is
// compared with the state on the redirect.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start listens on 127.0.0.1. If port is 0, a free port is chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", s.handleCallback)

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(s.port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.fail(err)
		}
	}()

	return nil
}

func (s *CallbackServer) fail(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := q.Get("error"); errParam != "" {
		s.fail(fmt.Errorf("oauth error: %s - %s", errParam, q.Get("error_description")))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Sign-in failed", q.Get("error_description")))
		return
	}

	if q.Get("state") != s.expectedState {
		s.fail(ErrStateMismatch)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Sign-in failed", "Invalid state parameter."))
		return
	}

	code := q.Get("code")
	if code == "" {
		s.fail(errors.New("no authorisation code received"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Sign-in failed", "No authorisation code received."))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}

	_, _ = fmt.Fprint(w, resultPage("Signed in to notesearch", "You can close this window and return to the terminal."))
}

// WaitForCode blocks until the authorisation code arrives, the callback
// reports an error, or ctx is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorisation callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server. Stopping twice is harmless.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.Port())
}

func resultPage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>notesearch</title>
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; display: flex;
               justify-content: center; align-items: center; height: 100vh; margin: 0; background: #F7F7F8; }
        .card { text-align: center; background: #FFFFFF; padding: 40px 56px; border-radius: 12px;
                border: 1px solid #D4D4D8; }
        h1 { color: #18181B; margin: 0 0 8px 0; font-size: 22px; }
        p { color: #71717A; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}
