package control

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/bnema/geobadge/internal/logging"
	"github.com/gorilla/mux"
)

const (
	maxBodySize     = 4 * 1024
	shutdownTimeout = 5 * time.Second
)

// ErrUnknownMessage is returned by a Backend for messages it does not handle.
var ErrUnknownMessage = errors.New("unknown message")

// Server is the localhost control API.
type Server struct {
	addr    string
	backend Backend
	hub     *Hub
	router  *mux.Router
}

func NewServer(addr string, backend Backend, hub *Hub) *Server {
	if addr == "" {
		addr = DefaultListenAddr
	}
	s := &Server{addr: addr, backend: backend, hub: hub}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/location", s.getLocation).Methods(http.MethodGet)
	api.HandleFunc("/badge", s.getBadge).Methods(http.MethodGet)
	api.HandleFunc("/state", s.getState).Methods(http.MethodGet)
	api.HandleFunc("/messages", s.postMessage).Methods(http.MethodPost)
	api.HandleFunc("/triggers/{name}", s.postTrigger).Methods(http.MethodPost)

	if s.hub != nil {
		r.Handle("/ws", s.hub).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Handler returns the router wrapped with request logging.
func (s *Server) Handler(ctx context.Context) http.Handler {
	base := *logging.FromContext(logging.WithComponent(ctx, "control"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(logging.WithContext(r.Context(), base))

		defer logging.Recover(r.Context(), "control "+r.URL.Path)
		s.router.ServeHTTP(rec, r)

		base.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("control request")
	})
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("control server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if s.hub != nil {
		s.hub.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown control server: %w", err)
	}
	log.Debug().Msg("control server stopped")
	return nil
}

func (s *Server) getLocation(w http.ResponseWriter, r *http.Request) {
	st, ok := s.status(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Location)
}

func (s *Server) getBadge(w http.ResponseWriter, r *http.Request) {
	st, ok := s.status(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st.Badge)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.status(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// postMessage runs the message to completion and answers with the resulting status.
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	// the refresh outlives a client that hangs up
	ctx := context.WithoutCancel(r.Context())
	if err := s.backend.HandleMessage(ctx, req.Message); err != nil {
		if errors.Is(err, ErrUnknownMessage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logging.FromContext(ctx).Warn().Err(err).Str("message", req.Message).Msg("message failed")
	}

	st, ok := s.status(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) postTrigger(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	trigger, ok := entity.ParseTrigger(name)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown trigger %q", name))
		return
	}

	ctx := context.WithoutCancel(r.Context())
	if err := s.backend.HandleTrigger(ctx, trigger); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("trigger", string(trigger)).Msg("trigger failed")
	}

	st, ok := s.status(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) (Status, bool) {
	st, err := s.backend.Status(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("failed to build status")
		writeError(w, http.StatusInternalServerError, err.Error())
		return Status{}, false
	}
	return st, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
