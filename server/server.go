package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/daystram/hybridchess/board"
	"github.com/daystram/hybridchess/position"
	"github.com/daystram/hybridchess/session"
)

const (
	DefaultAddr = ":8080"

	maxJSONBodyBytes int64 = 1 << 16
	shutdownTimeout        = 5 * time.Second
)

type stateResponse struct {
	Cells    []int      `json:"cells"`
	Layout   string     `json:"layout"`
	Turn     string     `json:"turn"`
	State    string     `json:"state"`
	Winner   string     `json:"winner,omitempty"`
	Check    bool       `json:"check"`
	Status   string     `json:"status"`
	CanStart bool       `json:"can_start"`
	Selected string     `json:"selected,omitempty"`
	Safe     []string   `json:"safe"`
	Unsafe   []string   `json:"unsafe"`
	LastMove *moveDTO   `json:"last_move,omitempty"`
	WhiteAI  bool       `json:"white_ai"`
	BlackAI  bool       `json:"black_ai"`
	Plies    int        `json:"plies"`
	Pieces   []pieceDTO `json:"pieces"`
}

type pieceDTO struct {
	Square string   `json:"square"`
	Side   string   `json:"side"`
	Types  []string `json:"types"`
	Hybrid bool     `json:"hybrid"`
}

type moveDTO struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Algebra string `json:"algebra"`
}

type newGameRequest struct {
	WhiteAI bool `json:"white_ai"`
	BlackAI bool `json:"black_ai"`
}

type selectRequest struct {
	Square string `json:"square"`
}

func (r selectRequest) pos() (position.Pos, error) {
	return position.NewPosFromNotation(r.Square)
}

// Server exposes one session over HTTP and pushes its snapshots to WebSocket
// clients.
type Server struct {
	session *session.Session
	hub     *Hub
	logger  func(...any)
}

// New builds a Server around a new session driven by chooser. The session's
// renderer is owned by the server.
func New(chooser session.Chooser, logger func(...any), opts ...session.SessionOption) (*Server, error) {
	if logger == nil {
		logger = func(...any) {}
	}
	s := &Server{
		hub:    NewHub(),
		logger: logger,
	}
	opts = append(opts, session.WithLogger(logger), session.WithRenderer(s.publish))
	sess, err := session.New(chooser, opts...)
	if err != nil {
		return nil, err
	}
	s.session = sess
	return s, nil
}

// Listen serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go s.hub.Run(ctx.Done())

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	s.logger(fmt.Sprintf("listening on %s", addr))

	select {
	case <-ctx.Done():
	case err, ok := <-serverErrCh:
		if ok {
			return err
		}
	}

	s.session.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.state())
	})
	r.Post("/api/new", s.handleNew)
	r.Post("/api/select", s.handleSelect)
	r.Post("/api/deselect", func(w http.ResponseWriter, r *http.Request) {
		s.session.DeselectOutside()
		writeJSON(w, http.StatusOK, s.state())
	})
	r.Get("/ws", s.serveWS)
	return r
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var payload newGameRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if s.session.State() == session.StateAwaitingAIMove {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "ai move pending"})
		return
	}
	s.session.NewGame(payload.WhiteAI, payload.BlackAI)
	writeJSON(w, http.StatusOK, s.state())
}

// handleSelect forwards a click. Clicks the session ignores still answer with
// the unchanged state.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var payload selectRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	pos, err := payload.pos()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.session.Select(pos)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) publish(snap session.Snapshot) {
	s.hub.Publish(stateFromSnapshot(snap))
}

func (s *Server) state() stateResponse {
	return stateFromSnapshot(s.session.Snapshot())
}

func stateFromSnapshot(snap session.Snapshot) stateResponse {
	resp := stateResponse{
		Cells:    make([]int, len(snap.Cells)),
		Layout:   snap.Board.Layout(snap.Turn),
		Turn:     snap.Turn.String(),
		State:    snap.State.String(),
		Winner:   snap.Winner.String(),
		Check:    snap.Check,
		Status:   snap.Status,
		CanStart: snap.CanStart,
		Selected: snap.Selected.Notation(),
		Safe:     notations(snap.Safe),
		Unsafe:   notations(snap.Unsafe),
		WhiteAI:  snap.WhiteAI,
		BlackAI:  snap.BlackAI,
		Plies:    snap.Plies,
		Pieces:   []pieceDTO{},
	}
	for i, p := range snap.Cells {
		resp.Cells[i] = int(p)
	}
	for _, side := range board.Sides {
		for _, pa := range snap.Board.Pieces(side) {
			dto := pieceDTO{
				Square: pa.Pos.Notation(),
				Side:   side.String(),
				Hybrid: pa.Piece.IsHybrid(),
			}
			pa.Piece.Each(func(t board.Piece) {
				dto.Types = append(dto.Types, t.Name())
			})
			resp.Pieces = append(resp.Pieces, dto)
		}
	}
	if snap.HasLast {
		resp.LastMove = &moveDTO{
			From:    snap.LastMove.From.Notation(),
			To:      snap.LastMove.To.Notation(),
			Algebra: snap.LastMove.Algebra(),
		}
	}
	return resp
}

func notations(ps []position.Pos) []string {
	ns := make([]string, 0, len(ps))
	for _, pos := range ps {
		ns = append(ns, pos.Notation())
	}
	return ns
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
