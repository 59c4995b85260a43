package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	rankinglifecycle "nominator/contexts/beatmap-moderation/ranking-lifecycle"
	domainerrors "nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/errors"
	rankinghttp "nominator/contexts/beatmap-moderation/ranking-lifecycle/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "nominator/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	ranking rankinglifecycle.Module
}

func New(ranking rankinglifecycle.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		ranking: ranking,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Mux exposes the routing table for tests.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/beatmapsets/{set_id}/votes", s.handleVote)
	s.mux.HandleFunc("POST /v1/beatmapsets/{set_id}/love", s.handleLove)
	s.mux.HandleFunc("POST /v1/beatmapsets/{set_id}/rank", s.handleRank)
	s.mux.HandleFunc("POST /v1/beatmapsets/{set_id}/cancel", s.handleCancel)
	s.mux.HandleFunc("GET /v1/beatmaps/{md5}/status", s.handleBeatmapStatus)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	userID, setID, ok := s.actionParams(w, r)
	if !ok {
		return
	}
	resp, err := s.ranking.Handler.VoteHandler(r.Context(), userID, setID)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLove(w http.ResponseWriter, r *http.Request) {
	userID, setID, ok := s.actionParams(w, r)
	if !ok {
		return
	}
	resp, err := s.ranking.Handler.LoveHandler(r.Context(), userID, setID)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	userID, setID, ok := s.actionParams(w, r)
	if !ok {
		return
	}
	resp, err := s.ranking.Handler.RankHandler(r.Context(), userID, setID)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	userID, setID, ok := s.actionParams(w, r)
	if !ok {
		return
	}
	resp, err := s.ranking.Handler.CancelHandler(r.Context(), userID, setID)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBeatmapStatus(w http.ResponseWriter, r *http.Request) {
	md5 := strings.TrimSpace(r.PathValue("md5"))
	if md5 == "" {
		writeRankingError(w, http.StatusBadRequest, "invalid_md5", "md5 path parameter is required")
		return
	}
	resp, err := s.ranking.Handler.BeatmapStatusHandler(r.Context(), md5)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) actionParams(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	rawUser := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if rawUser == "" {
		writeRankingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return 0, 0, false
	}
	userID, err := strconv.ParseInt(rawUser, 10, 64)
	if err != nil || userID <= 0 {
		writeRankingError(w, http.StatusBadRequest, "invalid_user", "X-User-Id must be a positive integer")
		return 0, 0, false
	}
	setID, err := strconv.ParseInt(r.PathValue("set_id"), 10, 64)
	if err != nil || setID <= 0 {
		writeRankingError(w, http.StatusBadRequest, "invalid_set_id", "set_id must be a positive integer")
		return 0, 0, false
	}
	return userID, setID, true
}

func writeRankingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrSetNotFound):
		writeRankingError(w, http.StatusNotFound, "set_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrBeatmapNotFound):
		writeRankingError(w, http.StatusNotFound, "beatmap_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		writeRankingError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domainerrors.ErrUnauthorized):
		writeRankingError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidInput):
		writeRankingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrStoreUnavailable):
		writeRankingError(w, http.StatusServiceUnavailable, "store_unavailable", err.Error())
	default:
		writeRankingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRankingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, rankinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
