package broker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/decred/slog"
)

type registerRequest struct {
	Addr string `json:"addr"`
}

type registerResponse struct {
	Code string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the broker's HTTP API over reg.
func Handler(reg *Registry, log slog.Logger) http.Handler {
	if log == nil {
		log = slog.Disabled
	}
	s := &server{reg: reg, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /peers", s.register)
	mux.HandleFunc("GET /peers", s.list)
	mux.HandleFunc("GET /peers/{code}", s.resolve)
	mux.HandleFunc("DELETE /peers/{code}", s.unregister)
	return mux
}

type server struct {
	reg *Registry
	log slog.Logger
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request body"})
		return
	}
	code, err := s.reg.Register(req.Addr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	s.log.Infof("Registered %s -> %s", code, req.Addr)
	writeJSON(w, http.StatusCreated, registerResponse{Code: code})
}

func (s *server) resolve(w http.ResponseWriter, r *http.Request) {
	e, err := s.reg.Resolve(r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *server) unregister(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if err := s.reg.Unregister(code); err != nil {
		writeError(w, err)
		return
	}
	s.log.Infof("Unregistered %s", code)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.List())
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidRendezvousCode):
		status = http.StatusBadRequest
	case errors.Is(err, ErrUnknownCode):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
