package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recore3d/recored/internal/models"
)

// ErrUnsupportedRequest is returned for endpoints the facade does not serve.
var ErrUnsupportedRequest = errors.New("unsupported machine request")

type machineRequest struct {
	Value any `json:"value"`
}

type remoteMethodRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type stateResponse struct {
	RecoreState models.RecoreState `json:"recore_state"`
}

type sshCheckResponse struct {
	SSHCheck *models.SSHCheckResult `json:"ssh_check"`
}

// handleMachineRequest serves both mutating endpoints. The value from the
// request body is forwarded to the provider unchanged; provider failures
// propagate to the client.
func (s *Server) handleMachineRequest(w http.ResponseWriter, r *http.Request) {
	var req machineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Value == nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("missing parameter: value"))
		return
	}
	value := fmt.Sprintf("%v", req.Value)

	var err error
	switch chi.RouteContext(r.Context()).RoutePattern() {
	case "/recore/enable_ssh":
		err = s.recoreSvc.EnableSSH(r.Context(), value)
	case "/recore/set_boot_media":
		err = s.recoreSvc.SetBootMedia(r.Context(), value)
	default:
		s.writeError(w, http.StatusNotFound, ErrUnsupportedRequest)
		return
	}

	if err != nil {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("machine request failed")
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

// handleState composes the two shell queries into one response. The provider
// degrades failures to literal strings, so this handler always answers 200.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := s.recoreSvc.State(r.Context())
	s.writeJSON(w, http.StatusOK, stateResponse{RecoreState: state})
}

func (s *Server) handleSSHCheck(w http.ResponseWriter, r *http.Request) {
	result := s.sshCheckSvc.Probe(r.Context(), s.sshCheckCfg)
	s.writeJSON(w, http.StatusOK, sshCheckResponse{SSHCheck: result})
}

func (s *Server) handleRemoteMethod(w http.ResponseWriter, r *http.Request) {
	var req remoteMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := s.remote.Invoke(r.Context(), req.Method, req.Params); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownMethod) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"result": "ok"})
}

func (s *Server) handleUnsupported(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, ErrUnsupportedRequest)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
