package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/aatumaykin/curlloop/internal/loop"
)

//go:embed index.html
var indexHTML []byte

// maxBodyBytes bounds /start request bodies.
const maxBodyBytes = 1 << 20

// Response is the body of every start and stop reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// startRequest is the /start body. Minutes may be a JSON number or a
// numeric string.
type startRequest struct {
	Curl    string          `json:"curl"`
	Minutes json.RawMessage `json:"minutes"`
}

func (s *Server) routes(metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /start", s.handleStart)
	mux.HandleFunc("POST /stop", s.handleStop)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexHTML); err != nil {
		s.logWriteError(r, err)
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	command, minutes, err := parseStart(r)
	if err != nil {
		s.logger.Warn("rejected start request", logger.Field{Key: "error", Value: err.Error()})
		s.writeJSON(w, r, Response{Success: false, Message: loop.MsgInvalidInput})
		return
	}

	res, err := s.controller.Start(command, minutes)
	if err != nil {
		s.logger.Warn("start failed", logger.Field{Key: "error", Value: err.Error()})
		s.writeJSON(w, r, Response{Success: false, Message: loop.Message(err)})
		return
	}

	s.writeJSON(w, r, Response{Success: true, Message: res.Message})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	res, err := s.controller.Stop()
	if err != nil {
		s.writeJSON(w, r, Response{Success: false, Message: loop.Message(err)})
		return
	}
	s.writeJSON(w, r, Response{Success: true, Message: res.Message})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, s.controller.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintln(w, "ok"); err != nil {
		s.logWriteError(r, err)
	}
}

// parseStart reads curl and minutes from a JSON or form-encoded body.
// Validation of the values themselves is left to the scheduler.
func parseStart(r *http.Request) (string, float64, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return "", 0, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return "", 0, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return "", 0, fmt.Errorf("invalid form body: %w", err)
		}
		minutes, err := parseMinutes(values.Get("minutes"))
		if err != nil {
			return "", 0, err
		}
		return values.Get("curl"), minutes, nil
	}

	var req startRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", 0, fmt.Errorf("invalid JSON body: %w", err)
	}

	raw := strings.TrimSpace(string(req.Minutes))
	if raw == "" || raw == "null" {
		return "", 0, fmt.Errorf("minutes is missing")
	}

	var text string
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(req.Minutes, &text); err != nil {
			return "", 0, fmt.Errorf("invalid minutes: %w", err)
		}
	} else {
		text = raw
	}

	minutes, err := parseMinutes(text)
	if err != nil {
		return "", 0, err
	}
	return req.Curl, minutes, nil
}

func parseMinutes(s string) (float64, error) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes %q: %w", s, err)
	}
	return minutes, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logWriteError(r, err)
	}
}

// logWriteError records a response that could not be delivered, usually
// because the client went away.
func (s *Server) logWriteError(r *http.Request, err error) {
	s.logger.Debug("failed to write response",
		logger.Field{Key: "method", Value: r.Method},
		logger.Field{Key: "path", Value: r.URL.Path},
		logger.Field{Key: "error", Value: err.Error()})
}
