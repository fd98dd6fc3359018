package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt-audio/internal/artifact"
	"github.com/ytget/yt-audio/internal/download"
	"github.com/ytget/yt-audio/internal/model"
)

// Client-facing messages
const (
	MsgNoURL          = "No URL provided"
	MsgInvalidURL     = "Invalid YouTube URL"
	MsgNoArtifacts    = "Failed to create MP3 file(s)"
	MsgDownloadFailed = "Download failed: "
	MsgRateLimited    = "Rate limit exceeded"
	MsgNotFound       = "Not found"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	InFlight int    `json:"in_flight"`
}

// handleDownload runs the pipeline and returns the packaged audio
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req model.ExtractionRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgNoURL)
		return
	}

	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = uuid.NewString()
	}

	resp, err := s.processor.Process(r.Context(), requestID, req)
	if err != nil {
		status, msg := s.classify(err)
		s.logger.Warn("download failed",
			zap.String("request_id", requestID),
			zap.String("stage", download.StageOf(err).String()),
			zap.Int("status", status),
			zap.Error(err))
		writeError(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(resp.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(resp.Size()))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Warn("failed to write response body",
			zap.String("request_id", requestID), zap.Error(err))
	}
}

// classify maps a pipeline error to a status code and client message
func (s *Server) classify(err error) (int, string) {
	switch {
	case errors.Is(err, download.ErrNoURL):
		return http.StatusBadRequest, MsgNoURL
	case errors.Is(err, artifact.ErrNoArtifacts):
		return http.StatusInternalServerError, MsgNoArtifacts
	case s.classifier.IsUnsupported(err):
		return http.StatusBadRequest, MsgInvalidURL
	default:
		return http.StatusInternalServerError, MsgDownloadFailed + err.Error()
	}
}

// handleIndex serves the static front-end document
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.opts.IndexFile == "" {
		writeError(w, http.StatusNotFound, MsgNotFound)
		return
	}
	http.ServeFile(w, r, s.opts.IndexFile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		InFlight: s.processor.InFlight(),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// contentDisposition builds an attachment header. Non-ASCII names get an
// ASCII fallback plus an RFC 5987 filename* parameter.
func contentDisposition(name string) string {
	fallback := asciiFallback(name)
	header := fmt.Sprintf("attachment; filename=\"%s\"", fallback)
	if fallback != name {
		header += "; filename*=UTF-8''" + url.PathEscape(name)
	}
	return header
}

func asciiFallback(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteRune('_')
		case r < 0x20 || r > 0x7e:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
