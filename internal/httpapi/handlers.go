package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lumavid/captionpipe/internal/caperr"
	"github.com/lumavid/captionpipe/internal/cue"
	"github.com/lumavid/captionpipe/pkg/log"
)

// maxAudioPayload caps uploaded recordings at 64 MiB.
const maxAudioPayload = 64 << 20

func (s *Server) handleTranscriptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	audioPath, err := s.saveUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read audio payload", err.Error())
		return
	}
	defer os.Remove(audioPath)

	segments, err := s.transcriber.Transcribe(r.Context(), audioPath, s.opts)
	if err != nil {
		status, details := transcriptionFailure(err)
		writeError(w, status, "transcription failed", details)
		return
	}

	name := fmt.Sprintf("rec_%d%s", time.Now().UnixMilli(), cue.Extension)
	cuePath := filepath.Join(s.captionsDir, name)
	if err := cue.WriteFile(cuePath, segments); err != nil {
		writeError(w, http.StatusInternalServerError, "could not persist cue file", err.Error())
		return
	}

	log.Info("transcribed upload to %s (%d cues)", cuePath, len(segments))
	writeJSON(w, http.StatusOK, map[string]any{
		"vtt_url":  "/captions/" + name,
		"language": cue.DetectLanguage(segments),
		"cues":     len(segments),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	diagnostics, err := s.auditor.Diagnose(r.Context(), r.URL.Query().Get("video_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not build diagnostic report", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, diagnostics)
}

// saveUpload spools the request body into a temp file named after the
// payload's media type, so the transcription engines see a usable extension.
func (s *Server) saveUpload(r *http.Request) (string, error) {
	ext := ".webm"
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mediaType {
		case "audio/webm", "video/webm":
			ext = ".webm"
		case "audio/wav", "audio/x-wav":
			ext = ".wav"
		case "audio/mpeg", "audio/mp3":
			ext = ".mp3"
		case "audio/ogg":
			ext = ".ogg"
		case "audio/mp4", "audio/m4a":
			ext = ".m4a"
		}
	}

	tmp, err := os.CreateTemp("", "captionpipe-upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	written, err := io.Copy(tmp, io.LimitReader(r.Body, maxAudioPayload))
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if written == 0 {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("request body is empty")
	}
	return tmp.Name(), nil
}

func transcriptionFailure(err error) (int, string) {
	details := err.Error()
	var capErr *caperr.CaptionError
	if errors.As(err, &capErr) {
		details = caperr.NewDefaultErrorHandler().GetAdvice(capErr)
		switch capErr.Type {
		case caperr.ErrEmptyTranscription:
			return http.StatusUnprocessableEntity, details
		case caperr.ErrService, caperr.ErrExternalTool:
			return http.StatusBadGateway, details
		case caperr.ErrNotFound, caperr.ErrValidation:
			return http.StatusBadRequest, details
		}
	}
	return http.StatusInternalServerError, details
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	body := map[string]any{
		"error": msg,
	}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
