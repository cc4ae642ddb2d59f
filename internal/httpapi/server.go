package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/lumavid/captionpipe/internal/service"
	"github.com/lumavid/captionpipe/internal/transcribe"
)

// Server exposes the remote generation endpoint, the diagnostic report and
// static serving of generated cue files.
type Server struct {
	transcriber transcribe.Transcriber
	auditor     *service.Auditor
	opts        transcribe.Options
	captionsDir string

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

// WithTranscribeOptions overrides the model/language defaults used by the
// transcription endpoint.
func WithTranscribeOptions(opts transcribe.Options) Option {
	return func(s *Server) {
		s.opts = opts
	}
}

func NewServer(transcriber transcribe.Transcriber, auditor *service.Auditor, captionsDir string, opts ...Option) *Server {
	s := &Server{
		transcriber: transcriber,
		auditor:     auditor,
		captionsDir: captionsDir,
		mux:         http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/transcriptions", s.handleTranscriptions)
	s.mux.HandleFunc("/api/captions/report", s.handleReport)
	s.mux.Handle("/captions/", http.StripPrefix("/captions/", http.FileServer(http.Dir(s.captionsDir))))
}
