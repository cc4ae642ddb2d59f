package caperr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lumavid/captionpipe/pkg/log"
)

type ErrorType int

const (
	ErrNotFound ErrorType = iota
	ErrExternalTool
	ErrService
	ErrEmptyTranscription
	ErrValidation
	ErrFileRead
	ErrFileWrite
	ErrDeleteFailed
	ErrConfig
	ErrUnknown
)

type CaptionError struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func New(errorType ErrorType, message string) *CaptionError {
	return &CaptionError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewWithCause(errorType ErrorType, message string, cause error) *CaptionError {
	return &CaptionError{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *CaptionError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *CaptionError) Unwrap() error {
	return e.Cause
}

func (e *CaptionError) WithContext(key string, value any) *CaptionError {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrNotFound:
		return "NotFound"
	case ErrExternalTool:
		return "ExternalTool"
	case ErrService:
		return "Service"
	case ErrEmptyTranscription:
		return "EmptyTranscription"
	case ErrValidation:
		return "Validation"
	case ErrFileRead:
		return "FileRead"
	case ErrFileWrite:
		return "FileWrite"
	case ErrDeleteFailed:
		return "DeleteFailed"
	case ErrConfig:
		return "Config"
	case ErrUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

type ErrorHandler interface {
	Handle(err error) bool
	GetAdvice(err *CaptionError) string
}

type DefaultErrorHandler struct{}

func NewDefaultErrorHandler() ErrorHandler {
	return &DefaultErrorHandler{}
}

func (h *DefaultErrorHandler) Handle(err error) bool {
	capErr, ok := err.(*CaptionError)
	if !ok {
		log.Error("Unknown Error: %v", err)
		return false
	}

	advice := h.GetAdvice(capErr)
	log.Error("Error Detail: %v\n advice: %s", err, advice)

	return true
}

// GetAdvice returns error handling advice
func (h *DefaultErrorHandler) GetAdvice(err *CaptionError) string {
	switch err.Type {
	case ErrNotFound:
		return "Please check that the input path is correct and the video file exists with read permissions"
	case ErrExternalTool:
		return "A required external tool is missing or failed. Install ffmpeg (https://ffmpeg.org/download.html) for audio extraction and whisper (pip install openai-whisper) for local transcription, and ensure both are on PATH"
	case ErrService:
		return "The remote transcription service rejected the request. Check the API key, the endpoint URL and the service status"
	case ErrEmptyTranscription:
		return "The engine returned no speech segments. Verify the source video actually contains an audio track with speech"
	case ErrValidation:
		return "Please verify input parameters are correct. Video ids, language codes and paths cannot be empty"
	case ErrFileRead:
		return "Please check file permissions to ensure read access and verify the file is not corrupted"
	case ErrFileWrite:
		return "Please ensure the output directory exists and has write permissions"
	case ErrDeleteFailed:
		return "A temp artifact could not be removed. Check directory permissions and re-run the cleanup command"
	case ErrConfig:
		return "Please check that configuration files or environment variables are set correctly"
	default:
		return "Please review detailed error information and check relevant configuration and files"
	}
}

func IsType(err error, errorType ErrorType) bool {
	var capErr *CaptionError
	if errors.As(err, &capErr) {
		return capErr.Type == errorType
	}
	return false
}

func Wrap(err error, errorType ErrorType, message string) *CaptionError {
	return NewWithCause(errorType, message, err)
}
