package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"ClearCut/internal/biz"
	"ClearCut/internal/model"
	clog "ClearCut/pkg/log"
	"ClearCut/pkg/validate"
)

// RequestBudget caps one removal request end to end. It matches the
// orchestrator's polling budget so the handler never outlives the job.
const RequestBudget = 20 * time.Second

// BackgroundRemover is the orchestrator surface the gateway needs.
type BackgroundRemover interface {
	Remove(ctx context.Context, image []byte, contentType string) (*model.ResultImage, error)
}

// RemovalService handles the image upload endpoint.
type RemovalService struct {
	remover BackgroundRemover
	audit   biz.AuditLogger
	logger  *clog.LogHelper
}

// NewRemovalService creates a new RemovalService instance.
func NewRemovalService(remover BackgroundRemover, audit biz.AuditLogger, logger log.Logger) *RemovalService {
	return &RemovalService{
		remover: remover,
		audit:   audit,
		logger:  clog.NewLogHelper(logger),
	}
}

// errorBody is the gateway's JSON error shape.
type errorBody struct {
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// RemoveBackground accepts one multipart image upload, runs the removal
// pipeline and streams the processed image back.
func (s *RemovalService) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
		s.recordAudit(r, "", 0, http.StatusMethodNotAllowed, model.OutcomeClientError, start)
		return
	}

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		s.writeError(w, r, http.StatusBadRequest, "Content-Type must be multipart/form-data")
		s.recordAudit(r, "", 0, http.StatusBadRequest, model.OutcomeClientError, start)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "No file provided")
		s.recordAudit(r, "", 0, http.StatusBadRequest, model.OutcomeClientError, start)
		return
	}
	defer file.Close()

	if !validate.IsAcceptedSize(header.Size) {
		s.logger.Gateway("Upload rejected: too large",
			"file_name", header.Filename,
			"file_size", validate.FormatBytes(header.Size, 2),
		)
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "File size exceeds the maximum limit of 5MB")
		s.recordAudit(r, header.Filename, header.Size, http.StatusRequestEntityTooLarge, model.OutcomeClientError, start)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !validate.IsAcceptedType(contentType) {
		s.logger.Gateway("Upload rejected: unsupported type",
			"file_name", header.Filename,
			"content_type", contentType,
		)
		s.writeError(w, r, http.StatusBadRequest, "Invalid file type. Only JPEG and PNG images are accepted")
		s.recordAudit(r, header.Filename, header.Size, http.StatusBadRequest, model.OutcomeClientError, start)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Failed to read uploaded file")
		s.recordAudit(r, header.Filename, header.Size, http.StatusBadRequest, model.OutcomeClientError, start)
		return
	}

	s.logger.Gateway("Processing upload",
		"file_name", header.Filename,
		"file_size", validate.FormatBytes(header.Size, 2),
		"content_type", contentType,
		"request_id", clog.GetRequestID(r.Context()),
	)

	ctx, cancel := context.WithTimeout(r.Context(), RequestBudget)
	defer cancel()

	result, err := s.remover.Remove(ctx, image, contentType)
	if err != nil {
		outcome := model.OutcomeProviderFailed
		if errors.Is(err, biz.ErrTimedOut) {
			outcome = model.OutcomeTimedOut
		}
		s.logger.WithContext(r.Context()).Errorw(
			"msg", "background removal failed",
			"file_name", header.Filename,
			"error", err.Error(),
			"type", "provider",
		)
		s.writeError(w, r, http.StatusInternalServerError, "Failed to process image with U²-Net model")
		s.recordAudit(r, header.Filename, header.Size, http.StatusInternalServerError, outcome, start)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bg-removed-"+header.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		s.logger.WithContext(r.Context()).Warnw(
			"msg", "failed to write response body",
			"error", err.Error(),
		)
	}

	s.recordAudit(r, header.Filename, header.Size, http.StatusOK, model.OutcomeSucceeded, start)
}

// Health reports liveness.
func (s *RemovalService) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *RemovalService) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: msg, StatusCode: status}); err != nil {
		s.logger.WithContext(r.Context()).Warnw(
			"msg", "failed to encode error response",
			"error", err.Error(),
		)
	}
}

func (s *RemovalService) recordAudit(r *http.Request, fileName string, fileSize int64, status int, outcome string, start time.Time) {
	clientID := clog.GetClientIP(r.Context())
	if clientID == "" {
		clientID = biz.AnonymousClientID
	}
	s.audit.Record(&model.RemovalAudit{
		ClientID:   clientID,
		FileName:   fileName,
		FileSize:   fileSize,
		StatusCode: status,
		Outcome:    outcome,
		DurationMs: time.Since(start).Milliseconds(),
	})
}
