package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ClearCut/internal/biz"
	"ClearCut/internal/model"
)

// MockRemover is a mock implementation of BackgroundRemover for testing.
type MockRemover struct {
	mock.Mock
}

func (m *MockRemover) Remove(ctx context.Context, image []byte, contentType string) (*model.ResultImage, error) {
	args := m.Called(ctx, image, contentType)
	if img := args.Get(0); img != nil {
		return img.(*model.ResultImage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAudit is a mock implementation of biz.AuditLogger for testing.
type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Record(entry *model.RemovalAudit) {
	m.Called(entry)
}

func (m *MockAudit) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(remover *MockRemover) (*RemovalService, *MockAudit) {
	audit := new(MockAudit)
	audit.On("Record", mock.Anything).Maybe()
	svc := NewRemovalService(remover, audit, log.NewStdLogger(os.Stdout))
	return svc, audit
}

// multipartBody builds a multipart request body with one file part.
func multipartBody(t *testing.T, fieldName, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRemoveBackground_Success(t *testing.T) {
	remover := new(MockRemover)
	svc, _ := newTestService(remover)

	image := []byte("png-bytes")
	remover.On("Remove", mock.Anything, image, "image/png").
		Return(&model.ResultImage{Data: []byte("processed"), ContentType: "image/png"}, nil)

	body, contentType := multipartBody(t, "file", "cat.png", "image/png", image)
	req := httptest.NewRequest(http.MethodPost, "/api/remove-bg", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="bg-removed-cat.png"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte("processed"), rec.Body.Bytes())
	remover.AssertExpectations(t)
}

func TestRemoveBackground_MethodNotAllowed(t *testing.T) {
	remover := new(MockRemover)
	svc, _ := newTestService(remover)

	req := httptest.NewRequest(http.MethodGet, "/api/remove-bg", nil)
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Method not allowed", body.Error)
	assert.Equal(t, http.StatusMethodNotAllowed, body.StatusCode)
	remover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveBackground_NotMultipart(t *testing.T) {
	remover := new(MockRemover)
	svc, _ := newTestService(remover)

	req := httptest.NewRequest(http.MethodPost, "/api/remove-bg", bytes.NewBufferString(`{"x":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content-Type must be multipart/form-data", decodeError(t, rec).Error)
	remover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveBackground_NoFile(t *testing.T) {
	remover := new(MockRemover)
	svc, _ := newTestService(remover)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/remove-bg", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", decodeError(t, rec).Error)
	remover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveBackground_TooLarge(t *testing.T) {
	remover := new(MockRemover)
	svc, _ := newTestService(remover)

	oversized := bytes.Repeat([]byte("a"), 5*1024*1024+1)
	body, contentType := multipartBody(t, "file", "huge.png", "image/png", oversized)
	req := httptest.NewRequest(http.MethodPost, "/api/remove-bg", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File size exceeds the maximum limit of 5MB", decodeError(t, rec).Error)
	remover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveBackground_UnsupportedType(t *testing.T) {
	remover := new(MockRemover)
	svc, _ := newTestService(remover)

	body, contentType := multipartBody(t, "file", "anim.gif", "image/gif", []byte("gif"))
	req := httptest.NewRequest(http.MethodPost, "/api/remove-bg", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type. Only JPEG and PNG images are accepted", decodeError(t, rec).Error)
	remover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveBackground_OrchestratorFailure(t *testing.T) {
	remover := new(MockRemover)
	svc, _ := newTestService(remover)

	remover.On("Remove", mock.Anything, mock.Anything, "image/jpeg").
		Return(nil, errors.New("submit prediction: 422 unprocessable"))

	body, contentType := multipartBody(t, "file", "dog.jpg", "image/jpeg", []byte("jpg"))
	req := httptest.NewRequest(http.MethodPost, "/api/remove-bg", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body2 := decodeError(t, rec)
	assert.Equal(t, "Failed to process image with U²-Net model", body2.Error)
	// Provider detail is never echoed to the client.
	assert.NotContains(t, rec.Body.String(), "unprocessable")
}

func TestRemoveBackground_TimeoutAudited(t *testing.T) {
	remover := new(MockRemover)
	audit := new(MockAudit)
	svc := NewRemovalService(remover, audit, log.NewStdLogger(os.Stdout))

	remover.On("Remove", mock.Anything, mock.Anything, "image/png").
		Return(nil, biz.ErrTimedOut)
	audit.On("Record", mock.MatchedBy(func(e *model.RemovalAudit) bool {
		return e.Outcome == model.OutcomeTimedOut && e.StatusCode == http.StatusInternalServerError
	})).Once()

	body, contentType := multipartBody(t, "file", "slow.png", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/api/remove-bg", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	svc.RemoveBackground(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	audit.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	svc, _ := newTestService(new(MockRemover))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	svc.Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
