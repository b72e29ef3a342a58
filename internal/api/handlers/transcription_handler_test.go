package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelorn/orvoice/internal/models"
)

func transcriptionRouter(svc *fakeTranscriptionService) *gin.Engine {
	h := NewTranscriptionHandler(svc)
	r := gin.New()
	r.POST("/transcription/start", h.Start)
	r.GET("/transcription/sessions", h.List)
	r.GET("/transcription/:session_id", h.Get)
	r.POST("/transcription/:session_id/segment", h.AddSegment)
	r.POST("/transcription/:session_id/stop", h.Stop)
	return r
}

func TestStartTranscription(t *testing.T) {
	svc := &fakeTranscriptionService{session: activeSession("sess-1")}
	r := transcriptionRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcription/start?procedure_type=ep_ablation", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ep_ablation", svc.lastProcedureType)

	var resp StartTranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, models.SessionActive, resp.Status)
	assert.Equal(t, "2025-08-28T09:00:00Z", resp.StartTime)
}

func TestStartTranscription_DefaultProcedureType(t *testing.T) {
	svc := &fakeTranscriptionService{session: activeSession("sess-1")}
	r := transcriptionRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcription/start", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pad_angioplasty", svc.lastProcedureType)
}

func TestAddSegmentEndpoint(t *testing.T) {
	svc := &fakeTranscriptionService{
		segment: &models.TranscriptionSegment{Timestamp: "10:15:00", Text: "balloon inflated", Confidence: 0.91},
	}
	r := transcriptionRouter(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "segment.wav")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pcm"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcription/sess-1/segment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["segment_added"])
	assert.Equal(t, "balloon inflated", resp["transcript"])
	assert.Equal(t, "sess-1", resp["session_id"])
}

func TestAddSegmentEndpoint_UnknownSession(t *testing.T) {
	svc := &fakeTranscriptionService{err: errNotFoundForTest}
	r := transcriptionRouter(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "segment.wav")
	require.NoError(t, err)
	_, err = fw.Write([]byte("pcm"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcription/missing/segment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStopTranscription(t *testing.T) {
	session := activeSession("sess-1")
	session.Status = models.SessionCompleted
	session.Segments = []models.TranscriptionSegment{
		{Timestamp: "10:15:00", Text: "guidewire placed"},
		{Timestamp: "10:16:00", Text: "balloon inflated"},
	}
	session.FullTranscript = "guidewire placed balloon inflated"
	r := transcriptionRouter(&fakeTranscriptionService{session: session})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transcription/sess-1/stop", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.SessionCompleted, resp["status"])
	assert.Equal(t, float64(2), resp["total_segments"])
	assert.Equal(t, "guidewire placed balloon inflated", resp["full_transcript"])
}

func TestListSessions(t *testing.T) {
	r := transcriptionRouter(&fakeTranscriptionService{session: activeSession("sess-1")})

	var resp struct {
		Sessions []models.TranscriptionSession `json:"sessions"`
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transcription/sessions", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "sess-1", resp.Sessions[0].SessionID)
}

func TestGetSession(t *testing.T) {
	r := transcriptionRouter(&fakeTranscriptionService{session: activeSession("sess-1")})

	var resp models.TranscriptionSession
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/transcription/sess-1", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)

	r = transcriptionRouter(&fakeTranscriptionService{err: errNotFoundForTest})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/transcription/missing", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
