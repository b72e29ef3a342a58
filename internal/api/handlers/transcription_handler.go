package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/orvoice/internal/services"
	"github.com/avelorn/orvoice/internal/utils"
)

type TranscriptionHandler struct {
	svc services.TranscriptionService
}

func NewTranscriptionHandler(svc services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{svc: svc}
}

type StartTranscriptionResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	StartTime string `json:"start_time"`
	Message   string `json:"message"`
}

func (h *TranscriptionHandler) Start(c *gin.Context) {
	session, err := h.svc.Start(c.Request.Context(), procedureTypeParam(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, StartTranscriptionResponse{
		SessionID: session.SessionID,
		Status:    session.Status,
		StartTime: session.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		Message:   "Transcription session started successfully",
	})
}

// AddSegment transcribes one uploaded audio segment and appends it to the
// session transcript.
func (h *TranscriptionHandler) AddSegment(c *gin.Context) {
	sessionID := c.Param("session_id")

	audio, err := readAudioFile(c)
	if err != nil {
		writeError(c, err)
		return
	}

	seg, err := h.svc.AddSegment(c.Request.Context(), sessionID, audio, c.PostForm("timestamp"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":    sessionID,
		"segment_added": true,
		"transcript":    seg.Text,
		"timestamp":     seg.Timestamp,
	})
}

func (h *TranscriptionHandler) Stop(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.svc.Stop(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":      session.SessionID,
		"status":          session.Status,
		"total_segments":  len(session.Segments),
		"full_transcript": session.FullTranscript,
		"message":         "Transcription session stopped successfully",
	})
}

func (h *TranscriptionHandler) List(c *gin.Context) {
	sessions, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *TranscriptionHandler) Get(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TranscriptionHandler.Get", "session_id is required", nil))
		return
	}

	session, err := h.svc.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
