package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/orvoice/internal/dataset"
	"github.com/avelorn/orvoice/internal/services"
	"github.com/avelorn/orvoice/internal/utils"
)

// maxAudioBytes bounds uploaded audio segments.
const maxAudioBytes = 10 << 20

type VoiceHandler struct {
	svc services.VoiceService
}

func NewVoiceHandler(svc services.VoiceService) *VoiceHandler {
	return &VoiceHandler{svc: svc}
}

type AskRequest struct {
	Transcript    string `json:"transcript"`
	ProcedureType string `json:"procedure_type" binding:"required"`
}

// Ask processes a voice command end to end and returns the response
// envelope. Pipeline degradation (LLM, TTS) never surfaces as a failure.
func (h *VoiceHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "VoiceHandler.Ask", "invalid request body", err))
		return
	}

	resp, err := h.svc.Ask(c.Request.Context(), req.Transcript, req.ProcedureType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transcribe accepts a multipart audio file and returns its transcript.
func (h *VoiceHandler) Transcribe(c *gin.Context) {
	audio, err := readAudioFile(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Transcribe(c.Request.Context(), audio))
}

// Audio serves cached synthesized speech by id.
func (h *VoiceHandler) Audio(c *gin.Context) {
	audioID := c.Param("audio_id")
	b, hit, err := h.svc.AudioBytes(c.Request.Context(), audioID)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "VoiceHandler.Audio", "failed to read audio", err))
		return
	}
	if !hit {
		writeError(c, utils.E(utils.CodeNotFound, "VoiceHandler.Audio", "audio not found", nil))
		return
	}
	c.Header("Content-Disposition", "inline; filename="+audioID+".mp3")
	c.Data(http.StatusOK, "audio/mpeg", b)
}

func readAudioFile(c *gin.Context) ([]byte, error) {
	const op = "readAudioFile"

	fh, err := c.FormFile("audio")
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio file is required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "failed to open audio file", err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, maxAudioBytes))
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "failed to read audio file", err)
	}
	if len(b) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio file is empty", nil)
	}
	return b, nil
}

func procedureTypeParam(c *gin.Context) string {
	if v := c.Query("procedure_type"); v != "" {
		return v
	}
	if v := c.PostForm("procedure_type"); v != "" {
		return v
	}
	return dataset.ProcedurePAD
}
