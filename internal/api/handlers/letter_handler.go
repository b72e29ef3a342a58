package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/orvoice/internal/services"
	"github.com/avelorn/orvoice/internal/utils"
)

type LetterHandler struct {
	svc services.LetterService
}

func NewLetterHandler(svc services.LetterService) *LetterHandler {
	return &LetterHandler{svc: svc}
}

type GenerateLetterRequest struct {
	SessionID       string `json:"session_id" binding:"required"`
	AdditionalNotes string `json:"additional_notes"`
}

func (h *LetterHandler) Generate(c *gin.Context) {
	var req GenerateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "LetterHandler.Generate", "invalid request body", err))
		return
	}

	letter, err := h.svc.Generate(c.Request.Context(), req.SessionID, req.AdditionalNotes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"letter_id":  letter.LetterID,
		"session_id": letter.SessionID,
		"content":    letter.Content,
		"created_at": letter.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"message":    "Doctor's letter generated successfully",
	})
}

func (h *LetterHandler) List(c *gin.Context) {
	letters, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"letters": letters})
}

func (h *LetterHandler) Get(c *gin.Context) {
	letter, err := h.svc.Get(c.Request.Context(), c.Param("letter_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, letter)
}
