package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/orvoice/internal/dataset"
	"github.com/avelorn/orvoice/internal/utils"
)

// Readiness reports which optional backends came up at startup.
type Readiness struct {
	LLM bool
	STT bool
	TTS bool
}

type DatasetHandler struct {
	ds    *dataset.Dataset
	ready Readiness
}

func NewDatasetHandler(ds *dataset.Dataset, ready Readiness) *DatasetHandler {
	return &DatasetHandler{ds: ds, ready: ready}
}

func (h *DatasetHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "OR Voice Assistant API", "status": "running"})
}

func (h *DatasetHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"llm_loaded":     h.ready.LLM,
		"stt_loaded":     h.ready.STT,
		"tts_loaded":     h.ready.TTS,
		"dataset_loaded": !h.ds.Empty(),
	})
}

func (h *DatasetHandler) Procedure(c *gin.Context) {
	procedureType := c.Param("procedure_type")
	proc, ok := h.ds.Procedure(procedureType)
	if !ok {
		writeError(c, utils.E(utils.CodeNotFound, "DatasetHandler.Procedure", "procedure not found", nil))
		return
	}
	c.JSON(http.StatusOK, proc)
}

func (h *DatasetHandler) Dataset(c *gin.Context) {
	if h.ds.Empty() {
		writeError(c, utils.E(utils.CodeUnavailable, "DatasetHandler.Dataset", "dataset not available", nil))
		return
	}
	c.JSON(http.StatusOK, h.ds)
}

func (h *DatasetHandler) Schedule(c *gin.Context) {
	if h.ds.Empty() {
		writeError(c, utils.E(utils.CodeUnavailable, "DatasetHandler.Schedule", "schedule data not available", nil))
		return
	}
	schedule := h.ds.ORSchedule
	if schedule == nil {
		schedule = map[string]any{}
	}
	c.JSON(http.StatusOK, schedule)
}
