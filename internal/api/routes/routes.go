package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/avelorn/orvoice/internal/api/handlers"
	"github.com/avelorn/orvoice/internal/api/middleware"
)

type Deps struct {
	Logger *logrus.Logger

	Dataset       *handlers.DatasetHandler
	Voice         *handlers.VoiceHandler
	Media         *handlers.MediaHandler
	Transcription *handlers.TranscriptionHandler
	Letter        *handlers.LetterHandler
	WS            *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// the front-end runs on its own origin inside the OR network
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: false,
	}))
	if d.Logger != nil {
		r.Use(middleware.RequestLogger(d.Logger))
	}

	r.GET("/", d.Dataset.Root)
	r.GET("/health", d.Dataset.Health)

	// voice pipeline
	r.POST("/ask", d.Voice.Ask)
	r.POST("/transcribe", d.Voice.Transcribe)
	r.GET("/audio/:audio_id", d.Voice.Audio)

	// dataset slices
	r.GET("/procedures/:procedure_type", d.Dataset.Procedure)
	r.GET("/dataset", d.Dataset.Dataset)
	r.GET("/schedule", d.Dataset.Schedule)

	// 3D / imaging media
	r.GET("/vtk", d.Media.ListVTK)
	r.GET("/vtk/:filename", d.Media.VTKFile)
	r.GET("/dicom", d.Media.ListDICOMSeries)
	r.GET("/dicom/series/:series_id", d.Media.DICOMSeries)
	r.GET("/dicom/file/:filename", d.Media.DICOMFile)

	// transcription sessions
	r.POST("/transcription/start", d.Transcription.Start)
	r.GET("/transcription/sessions", d.Transcription.List)
	r.GET("/transcription/:session_id", d.Transcription.Get)
	r.POST("/transcription/:session_id/segment", d.Transcription.AddSegment)
	r.POST("/transcription/:session_id/stop", d.Transcription.Stop)

	// doctor letters
	r.POST("/letters/generate", d.Letter.Generate)
	r.GET("/letters", d.Letter.List)
	r.GET("/letters/:letter_id", d.Letter.Get)

	// live transcription
	if d.WS != nil {
		r.GET("/ws/transcription/:session_id", d.WS.SessionWS)
	}
}
