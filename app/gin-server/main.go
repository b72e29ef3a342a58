package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/avelorn/orvoice/config"
	"github.com/avelorn/orvoice/internal/api/handlers"
	"github.com/avelorn/orvoice/internal/api/routes"
	"github.com/avelorn/orvoice/internal/cache"
	"github.com/avelorn/orvoice/internal/dataset"
	"github.com/avelorn/orvoice/internal/logger"
	"github.com/avelorn/orvoice/internal/providers/llm"
	"github.com/avelorn/orvoice/internal/providers/stt"
	"github.com/avelorn/orvoice/internal/providers/tts"
	mongorepo "github.com/avelorn/orvoice/internal/repositories/mongo"
	pgrepo "github.com/avelorn/orvoice/internal/repositories/postgres"
	"github.com/avelorn/orvoice/internal/services"
	"github.com/avelorn/orvoice/internal/storage"
	"github.com/avelorn/orvoice/internal/workers"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	ctx := context.Background()

	// Static patient dataset; the service still answers without it, every
	// data lookup just degrades to the unavailability message.
	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		datasetPath = "data/mock_data.json"
	}
	ds, err := dataset.Load(datasetPath)
	if err != nil {
		log.WithError(err).Warn("failed to load patient dataset")
		ds = dataset.New(nil)
	}

	// Cloud providers are optional: each failure degrades one capability.
	var llmProvider llm.Provider
	if project := os.Getenv("VERTEX_PROJECT_ID"); project != "" {
		location := os.Getenv("VERTEX_LOCATION")
		if location == "" {
			location = "us-central1"
		}
		v, err := llm.NewVertexGemini(ctx, project, location, os.Getenv("VERTEX_MODEL"))
		if err != nil {
			log.WithError(err).Warn("vertex init failed, using rule-based responses only")
		} else {
			llmProvider = v
			defer v.Close()
		}
	} else {
		log.Warn("VERTEX_PROJECT_ID not set, using rule-based responses only")
	}

	var sttProvider stt.Provider
	if g, err := stt.NewGoogleSpeech(ctx); err != nil {
		log.WithError(err).Warn("speech-to-text init failed, transcription disabled")
	} else {
		sttProvider = g
		defer g.Close()
	}

	var ttsProvider tts.Provider
	if g, err := tts.NewGoogleTTS(ctx); err != nil {
		log.WithError(err).Warn("text-to-speech init failed, responses will have no audio")
	} else {
		ttsProvider = g
		defer g.Close()
	}

	var uploader storage.Uploader
	if bucket := os.Getenv("AUDIO_BUCKET"); bucket != "" {
		u, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.WithError(err).Warn("gcs init failed, audio served from cache")
		} else {
			uploader = u
			defer u.Close()
		}
	}

	// Datastores are hard dependencies.
	mongoClient, err := config.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := config.MongoDatabase(mongoClient)
	if err := config.EnsureMongoIndexes(mongoDB); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}

	pg, err := config.ConnectPostgres()
	if err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}

	rdb, err := config.ConnectRedis()
	if err != nil {
		log.WithError(err).Fatal("Redis init error")
	}

	// Repositories and services.
	sessionRepo := mongorepo.NewSessionRepo(mongoDB)
	letterRepo := mongorepo.NewLetterRepo(mongoDB)
	interactionRepo := pgrepo.NewInteractionRepo(pg)
	audioCache := cache.NewRedisCache(rdb)

	transcriptionSvc := services.NewTranscriptionService(sessionRepo, sttProvider, ds, log)
	letterSvc := services.NewLetterService(letterRepo, transcriptionSvc, llmProvider, log)
	voiceSvc := services.NewVoiceService(services.VoiceDeps{
		Dataset:      ds,
		LLM:          llmProvider,
		STT:          sttProvider,
		TTS:          ttsProvider,
		Uploader:     uploader,
		AudioCache:   audioCache,
		Interactions: interactionRepo,
		Logger:       log,
		Voice:        os.Getenv("TTS_VOICE"),
	})

	// Live transcription workers need both Redis and STT.
	var ws *handlers.WSHandler
	if sttProvider != nil {
		pool := &workers.TranscribeWorkerPool{
			Redis:    rdb,
			Sessions: transcriptionSvc,
			STT:      sttProvider,
			Logger:   log,
		}
		if err := pool.Start(ctx); err != nil {
			log.WithError(err).Fatal("worker pool start error")
		}
		ws = handlers.NewWSHandler(transcriptionSvc, rdb)
	}

	mediaDir := os.Getenv("MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "data"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, routes.Deps{
		Logger: log,
		Dataset: handlers.NewDatasetHandler(ds, handlers.Readiness{
			LLM: llmProvider != nil,
			STT: sttProvider != nil,
			TTS: ttsProvider != nil,
		}),
		Voice:         handlers.NewVoiceHandler(voiceSvc),
		Media:         handlers.NewMediaHandler(mediaDir),
		Transcription: handlers.NewTranscriptionHandler(transcriptionSvc),
		Letter:        handlers.NewLetterHandler(letterSvc),
		WS:            ws,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("OR Voice Assistant ready")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
