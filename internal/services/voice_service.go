package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/avelorn/orvoice/internal/cache"
	"github.com/avelorn/orvoice/internal/command"
	"github.com/avelorn/orvoice/internal/dataset"
	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/prompt"
	"github.com/avelorn/orvoice/internal/providers/llm"
	"github.com/avelorn/orvoice/internal/providers/stt"
	"github.com/avelorn/orvoice/internal/providers/tts"
	pgrepo "github.com/avelorn/orvoice/internal/repositories/postgres"
	"github.com/avelorn/orvoice/internal/respond"
	"github.com/avelorn/orvoice/internal/storage"
)

const (
	// fallbackTranscript keeps the demo flow alive when no STT is reachable.
	fallbackTranscript = "What is the patient's creatinine level?"

	audioCacheTTL = 15 * time.Minute
)

// VoiceService assembles the full response for one utterance: parse, answer
// (generative or rule-based), best-effort speech synthesis, alert level.
type VoiceService interface {
	Ask(ctx context.Context, transcript, procedureType string) (*models.VoiceResponse, error)
	Transcribe(ctx context.Context, audio []byte) *models.VoiceResponse
	AudioBytes(ctx context.Context, audioID string) ([]byte, bool, error)
}

// VoiceDeps carries the collaborators of the assembler. LLM, STT, TTS,
// Uploader, AudioCache and Interactions may each be nil; the pipeline
// degrades instead of failing.
type VoiceDeps struct {
	Dataset      *dataset.Dataset
	LLM          llm.Provider
	STT          stt.Provider
	TTS          tts.Provider
	Uploader     storage.Uploader
	AudioCache   cache.Cache
	Interactions pgrepo.InteractionRepo
	Logger       *logrus.Logger
	Voice        string // TTS voice name
}

type voiceService struct {
	d VoiceDeps
}

func NewVoiceService(d VoiceDeps) VoiceService {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &voiceService{d: d}
}

func (s *voiceService) Ask(ctx context.Context, transcript, procedureType string) (*models.VoiceResponse, error) {
	parsed := command.Parse(transcript, procedureType)

	answer := s.answerFor(ctx, transcript, procedureType)
	audioURL := s.synthesize(ctx, answer)

	resp := &models.VoiceResponse{
		Transcript:      transcript,
		Response:        answer,
		VisualData:      s.visualData(transcript, procedureType),
		DisplayCommands: parsed.DisplayCommands,
		AlertLevel:      alertLevel(transcript, answer),
		AudioURL:        audioURL,
	}

	s.recordInteraction(ctx, procedureType, parsed, resp)
	return resp, nil
}

// answerFor asks the generative backend, falling back to the rule engine on
// any failure.
func (s *voiceService) answerFor(ctx context.Context, transcript, procedureType string) string {
	if s.d.LLM != nil {
		full := prompt.ForQuery(transcript, procedureType, s.d.Dataset)
		answer, err := s.d.LLM.Complete(ctx, full)
		if err == nil && answer != "" {
			return answer
		}
		if err != nil {
			s.d.Logger.WithError(err).Warn("llm failed, using rule-based fallback")
		}
	}
	return respond.Answer(transcript, s.d.Dataset)
}

// synthesize is best effort: any failure yields an empty audio URL.
func (s *voiceService) synthesize(ctx context.Context, text string) string {
	if s.d.TTS == nil || text == "" {
		return ""
	}
	audio, err := s.d.TTS.Synthesize(ctx, text, s.d.Voice)
	if err != nil {
		s.d.Logger.WithError(err).Warn("tts failed, response will have no audio")
		return ""
	}

	audioID := uuid.NewString()
	if s.d.Uploader != nil {
		url, err := s.d.Uploader.Upload(ctx, "audio/"+audioID+".mp3", "audio/mpeg", bytes.NewReader(audio))
		if err != nil {
			s.d.Logger.WithError(err).Warn("audio upload failed")
			return ""
		}
		return url
	}
	if s.d.AudioCache != nil {
		if err := s.d.AudioCache.SetBytes(ctx, "audio:"+audioID, audio, audioCacheTTL); err != nil {
			s.d.Logger.WithError(err).Warn("audio cache write failed")
			return ""
		}
		return "/audio/" + audioID
	}
	return ""
}

func (s *voiceService) AudioBytes(ctx context.Context, audioID string) ([]byte, bool, error) {
	if s.d.AudioCache == nil {
		return nil, false, nil
	}
	return s.d.AudioCache.GetBytes(ctx, "audio:"+audioID)
}

// Transcribe runs STT and wraps the result. Failures degrade to a canned
// transcript with warning level rather than an error.
func (s *voiceService) Transcribe(ctx context.Context, audio []byte) *models.VoiceResponse {
	if s.d.STT != nil {
		text, _, err := s.d.STT.Transcribe(ctx, audio, "")
		if err == nil && text != "" {
			return &models.VoiceResponse{
				Transcript: strings.TrimSpace(text),
				Response:   "Audio transcribed successfully",
				AlertLevel: models.AlertInfo,
			}
		}
		if err != nil {
			s.d.Logger.WithError(err).Error("transcription failed")
		}
	}
	return &models.VoiceResponse{
		Transcript: fallbackTranscript,
		Response:   "Transcription service unavailable, using fallback",
		AlertLevel: models.AlertWarning,
	}
}

func (s *voiceService) visualData(transcript, procedureType string) map[string]any {
	if !strings.Contains(strings.ToLower(transcript), "lab") {
		return nil
	}
	labs := s.d.Dataset.Labs(procedureType)
	if len(labs) == 0 {
		return nil
	}
	out := make(map[string]any, len(labs))
	for name, lab := range labs {
		out[name] = lab
	}
	return out
}

// alertLevel escalates info -> warning on allergy/contraindication queries,
// and independently to critical when the answer itself flags an emergency.
func alertLevel(transcript, answer string) string {
	level := models.AlertInfo
	t := strings.ToLower(transcript)
	if strings.Contains(t, "allerg") || strings.Contains(t, "contraindic") {
		level = models.AlertWarning
	}
	a := strings.ToLower(answer)
	if strings.Contains(a, "critical") || strings.Contains(a, "emergency") {
		level = models.AlertCritical
	}
	return level
}

// recordInteraction is an audit write; failures are logged, never surfaced.
func (s *voiceService) recordInteraction(ctx context.Context, procedureType string, parsed models.ParsedCommand, resp *models.VoiceResponse) {
	if s.d.Interactions == nil {
		return
	}
	commands, err := json.Marshal(parsed)
	if err != nil {
		return
	}
	row := &models.InteractionLog{
		ID:            uuid.NewString(),
		ProcedureType: procedureType,
		Transcript:    resp.Transcript,
		Response:      resp.Response,
		CommandType:   parsed.CommandType,
		AlertLevel:    resp.AlertLevel,
		Commands:      datatypes.JSON(commands),
		Timestamp:     time.Now().UTC(),
	}
	if err := s.d.Interactions.Insert(ctx, row); err != nil {
		s.d.Logger.WithError(err).Warn("interaction log insert failed")
	}
}
