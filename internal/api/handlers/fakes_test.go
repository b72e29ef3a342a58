package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVoiceService struct {
	askResp        *models.VoiceResponse
	askErr         error
	transcribeResp *models.VoiceResponse
	audio          []byte
	audioHit       bool
	audioErr       error

	lastTranscript    string
	lastProcedureType string
}

func (f *fakeVoiceService) Ask(_ context.Context, transcript, procedureType string) (*models.VoiceResponse, error) {
	f.lastTranscript = transcript
	f.lastProcedureType = procedureType
	return f.askResp, f.askErr
}

func (f *fakeVoiceService) Transcribe(context.Context, []byte) *models.VoiceResponse {
	return f.transcribeResp
}

func (f *fakeVoiceService) AudioBytes(context.Context, string) ([]byte, bool, error) {
	return f.audio, f.audioHit, f.audioErr
}

type fakeTranscriptionService struct {
	session *models.TranscriptionSession
	segment *models.TranscriptionSegment
	err     error

	lastProcedureType string
}

func (f *fakeTranscriptionService) Start(_ context.Context, procedureType string) (*models.TranscriptionSession, error) {
	f.lastProcedureType = procedureType
	return f.session, f.err
}

func (f *fakeTranscriptionService) AddSegment(context.Context, string, []byte, string) (*models.TranscriptionSegment, error) {
	return f.segment, f.err
}

func (f *fakeTranscriptionService) AppendText(context.Context, string, string, float64, string) (*models.TranscriptionSegment, error) {
	return f.segment, f.err
}

func (f *fakeTranscriptionService) Stop(context.Context, string) (*models.TranscriptionSession, error) {
	return f.session, f.err
}

func (f *fakeTranscriptionService) Get(context.Context, string) (*models.TranscriptionSession, error) {
	return f.session, f.err
}

func (f *fakeTranscriptionService) List(context.Context) ([]models.TranscriptionSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.session == nil {
		return []models.TranscriptionSession{}, nil
	}
	return []models.TranscriptionSession{*f.session}, nil
}

type fakeLetterService struct {
	letter *models.DoctorLetter
	err    error
}

func (f *fakeLetterService) Generate(context.Context, string, string) (*models.DoctorLetter, error) {
	return f.letter, f.err
}

func (f *fakeLetterService) Get(context.Context, string) (*models.DoctorLetter, error) {
	return f.letter, f.err
}

func (f *fakeLetterService) List(context.Context) ([]models.DoctorLetter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.DoctorLetter{*f.letter}, nil
}

func activeSession(sessionID string) *models.TranscriptionSession {
	return &models.TranscriptionSession{
		SessionID:     sessionID,
		ProcedureType: "pad_angioplasty",
		Status:        models.SessionActive,
		Segments:      []models.TranscriptionSegment{},
		StartTime:     time.Date(2025, 8, 28, 9, 0, 0, 0, time.UTC),
	}
}

var errNotFoundForTest = utils.E(utils.CodeNotFound, "test", "not found", nil)
