package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avelorn/orvoice/internal/dataset"
	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/providers/stt"
	mongorepo "github.com/avelorn/orvoice/internal/repositories/mongo"
	"github.com/avelorn/orvoice/internal/utils"
)

// degradedSegmentText is recorded when STT errors mid-session so the segment
// timeline stays contiguous.
const degradedSegmentText = "Audio segment transcribed"

type TranscriptionService interface {
	Start(ctx context.Context, procedureType string) (*models.TranscriptionSession, error)
	AddSegment(ctx context.Context, sessionID string, audio []byte, timestamp string) (*models.TranscriptionSegment, error)
	AppendText(ctx context.Context, sessionID, text string, confidence float64, timestamp string) (*models.TranscriptionSegment, error)
	Stop(ctx context.Context, sessionID string) (*models.TranscriptionSession, error)
	Get(ctx context.Context, sessionID string) (*models.TranscriptionSession, error)
	List(ctx context.Context) ([]models.TranscriptionSession, error)
}

type transcriptionService struct {
	sessions mongorepo.SessionRepository
	stt      stt.Provider
	ds       *dataset.Dataset
	log      *logrus.Logger
}

func NewTranscriptionService(sessions mongorepo.SessionRepository, sttProvider stt.Provider, ds *dataset.Dataset, log *logrus.Logger) TranscriptionService {
	if log == nil {
		log = logrus.New()
	}
	return &transcriptionService{sessions: sessions, stt: sttProvider, ds: ds, log: log}
}

func (s *transcriptionService) Start(ctx context.Context, procedureType string) (*models.TranscriptionSession, error) {
	const op = "TranscriptionService.Start"

	if procedureType == "" {
		procedureType = dataset.ProcedurePAD
	}

	session := &models.TranscriptionSession{
		SessionID:     uuid.NewString(),
		ProcedureType: procedureType,
		Status:        models.SessionActive,
		Segments:      []models.TranscriptionSegment{},
		StartTime:     time.Now().UTC(),
	}
	if proc, ok := s.ds.Procedure(procedureType); ok {
		session.PatientContext = proc.AsMap()
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}

	s.log.WithField("session_id", session.SessionID).Info("transcription session started")
	return session, nil
}

func (s *transcriptionService) AddSegment(ctx context.Context, sessionID string, audio []byte, timestamp string) (*models.TranscriptionSegment, error) {
	const op = "TranscriptionService.AddSegment"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if s.stt == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "transcription service unavailable", nil)
	}

	text, confidence, err := s.stt.Transcribe(ctx, audio, "")
	if err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Error("segment stt failed")
		text, confidence = degradedSegmentText, 0
	}

	return s.AppendText(ctx, sessionID, strings.TrimSpace(text), confidence, timestamp)
}

func (s *transcriptionService) AppendText(ctx context.Context, sessionID, text string, confidence float64, timestamp string) (*models.TranscriptionSegment, error) {
	const op = "TranscriptionService.AppendText"

	if timestamp == "" {
		timestamp = time.Now().UTC().Format("15:04:05")
	}
	seg := models.TranscriptionSegment{
		Timestamp:  timestamp,
		Text:       text,
		Confidence: confidence,
	}

	if err := s.sessions.AppendSegment(ctx, sessionID, seg); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "transcription session not found or not active", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to append segment", err)
	}
	return &seg, nil
}

func (s *transcriptionService) Stop(ctx context.Context, sessionID string) (*models.TranscriptionSession, error) {
	const op = "TranscriptionService.Stop"

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	full := joinSegments(session.Segments)
	if err := s.sessions.Complete(ctx, sessionID, now, full); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to complete session", err)
	}

	session.Status = models.SessionCompleted
	session.EndTime = &now
	session.FullTranscript = full

	s.log.WithField("session_id", sessionID).Info("transcription session stopped")
	return session, nil
}

func (s *transcriptionService) Get(ctx context.Context, sessionID string) (*models.TranscriptionSession, error) {
	const op = "TranscriptionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "transcription session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	if session.FullTranscript == "" {
		session.FullTranscript = joinSegments(session.Segments)
	}
	return session, nil
}

func (s *transcriptionService) List(ctx context.Context) ([]models.TranscriptionSession, error) {
	const op = "TranscriptionService.List"

	out, err := s.sessions.List(ctx, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return out, nil
}

func joinSegments(segments []models.TranscriptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}
