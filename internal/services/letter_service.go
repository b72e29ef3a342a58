package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/prompt"
	"github.com/avelorn/orvoice/internal/providers/llm"
	mongorepo "github.com/avelorn/orvoice/internal/repositories/mongo"
	"github.com/avelorn/orvoice/internal/utils"
)

type LetterService interface {
	Generate(ctx context.Context, sessionID, additionalNotes string) (*models.DoctorLetter, error)
	Get(ctx context.Context, letterID string) (*models.DoctorLetter, error)
	List(ctx context.Context) ([]models.DoctorLetter, error)
}

type letterService struct {
	letters     mongorepo.LetterRepository
	transcripts TranscriptionService
	llm         llm.Provider
	log         *logrus.Logger
}

func NewLetterService(letters mongorepo.LetterRepository, transcripts TranscriptionService, llmProvider llm.Provider, log *logrus.Logger) LetterService {
	if log == nil {
		log = logrus.New()
	}
	return &letterService{letters: letters, transcripts: transcripts, llm: llmProvider, log: log}
}

// Generate builds a doctor letter from the session transcript, preferring
// the generative backend and falling back to the deterministic template.
func (s *letterService) Generate(ctx context.Context, sessionID, additionalNotes string) (*models.DoctorLetter, error) {
	const op = "LetterService.Generate"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	session, err := s.transcripts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	content := s.compose(ctx, session, additionalNotes)

	letter := &models.DoctorLetter{
		LetterID:      uuid.NewString(),
		SessionID:     sessionID,
		ProcedureType: session.ProcedureType,
		Content:       content,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.letters.Create(ctx, letter); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store letter", err)
	}

	s.log.WithFields(logrus.Fields{
		"letter_id":  letter.LetterID,
		"session_id": sessionID,
	}).Info("doctor letter generated")
	return letter, nil
}

func (s *letterService) compose(ctx context.Context, session *models.TranscriptionSession, additionalNotes string) string {
	if s.llm != nil {
		p := prompt.ForLetter(session.ProcedureType, session.FullTranscript, session.PatientContext, additionalNotes)
		content, err := s.llm.Complete(ctx, p)
		if err == nil && content != "" {
			return content
		}
		if err != nil {
			s.log.WithError(err).Warn("letter generation failed, using fallback template")
		}
	}
	return prompt.FallbackLetter(session.ProcedureType, session.FullTranscript, additionalNotes, time.Now().UTC())
}

func (s *letterService) Get(ctx context.Context, letterID string) (*models.DoctorLetter, error) {
	const op = "LetterService.Get"

	if letterID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "letter_id is required", nil)
	}

	letter, err := s.letters.GetByLetterID(ctx, letterID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "doctor letter not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get letter", err)
	}
	return letter, nil
}

func (s *letterService) List(ctx context.Context) ([]models.DoctorLetter, error) {
	const op = "LetterService.List"

	out, err := s.letters.List(ctx, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list letters", err)
	}
	return out, nil
}
