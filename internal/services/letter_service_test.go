package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelorn/orvoice/internal/dataset"
	"github.com/avelorn/orvoice/internal/utils"
)

func letterFixtures(t *testing.T) (TranscriptionService, string) {
	t.Helper()
	sessions := newFakeSessionRepo()
	transcripts := NewTranscriptionService(sessions, nil, voiceTestDataset(), testLogger())

	session, err := transcripts.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)
	_, err = transcripts.AppendText(context.Background(), session.SessionID, "balloon angioplasty of the left SFA", 0.95, "")
	require.NoError(t, err)
	_, err = transcripts.Stop(context.Background(), session.SessionID)
	require.NoError(t, err)

	return transcripts, session.SessionID
}

func TestGenerateLetter_Fallback(t *testing.T) {
	transcripts, sessionID := letterFixtures(t)
	letters := newFakeLetterRepo()
	svc := NewLetterService(letters, transcripts, nil, testLogger())

	letter, err := svc.Generate(context.Background(), sessionID, "patient tolerated well")
	require.NoError(t, err)
	assert.NotEmpty(t, letter.LetterID)
	assert.Equal(t, sessionID, letter.SessionID)
	assert.Equal(t, dataset.ProcedurePAD, letter.ProcedureType)
	assert.Contains(t, letter.Content, "MEDICAL LETTER")
	assert.Contains(t, letter.Content, "Pad Angioplasty Procedure")
	assert.Contains(t, letter.Content, "balloon angioplasty of the left SFA")
	assert.Contains(t, letter.Content, "patient tolerated well")

	stored, err := letters.GetByLetterID(context.Background(), letter.LetterID)
	require.NoError(t, err)
	assert.Equal(t, letter.Content, stored.Content)
}

func TestGenerateLetter_LLMContent(t *testing.T) {
	transcripts, sessionID := letterFixtures(t)
	gen := &fakeLLM{answer: "Dear Colleague, the procedure went well."}
	svc := NewLetterService(newFakeLetterRepo(), transcripts, gen, testLogger())

	letter, err := svc.Generate(context.Background(), sessionID, "")
	require.NoError(t, err)
	assert.Equal(t, "Dear Colleague, the procedure went well.", letter.Content)
	assert.Contains(t, gen.prompt, "balloon angioplasty of the left SFA")
}

func TestGenerateLetter_LLMFailureFallsBack(t *testing.T) {
	transcripts, sessionID := letterFixtures(t)
	gen := &fakeLLM{err: errors.New("backend offline")}
	svc := NewLetterService(newFakeLetterRepo(), transcripts, gen, testLogger())

	letter, err := svc.Generate(context.Background(), sessionID, "")
	require.NoError(t, err)
	assert.Contains(t, letter.Content, "MEDICAL LETTER")
}

func TestGenerateLetter_Validation(t *testing.T) {
	transcripts, _ := letterFixtures(t)
	svc := NewLetterService(newFakeLetterRepo(), transcripts, nil, testLogger())

	_, err := svc.Generate(context.Background(), "", "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Generate(context.Background(), "missing-session", "")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestGetLetter(t *testing.T) {
	transcripts, sessionID := letterFixtures(t)
	svc := NewLetterService(newFakeLetterRepo(), transcripts, nil, testLogger())

	letter, err := svc.Generate(context.Background(), sessionID, "")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), letter.LetterID)
	require.NoError(t, err)
	assert.Equal(t, letter.LetterID, got.LetterID)

	_, err = svc.Get(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestListLetters(t *testing.T) {
	transcripts, sessionID := letterFixtures(t)
	svc := NewLetterService(newFakeLetterRepo(), transcripts, nil, testLogger())

	_, err := svc.Generate(context.Background(), sessionID, "")
	require.NoError(t, err)

	letters, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, letters, 1)
}
