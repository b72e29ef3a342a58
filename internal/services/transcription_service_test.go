package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelorn/orvoice/internal/dataset"
	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/utils"
)

func TestTranscriptionStart(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewTranscriptionService(repo, nil, voiceTestDataset(), testLogger())

	session, err := svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, models.SessionActive, session.Status)
	assert.Equal(t, dataset.ProcedurePAD, session.ProcedureType)
	assert.NotEmpty(t, session.PatientContext)
	assert.False(t, session.StartTime.IsZero())

	stored, err := repo.GetBySessionID(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, stored.Status)
}

func TestTranscriptionStart_DefaultsProcedureType(t *testing.T) {
	svc := NewTranscriptionService(newFakeSessionRepo(), nil, voiceTestDataset(), testLogger())

	session, err := svc.Start(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, dataset.ProcedurePAD, session.ProcedureType)
}

func TestAddSegment_NoSTT(t *testing.T) {
	svc := NewTranscriptionService(newFakeSessionRepo(), nil, voiceTestDataset(), testLogger())

	_, err := svc.AddSegment(context.Background(), "some-session", []byte("pcm"), "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestAddSegment_Transcribes(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewTranscriptionService(repo, &fakeSTT{text: " balloon inflated ", confidence: 0.91}, voiceTestDataset(), testLogger())

	session, err := svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)

	seg, err := svc.AddSegment(context.Background(), session.SessionID, []byte("pcm"), "10:15:00")
	require.NoError(t, err)
	assert.Equal(t, "balloon inflated", seg.Text)
	assert.Equal(t, 0.91, seg.Confidence)
	assert.Equal(t, "10:15:00", seg.Timestamp)
}

func TestAddSegment_STTFailureDegrades(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewTranscriptionService(repo, &fakeSTT{err: errors.New("stream reset")}, voiceTestDataset(), testLogger())

	session, err := svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)

	seg, err := svc.AddSegment(context.Background(), session.SessionID, []byte("pcm"), "")
	require.NoError(t, err)
	assert.Equal(t, degradedSegmentText, seg.Text)
	assert.Zero(t, seg.Confidence)
	assert.NotEmpty(t, seg.Timestamp)
}

func TestAppendText_UnknownSession(t *testing.T) {
	svc := NewTranscriptionService(newFakeSessionRepo(), nil, voiceTestDataset(), testLogger())

	_, err := svc.AppendText(context.Background(), "missing", "text", 1, "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestAppendText_RejectedAfterStop(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewTranscriptionService(repo, nil, voiceTestDataset(), testLogger())

	session, err := svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)
	_, err = svc.Stop(context.Background(), session.SessionID)
	require.NoError(t, err)

	_, err = svc.AppendText(context.Background(), session.SessionID, "late segment", 1, "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestStop_JoinsSegments(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewTranscriptionService(repo, nil, voiceTestDataset(), testLogger())

	session, err := svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)

	for _, text := range []string{"guidewire placed", "", "balloon inflated"} {
		_, err = svc.AppendText(context.Background(), session.SessionID, text, 0.9, "")
		require.NoError(t, err)
	}

	stopped, err := svc.Stop(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, stopped.Status)
	assert.Equal(t, "guidewire placed balloon inflated", stopped.FullTranscript)
	require.NotNil(t, stopped.EndTime)
}

func TestGet_FillsFullTranscript(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewTranscriptionService(repo, nil, voiceTestDataset(), testLogger())

	session, err := svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)
	_, err = svc.AppendText(context.Background(), session.SessionID, "lesion crossed", 0.9, "")
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "lesion crossed", got.FullTranscript)
}

func TestGet_Validation(t *testing.T) {
	svc := NewTranscriptionService(newFakeSessionRepo(), nil, voiceTestDataset(), testLogger())

	_, err := svc.Get(context.Background(), "")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestTranscriptionList(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewTranscriptionService(repo, nil, voiceTestDataset(), testLogger())

	_, err := svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)
	_, err = svc.Start(context.Background(), dataset.ProcedurePAD)
	require.NoError(t, err)

	sessions, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
