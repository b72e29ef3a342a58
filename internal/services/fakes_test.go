package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/avelorn/orvoice/internal/models"
	"github.com/avelorn/orvoice/internal/utils"
)

type fakeLLM struct {
	answer string
	err    error
	prompt string // last prompt seen
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func (f *fakeLLM) Close() error { return nil }

type fakeSTT struct {
	text       string
	confidence float64
	err        error
}

func (f *fakeSTT) Transcribe(context.Context, []byte, string) (string, float64, error) {
	return f.text, f.confidence, f.err
}

func (f *fakeSTT) Close() error { return nil }

type fakeTTS struct {
	audio []byte
	err   error
}

func (f *fakeTTS) Synthesize(context.Context, string, string) ([]byte, error) {
	return f.audio, f.err
}

func (f *fakeTTS) Close() error { return nil }

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(context.Context, string, string, io.Reader) (string, error) {
	return f.url, f.err
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(context.Context, string, any) (bool, error) { return false, f.err }

func (f *fakeCache) SetJSON(context.Context, string, any, time.Duration) error { return f.err }

func (f *fakeCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	val, ok := f.data[key]
	return val, ok, nil
}

func (f *fakeCache) SetBytes(_ context.Context, key string, val []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[key] = val
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type fakeInteractionRepo struct {
	mu   sync.Mutex
	rows []*models.InteractionLog
	err  error
}

func (f *fakeInteractionRepo) Insert(_ context.Context, row *models.InteractionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeInteractionRepo) ListByProcedure(_ context.Context, procedureType string, _ int) ([]models.InteractionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.InteractionLog
	for _, r := range f.rows {
		if r.ProcedureType == procedureType {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeInteractionRepo) LatestN(_ context.Context, n int) ([]models.InteractionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.InteractionLog, 0, n)
	for i := len(f.rows) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, *f.rows[i])
	}
	return out, nil
}

func (f *fakeInteractionRepo) GetByID(_ context.Context, id string) (*models.InteractionLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, utils.ErrNotFound
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.TranscriptionSession
	err      error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.TranscriptionSession{}}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *models.TranscriptionSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *s
	f.sessions[s.SessionID] = &cp
	return nil
}

func (f *fakeSessionRepo) GetBySessionID(_ context.Context, sessionID string) (*models.TranscriptionSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	cp.Segments = append([]models.TranscriptionSegment(nil), s.Segments...)
	return &cp, nil
}

func (f *fakeSessionRepo) List(context.Context, int64) ([]models.TranscriptionSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TranscriptionSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSessionRepo) AppendSegment(_ context.Context, sessionID string, seg models.TranscriptionSegment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok || s.Status != models.SessionActive {
		return utils.ErrNotFound
	}
	s.Segments = append(s.Segments, seg)
	return nil
}

func (f *fakeSessionRepo) Complete(_ context.Context, sessionID string, endedAt time.Time, fullTranscript string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	s.Status = models.SessionCompleted
	s.EndTime = &endedAt
	s.FullTranscript = fullTranscript
	return nil
}

type fakeLetterRepo struct {
	mu      sync.Mutex
	letters map[string]*models.DoctorLetter
	err     error
}

func newFakeLetterRepo() *fakeLetterRepo {
	return &fakeLetterRepo{letters: map[string]*models.DoctorLetter{}}
}

func (f *fakeLetterRepo) Create(_ context.Context, l *models.DoctorLetter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *l
	f.letters[l.LetterID] = &cp
	return nil
}

func (f *fakeLetterRepo) GetByLetterID(_ context.Context, letterID string) (*models.DoctorLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.letters[letterID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLetterRepo) List(context.Context, int64) ([]models.DoctorLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DoctorLetter, 0, len(f.letters))
	for _, l := range f.letters {
		out = append(out, *l)
	}
	return out, nil
}
