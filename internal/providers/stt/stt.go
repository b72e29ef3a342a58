package stt

import "context"

// Provider is the speech-to-text capability.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}
