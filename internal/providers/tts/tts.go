package tts

import "context"

// Provider is the text-to-speech capability. Synthesis is best effort: a
// failure degrades the response to "no audio", never to a request failure.
type Provider interface {
	Synthesize(ctx context.Context, text, voice string) (audio []byte, err error)
	Close() error
}
