package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/avelorn/orvoice/internal/providers/stt"
	"github.com/avelorn/orvoice/internal/services"
)

// TranscribeStream is the Redis stream carrying live audio chunks from the
// WebSocket handler to the worker pool.
const TranscribeStream = "transcribe:stream"

const workerGroup = "transcribe-workers"

// ResultChannel is the pubsub channel carrying per-session transcript
// results back to connected clients.
func ResultChannel(sessionID string) string {
	return "transcription:" + sessionID + ":result"
}

// TranscribeWorkerPool consumes audio chunks, runs STT and appends the
// resulting segments to the owning transcription session.
type TranscribeWorkerPool struct {
	Redis      *redis.Client
	Sessions   services.TranscriptionService
	STT        stt.Provider
	NumWorkers int

	Logger *logrus.Logger

	ConsumerPrefix string
}

func (p *TranscribeWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Sessions == nil || p.STT == nil {
		return errors.New("TranscribeWorkerPool missing dependency: Redis/Sessions/STT must be set")
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, TranscribeStream, workerGroup, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *TranscribeWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    workerGroup,
			Consumer: consumer,
			Streams:  []string{TranscribeStream, ">"},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || errors.Is(err, context.Canceled) {
				continue
			}
			p.Logger.WithError(err).Warn("stream read failed")
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, TranscribeStream, workerGroup, msg.ID).Err()
			}
		}
	}
}

func (p *TranscribeWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	sessionID := getStr("session_id")
	chunkIndexStr := getStr("chunk_index")
	if sessionID == "" || chunkIndexStr == "" {
		return
	}
	chunkIndex, _ := strconv.ParseInt(chunkIndexStr, 10, 64)

	log := p.Logger.WithFields(logrus.Fields{
		"redis_id":    msg.ID,
		"session_id":  sessionID,
		"chunk_index": chunkIndex,
	})

	resultCh := ResultChannel(sessionID)

	raw := getStr("audio_base64")
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[i+1:] // strip data:...;base64,
	}
	audio, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(audio) == 0 {
		log.Warn("invalid audio chunk")
		p.publish(ctx, resultCh, map[string]any{
			"type":        "error",
			"chunk_index": chunkIndex,
			"message":     "invalid audio_base64",
		})
		return
	}

	text, confidence, err := p.STT.Transcribe(ctx, audio, "")
	if err != nil {
		log.WithError(err).Error("stt failed")
		p.publish(ctx, resultCh, map[string]any{
			"type":        "error",
			"chunk_index": chunkIndex,
			"message":     "transcription failed",
		})
		return
	}

	seg, err := p.Sessions.AppendText(ctx, sessionID, strings.TrimSpace(text), confidence, getStr("timestamp"))
	if err != nil {
		log.WithError(err).Error("segment append failed")
		p.publish(ctx, resultCh, map[string]any{
			"type":        "error",
			"chunk_index": chunkIndex,
			"message":     "failed to store segment",
		})
		return
	}

	p.publish(ctx, resultCh, map[string]any{
		"type":        "segment",
		"chunk_index": chunkIndex,
		"text":        seg.Text,
		"confidence":  seg.Confidence,
		"timestamp":   seg.Timestamp,
	})
}

func (p *TranscribeWorkerPool) publish(ctx context.Context, channel string, payload map[string]any) {
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = p.Redis.Publish(ctx, channel, string(b)).Err()
}
