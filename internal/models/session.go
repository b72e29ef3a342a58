package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transcription session status values.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// TranscriptionSegment is one transcribed slice of a recording interval.
type TranscriptionSegment struct {
	Timestamp  string  `bson:"timestamp" json:"timestamp"` // HH:MM:SS wall clock
	Text       string  `bson:"text" json:"text"`
	Confidence float64 `bson:"confidence,omitempty" json:"confidence,omitempty"`
}

// TranscriptionSession is a bounded recording interval whose accumulated
// segments form the full procedure transcript.
type TranscriptionSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4

	ProcedureType  string         `bson:"procedure_type" json:"procedure_type"`
	Status         string         `bson:"status" json:"status"` // active|completed
	PatientContext map[string]any `bson:"patient_context,omitempty" json:"patient_context,omitempty"`

	Segments       []TranscriptionSegment `bson:"segments" json:"transcript_segments"`
	FullTranscript string                 `bson:"full_transcript" json:"full_transcript"`

	StartTime time.Time  `bson:"start_time" json:"start_time"`
	EndTime   *time.Time `bson:"end_time,omitempty" json:"end_time,omitempty"`
}
