package models

// Display command actions understood by the front-end.
const (
	ActionShow     = "show"
	ActionHide     = "hide"
	ActionClose    = "close"
	ActionOpen     = "open"
	ActionZoom     = "zoom"
	ActionReset    = "reset"
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionRotate   = "rotate"
)

// Display command targets (visualization panels and viewers).
const (
	TargetLabResults = "lab_results"
	TargetImaging    = "imaging"
	TargetVitals     = "vitals"
	TargetVTK        = "vtk"
	TargetDICOM      = "dicom"
	Target3D         = "3d"
	TargetPatient    = "patient"
	TargetMonitoring = "monitoring"
	TargetVoice      = "voice"
)

// Transcription session actions.
const (
	ActionStartTranscription = "start_transcription"
	ActionStopTranscription  = "stop_transcription"
	ActionGenerateLetter     = "generate_letter"
	ActionShowLetter         = "show_letter"
)

// Command type classification, lowest to highest priority.
const (
	CommandQuery         = "query"
	CommandControl       = "control"
	CommandTranscription = "transcription"
	CommandAlert         = "alert"
)

// DisplayCommand instructs the front-end to perform one panel/viewer action.
type DisplayCommand struct {
	Action   string         `json:"action"`
	Target   string         `json:"target"`
	Position string         `json:"position,omitempty"` // left|right|center
	Data     map[string]any `json:"data,omitempty"`     // filename, seriesId, zoom_level, direction, angle
}

// TranscriptionCommand instructs the client to drive the transcription session lifecycle.
type TranscriptionCommand struct {
	Action        string `json:"action"`
	ProcedureType string `json:"procedure_type,omitempty"`
}

// ParsedCommand is the structured result of interpreting one utterance.
// CommandType is derived from the command sets plus alert keywords; it is
// never set independently.
type ParsedCommand struct {
	CommandType           string                 `json:"command_type"`
	DisplayCommands       []DisplayCommand       `json:"display_commands"`
	TranscriptionCommands []TranscriptionCommand `json:"transcription_commands"`
	Query                 string                 `json:"query"`
}
