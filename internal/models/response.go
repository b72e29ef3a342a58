package models

// Alert levels attached to a voice response.
const (
	AlertInfo     = "info"
	AlertWarning  = "warning"
	AlertCritical = "critical"
)

// VoiceResponse is the envelope returned for every voice interaction.
// Built once per request and immutable afterwards.
type VoiceResponse struct {
	Transcript      string           `json:"transcript"`
	Response        string           `json:"response"`
	VisualData      map[string]any   `json:"visual_data,omitempty"`
	DisplayCommands []DisplayCommand `json:"display_commands,omitempty"`
	AlertLevel      string           `json:"alert_level"`
	AudioURL        string           `json:"audio_url,omitempty"`
}
