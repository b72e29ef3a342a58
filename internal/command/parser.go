// Package command interprets transcribed speech as structured display and
// transcription-session commands. Parsing is a pure function of the
// transcript and procedure type; no state is shared between calls.
package command

import (
	"regexp"
	"strings"

	"github.com/avelorn/orvoice/internal/models"
)

const (
	// DefaultVTKFile is loaded whenever a 3D model is requested without a
	// specific file.
	DefaultVTKFile = "CPO_ist.vtk"
	// DefaultSeriesID is used when no 8-digit DICOM series id is spoken.
	DefaultSeriesID = "17155540"

	defaultZoomIn  = 1.5
	rotateAngleDeg = 15.0
)

var seriesIDPattern = regexp.MustCompile(`\d{8}`)

// input wraps the lower-cased transcript with the keyword predicates the
// rules are written in terms of.
type input struct {
	text          string
	procedureType string
}

func (in input) has(s string) bool { return strings.Contains(in.text, s) }

func (in input) hasAny(ss ...string) bool {
	for _, s := range ss {
		if in.has(s) {
			return true
		}
	}
	return false
}

// rule appends zero or more commands for one detection category. Rules are
// evaluated in table order; that order defines the output command sequence.
type rule func(in input, out *models.ParsedCommand)

var rules = []rule{
	transcriptionLifecycle,
	showPanels,
	zoomModel,
	resetView,
	nextImage,
	previousImage,
	rotateModel,
	closePanel,
	openPanel,
}

// Parse interprets one utterance. The empty transcript yields no commands
// and a query classification.
func Parse(transcript, procedureType string) models.ParsedCommand {
	in := input{
		text:          strings.ToLower(transcript),
		procedureType: procedureType,
	}
	out := models.ParsedCommand{
		Query:                 transcript,
		DisplayCommands:       []models.DisplayCommand{},
		TranscriptionCommands: []models.TranscriptionCommand{},
	}
	for _, r := range rules {
		r(in, &out)
	}
	out.CommandType = classify(in, out)
	return out
}

func transcriptionLifecycle(in input, out *models.ParsedCommand) {
	if in.has("start transcription") {
		out.TranscriptionCommands = append(out.TranscriptionCommands, models.TranscriptionCommand{
			Action:        models.ActionStartTranscription,
			ProcedureType: in.procedureType,
		})
	}
	if in.has("stop transcription") {
		out.TranscriptionCommands = append(out.TranscriptionCommands, models.TranscriptionCommand{
			Action: models.ActionStopTranscription,
		})
	}
	if in.has("create doctor") && in.has("letter") {
		out.TranscriptionCommands = append(out.TranscriptionCommands, models.TranscriptionCommand{
			Action: models.ActionGenerateLetter,
		})
	}
	if in.has("show doctor") && in.has("letter") {
		out.TranscriptionCommands = append(out.TranscriptionCommands, models.TranscriptionCommand{
			Action: models.ActionShowLetter,
		})
	}
}

// showPanels handles the show/display block. Its sub-rules are independent:
// one transcript may produce several show commands.
func showPanels(in input, out *models.ParsedCommand) {
	if !in.hasAny("show", "display") {
		return
	}
	if in.has("lab") {
		position := "center"
		if in.has("left") {
			position = "left"
		} else if in.has("right") {
			position = "right"
		}
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action:   models.ActionShow,
			Target:   models.TargetLabResults,
			Position: position,
		})
	}
	if in.hasAny("imaging", "image") {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action:   models.ActionShow,
			Target:   models.TargetImaging,
			Position: "center",
		})
	}
	if in.has("vital") {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action:   models.ActionShow,
			Target:   models.TargetVitals,
			Position: "right",
		})
	}
	if in.hasAny("vtk", "3d", "cpo") {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action: models.ActionShow,
			Target: models.TargetVTK,
			Data:   map[string]any{"filename": DefaultVTKFile},
		})
	}
	if in.hasAny("dicom", "scan") || (in.has("image") && in.has("medical")) {
		seriesID := DefaultSeriesID
		if m := seriesIDPattern.FindString(in.text); m != "" {
			seriesID = m
		}
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action: models.ActionShow,
			Target: models.TargetDICOM,
			Data:   map[string]any{"seriesId": seriesID},
		})
	}
}

func zoomModel(in input, out *models.ParsedCommand) {
	if !in.has("zoom") || !in.hasAny("3d", "model") {
		return
	}
	// First match wins: explicit factor beats zoom-out beats default.
	level := defaultZoomIn
	switch {
	case in.has("2x"):
		level = 2.0
	case in.has("3x"):
		level = 3.0
	case in.has("zoom out") || in.has("out"):
		level = 1 / 1.5
	}
	out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
		Action: models.ActionZoom,
		Target: models.Target3D,
		Data:   map[string]any{"zoom_level": level},
	})
}

func resetView(in input, out *models.ParsedCommand) {
	if in.has("reset") && in.hasAny("view", "3d") {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action: models.ActionReset,
			Target: models.Target3D,
		})
	}
}

func nextImage(in input, out *models.ParsedCommand) {
	if in.has("next") && in.hasAny("image", "slice") {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action: models.ActionNext,
			Target: models.TargetDICOM,
		})
	}
}

func previousImage(in input, out *models.ParsedCommand) {
	if in.has("previous") && in.hasAny("image", "slice") {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action: models.ActionPrevious,
			Target: models.TargetDICOM,
		})
	}
}

func rotateModel(in input, out *models.ParsedCommand) {
	if !in.has("rotate") || !in.hasAny("view", "3d", "model") {
		return
	}
	direction := "left"
	if !in.has("left") && in.has("right") {
		direction = "right"
	}
	out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
		Action: models.ActionRotate,
		Target: models.Target3D,
		Data:   map[string]any{"direction": direction, "angle": rotateAngleDeg},
	})
}

// panelTargets resolves close/open targets. Checks are mutually exclusive
// and ordered: "patient" beats "monitoring" beats "3d" and so on.
var panelTargets = []struct {
	keywords []string
	target   string
}{
	{[]string{"patient"}, models.TargetPatient},
	{[]string{"monitoring", "vitals"}, models.TargetMonitoring},
	{[]string{"3d", "vtk"}, models.Target3D},
	{[]string{"dicom", "image"}, models.TargetDICOM},
	{[]string{"voice", "command"}, models.TargetVoice},
}

func resolvePanel(in input) (string, bool) {
	for _, pt := range panelTargets {
		if in.hasAny(pt.keywords...) {
			return pt.target, true
		}
	}
	return "", false
}

func closePanel(in input, out *models.ParsedCommand) {
	if !in.hasAny("close", "hide") {
		return
	}
	if target, ok := resolvePanel(in); ok {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action: models.ActionClose,
			Target: target,
		})
	}
}

func openPanel(in input, out *models.ParsedCommand) {
	if !in.has("open") || !in.has("panel") {
		return
	}
	if target, ok := resolvePanel(in); ok {
		out.DisplayCommands = append(out.DisplayCommands, models.DisplayCommand{
			Action: models.ActionOpen,
			Target: target,
		})
	}
}

// classify derives the command type. Later checks override earlier ones:
// alert keywords win over everything, transcription over control.
func classify(in input, out models.ParsedCommand) string {
	commandType := models.CommandQuery
	if len(out.DisplayCommands) > 0 {
		commandType = models.CommandControl
	}
	if len(out.TranscriptionCommands) > 0 {
		commandType = models.CommandTranscription
	}
	if in.hasAny("alert", "warning") {
		commandType = models.CommandAlert
	}
	return commandType
}
