// Package respond produces deterministic natural-language answers from the
// patient dataset. It is the fallback used when the generative backend is
// unavailable or fails.
package respond

import (
	"fmt"
	"strings"

	"github.com/avelorn/orvoice/internal/dataset"
)

const (
	unavailableMsg = "Medical data is not available at this time."
	defaultMsg     = "I can help you with patient data, lab values, procedural parameters, display controls, 3D visualization, and DICOM medical imaging. Please specify what information you need."

	closePromptMsg = "Please specify which panel to close: patient, monitoring, 3D, DICOM, or voice."
	openPromptMsg  = "Please specify which panel to open: patient, monitoring, 3D, DICOM, or voice."
)

// category is one ordered answer group. The first category whose answer is
// non-empty wins.
type category func(q query, ds *dataset.Dataset) string

var categories = []category{
	vtkAnswers,
	dicomAnswers,
	closeAnswers,
	openAnswers,
	creatinineAnswer,
	contrastAnswer,
	allergyAnswer,
	inrAnswer,
	electrolyteAnswer,
}

// Answer resolves a query against the dataset. It never fails: an empty
// dataset yields the literal unavailability message, an unmatched query the
// generic capability listing.
func Answer(q string, ds *dataset.Dataset) string {
	if ds.Empty() {
		return unavailableMsg
	}
	in := query{text: strings.ToLower(q)}
	for _, c := range categories {
		if answer := c(in, ds); answer != "" {
			return answer
		}
	}
	return defaultMsg
}

type query struct {
	text string
}

func (q query) has(s string) bool { return strings.Contains(q.text, s) }

func (q query) hasAny(ss ...string) bool {
	for _, s := range ss {
		if q.has(s) {
			return true
		}
	}
	return false
}

func vtkAnswers(q query, _ *dataset.Dataset) string {
	if !q.hasAny("vtk", "3d", "cpo") {
		return ""
	}
	switch {
	case q.hasAny("open", "load", "show"):
		return "Loading VTK file for 3D visualization. The model will appear in the 3D viewer panel."
	case q.has("zoom"):
		return "Zooming 3D model view. Use voice commands to control the visualization."
	case q.has("reset"):
		return "Resetting 3D view orientation to default position."
	case q.has("rotate"):
		return "Rotating 3D model view. Use voice commands to control the orientation."
	}
	return ""
}

func dicomAnswers(q query, _ *dataset.Dataset) string {
	modality := q.has("image") && q.hasAny("medical", "ct", "mri", "xray", "x-ray")
	if !q.hasAny("dicom", "scan") && !modality {
		return ""
	}
	switch {
	case q.hasAny("open", "load", "show"):
		return "Loading DICOM medical images. The images will appear in the DICOM viewer panel. Use mouse wheel or voice commands to navigate through the series."
	case q.has("next"):
		return "Moving to next DICOM image in the series."
	case q.hasAny("previous", "prev"):
		return "Moving to previous DICOM image in the series."
	case q.has("series"):
		return "DICOM series contains multiple medical images. Use navigation commands to scroll through them."
	}
	return ""
}

// panelNames mirrors the parser's close/open resolution: ordered, first
// keyword match wins.
var panelNames = []struct {
	keywords []string
	name     string
}{
	{[]string{"patient"}, "patient information"},
	{[]string{"monitoring", "vitals"}, "procedural monitoring"},
	{[]string{"3d", "vtk"}, "3D visualization"},
	{[]string{"dicom", "image"}, "DICOM viewer"},
	{[]string{"voice", "command"}, "voice command"},
}

func resolvePanelName(q query) (string, bool) {
	for _, pn := range panelNames {
		if q.hasAny(pn.keywords...) {
			return pn.name, true
		}
	}
	return "", false
}

func closeAnswers(q query, _ *dataset.Dataset) string {
	if !q.hasAny("close", "hide") {
		return ""
	}
	if name, ok := resolvePanelName(q); ok {
		return fmt.Sprintf("Closing %s panel.", name)
	}
	return closePromptMsg
}

func openAnswers(q query, _ *dataset.Dataset) string {
	if !q.has("open") || !q.has("panel") {
		return ""
	}
	if name, ok := resolvePanelName(q); ok {
		return fmt.Sprintf("Opening %s panel.", name)
	}
	return openPromptMsg
}

func creatinineAnswer(q query, ds *dataset.Dataset) string {
	if !q.has("creatinine") {
		return ""
	}
	lab, ok := ds.FirstLab("creatinine")
	if !ok || lab.Value == nil {
		return ""
	}
	return fmt.Sprintf("Creatinine is %s %s, eGFR %s. Consider contrast nephropathy risk.",
		lab.FormatValue(), lab.Unit, lab.FormatEGFR())
}

func contrastAnswer(q query, ds *dataset.Dataset) string {
	if !q.has("contrast") {
		return ""
	}
	proc, ok := ds.Procedure(dataset.ProcedurePAD)
	if !ok {
		return ""
	}
	used := proc.IntraOp.ContrastUsed
	maxContrast := proc.IntraOp.MaxContrast
	if maxContrast == 0 {
		maxContrast = 100
	}
	return fmt.Sprintf("Contrast used: %.0fmL of maximum %.0fmL. %.0fmL remaining.",
		used, maxContrast, maxContrast-used)
}

func allergyAnswer(q query, ds *dataset.Dataset) string {
	if !q.has("allerg") {
		return ""
	}
	allergies, ok := ds.FirstAllergies()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Patient allergies: %s. Use with caution.", strings.Join(allergies, ", "))
}

func inrAnswer(q query, ds *dataset.Dataset) string {
	if !q.hasAny("inr", "anticoag") {
		return ""
	}
	lab, ok := ds.FirstLab("inr")
	if !ok || lab.Value == nil {
		return ""
	}
	return fmt.Sprintf("INR is %s on %s. Patient is adequately anticoagulated.",
		lab.FormatValue(), lab.Date)
}

func electrolyteAnswer(q query, ds *dataset.Dataset) string {
	if !q.hasAny("potassium", "electrolyte") {
		return ""
	}
	proc, ok := ds.Procedure(dataset.ProcedureEP)
	if !ok {
		return ""
	}
	k := proc.Patient.Labs["potassium"]
	mg := proc.Patient.Labs["magnesium"]
	return fmt.Sprintf("Potassium: %s %s, Magnesium: %s %s. Electrolytes are within normal range.",
		k.FormatValue(), k.Unit, mg.FormatValue(), mg.Unit)
}
