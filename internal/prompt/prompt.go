// Package prompt builds the context-aware prompts sent to the generative
// backend. Each procedure type selects its own system prompt; unknown types
// fall back to the PAD angioplasty prompt.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avelorn/orvoice/internal/dataset"
)

const padAngioplasty = `You are a sterile-field OR voice assistant for Peripheral Arterial Disease (PAD) angioplasty procedures.
Your role is to provide concise, accurate information about patient data, procedural parameters, and safety alerts.

Key responsibilities:
- Provide patient lab values, imaging results, and vital signs
- Monitor contrast usage and radiation exposure
- Alert about contraindications and allergies
- Support procedural decision-making with relevant data
- Execute display commands for visual information
- Control 3D visualization of VTK models and anatomical structures

Available VTK/3D commands:
- "Open VTK file" or "Load CPO model" - loads 3D visualization
- "Zoom 3D model" - magnifies the 3D view
- "Reset 3D view" - returns to default camera position
- "Rotate view" - adjusts 3D orientation

Available DICOM commands:
- "Show DICOM images" or "Load medical scan" - displays medical images
- "Next image" or "Previous image" - navigates through image series
- "Load series [ID]" - loads specific DICOM series by ID

Available Panel Control commands:
- "Close patient panel" or "Hide patient" - closes patient information panel
- "Close monitoring" or "Hide vitals" - closes procedural monitoring panel
- "Close 3D panel" or "Hide VTK" - closes 3D visualization panel
- "Close DICOM" or "Hide image panel" - closes DICOM viewer panel
- "Open patient panel" or "Open monitoring" - reopens closed panels

Always respond with short, clear medical language appropriate for the sterile field.
Include relevant safety considerations in your responses.`

const epAblation = `You are a sterile-field OR voice assistant for Electrophysiology (EP) ablation procedures.
Your role is to provide critical electrophysiology data, procedural parameters, and safety information.

Key responsibilities:
- Provide cardiac history, ECG data, and electrolyte levels
- Monitor ablation parameters and mapping progress
- Alert about anticoagulation status and bleeding risks
- Support procedural milestones and endpoint assessment
- Execute display commands for cardiac data visualization
- Control 3D visualization of cardiac structures and mapping data

Available VTK/3D commands:
- "Show 3D heart model" - displays cardiac anatomy
- "Reset cardiac view" - returns to standard orientation

Available DICOM commands:
- "Show cardiac images" or "Load heart scan" - displays cardiac imaging
- "Next slice" or "Previous slice" - navigates through cardiac series
- "Load cardiac CT" - loads specific cardiac imaging series

Available Panel Control commands:
- "Close patient panel" or "Hide patient" - closes patient information panel
- "Close monitoring" or "Hide vitals" - closes procedural monitoring panel
- "Close 3D panel" or "Hide VTK" - closes 3D visualization panel
- "Close DICOM" or "Hide image panel" - closes DICOM viewer panel
- "Open patient panel" or "Open monitoring" - reopens closed panels

Always respond with precise EP terminology and include procedural safety considerations.`

var systemPrompts = map[string]string{
	dataset.ProcedurePAD: padAngioplasty,
	dataset.ProcedureEP:  epAblation,
}

// System returns the system prompt for a procedure type, defaulting to the
// PAD angioplasty prompt for unrecognized types.
func System(procedureType string) string {
	if p, ok := systemPrompts[procedureType]; ok {
		return p
	}
	return systemPrompts[dataset.ProcedurePAD]
}

// ForQuery assembles the full prompt: system prompt, serialized patient data
// for the procedure, and the user query.
func ForQuery(transcript, procedureType string, ds *dataset.Dataset) string {
	contextData := ""
	if proc, ok := ds.Procedure(procedureType); ok {
		if b, err := json.MarshalIndent(proc, "", "  "); err == nil {
			contextData = "Current patient: " + string(b)
		}
	}
	return fmt.Sprintf("%s\n\nPatient Data:\n%s\n\nQuery: %s\n\nResponse:",
		System(procedureType), contextData, transcript)
}

// ForLetter assembles the doctor-letter generation prompt from a session
// transcript and its patient context.
func ForLetter(procedureType, fullTranscript string, patientContext map[string]any, additionalNotes string) string {
	contextStr := "Not available"
	if len(patientContext) > 0 {
		if b, err := json.MarshalIndent(patientContext, "", "  "); err == nil {
			contextStr = string(b)
		}
	}
	if additionalNotes == "" {
		additionalNotes = "None"
	}
	return fmt.Sprintf(`You are a medical assistant helping to generate a professional doctor's letter based on a surgical transcription.

Procedure Type: %s
Patient Context: %s

Transcription from surgery:
%s

Additional Notes: %s

Please generate a professional doctor's letter that includes:
1. A proper medical letter header
2. Patient identification (use context if available)
3. Procedure performed
4. Key findings and observations from the transcription
5. Post-operative status
6. Recommendations for follow-up care
7. Professional closing

Format the letter professionally with proper medical terminology.`,
		procedureType, contextStr, fullTranscript, additionalNotes)
}

// FallbackLetter is the deterministic letter template used when the
// generative backend is unavailable.
func FallbackLetter(procedureType, fullTranscript, additionalNotes string, now time.Time) string {
	readable := titleCase(strings.ReplaceAll(procedureType, "_", " "))
	letter := fmt.Sprintf(`MEDICAL LETTER

Date: %s

Re: %s Procedure

Dear Colleague,

I am writing to provide you with a summary of the recent %s procedure.

Procedure Summary:
%s

The procedure was completed successfully. Please find the attached transcription for detailed information.
`,
		now.Format("January 2, 2006"), readable, strings.ToLower(readable), fullTranscript)
	if additionalNotes != "" {
		letter += "\n" + additionalNotes + "\n"
	}
	letter += `
Please feel free to contact me if you require any additional information.

Sincerely,
[Attending Physician]`
	return letter
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
