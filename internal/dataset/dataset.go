// Package dataset holds the static patient/procedure dataset. It is loaded
// once at startup and read-only afterwards, so concurrent requests share it
// without locking.
package dataset

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
)

// Well-known procedure types.
const (
	ProcedurePAD = "pad_angioplasty"
	ProcedureEP  = "ep_ablation"
)

// Lab is a single laboratory value. Fields beyond Value are optional and
// depend on the analyte (eGFR for creatinine, date for INR).
type Lab struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit,omitempty"`
	EGFR  *float64 `json:"egfr,omitempty"`
	Date  string   `json:"date,omitempty"`
}

// FormatValue renders the lab value without trailing zeros ("1.2", "55").
func (l Lab) FormatValue() string {
	if l.Value == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*l.Value, 'f', -1, 64)
}

// FormatEGFR renders the eGFR or "not available" when absent.
func (l Lab) FormatEGFR() string {
	if l.EGFR == nil {
		return "not available"
	}
	return strconv.FormatFloat(*l.EGFR, 'f', -1, 64)
}

type Patient struct {
	Name      string         `json:"name,omitempty"`
	Age       int            `json:"age,omitempty"`
	Labs      map[string]Lab `json:"labs,omitempty"`
	Allergies []string       `json:"allergies,omitempty"`
	Vitals    map[string]any `json:"vitals,omitempty"`
}

type IntraOp struct {
	ContrastUsed float64 `json:"contrastUsed"`
	MaxContrast  float64 `json:"maxContrast"`
}

type Procedure struct {
	Name    string         `json:"name,omitempty"`
	Patient Patient        `json:"patient"`
	IntraOp IntraOp        `json:"intraopData"`
	Imaging map[string]any `json:"imaging,omitempty"`
}

// AsMap converts a procedure to a generic mapping, used for session patient
// context snapshots.
func (p *Procedure) AsMap() map[string]any {
	b, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// Dataset is the full static dataset keyed by procedure type.
type Dataset struct {
	Procedures map[string]Procedure `json:"procedures"`
	ORSchedule map[string]any       `json:"orSchedule,omitempty"`

	// sorted procedure keys for deterministic scans
	order []string
}

// Load reads and indexes the dataset from a JSON file.
func Load(path string) (*Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, err
	}
	ds.index()
	return &ds, nil
}

// New builds a dataset from already-decoded procedures (used in tests).
func New(procedures map[string]Procedure) *Dataset {
	ds := &Dataset{Procedures: procedures}
	ds.index()
	return ds
}

func (d *Dataset) index() {
	d.order = d.order[:0]
	for k := range d.Procedures {
		d.order = append(d.order, k)
	}
	sort.Strings(d.order)
}

// Empty reports whether the dataset holds no procedures.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Procedures) == 0
}

// Procedure returns the named procedure's data.
func (d *Dataset) Procedure(procedureType string) (Procedure, bool) {
	if d == nil {
		return Procedure{}, false
	}
	p, ok := d.Procedures[procedureType]
	return p, ok
}

// FirstLab scans procedures in deterministic order and returns the first
// occurrence of the named lab value.
func (d *Dataset) FirstLab(name string) (Lab, bool) {
	if d == nil {
		return Lab{}, false
	}
	for _, k := range d.order {
		if lab, ok := d.Procedures[k].Patient.Labs[name]; ok {
			return lab, true
		}
	}
	return Lab{}, false
}

// FirstAllergies returns the first non-empty allergy list across procedures.
func (d *Dataset) FirstAllergies() ([]string, bool) {
	if d == nil {
		return nil, false
	}
	for _, k := range d.order {
		if a := d.Procedures[k].Patient.Allergies; len(a) > 0 {
			return a, true
		}
	}
	return nil, false
}

// Labs returns the lab map for one procedure, or nil when absent.
func (d *Dataset) Labs(procedureType string) map[string]Lab {
	p, ok := d.Procedure(procedureType)
	if !ok {
		return nil
	}
	return p.Patient.Labs
}
