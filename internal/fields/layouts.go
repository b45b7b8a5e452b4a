package fields

import (
	"fmt"
	"log/slog"
)

// WindowSpec names the first and last block of a windowed layout.
type WindowSpec struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Layout describes one known document layout as plain data.
type Layout struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields" json:"fields"`
	// Chain derives every End from the next field's label.
	Chain  bool        `yaml:"chain,omitempty" json:"chain,omitempty"`
	Window *WindowSpec `yaml:"window,omitempty" json:"window,omitempty"`
}

// Table returns the effective field table of the layout.
func (l Layout) Table() []Field {
	if l.Chain {
		return ChainFields(l.Fields)
	}
	out := make([]Field, len(l.Fields))
	for i, f := range l.Fields {
		f.Start = f.StartLabel()
		out[i] = f
	}
	return out
}

// Extractor compiles the layout.
func (l Layout) Extractor(log *slog.Logger) (*Extractor, error) {
	if l.Name == "" {
		return nil, fmt.Errorf("layout: %w", ErrEmptyName)
	}
	specs, err := Compile(l.Table())
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", l.Name, err)
	}
	opts := []Option{WithLogger(log)}
	if l.Window != nil {
		opts = append(opts, WithWindow(l.Window.From, l.Window.To))
	}
	return NewExtractor(l.Name, specs, opts...), nil
}

// DischargeNotification is the ward discharge notification form. The GP
// value has no closing label, so the search is limited to the blocks from
// "Ward" through "GP".
var DischargeNotification = Layout{
	Name: "discharge-notification",
	Fields: []Field{
		{Name: "Ward"},
		{Name: "Hospital Number"},
		{Name: "NHS Number"},
		{Name: "Ward Tel"},
		{Name: "Patient Name"},
		{Name: "Consultant"},
		{Name: "D.O.B"},
		{Name: "Speciality"},
		{Name: "Date of Admission"},
		{Name: "Discharged by"},
		{Name: "Date of Discharge"},
		{Name: "Role / Bleep"},
		{Name: "Discharge Address"},
		{Name: "GP"},
	},
	Chain:  true,
	Window: &WindowSpec{From: "Ward", To: "GP"},
}

// EDDischarge is the emergency department discharge letter.
var EDDischarge = Layout{
	Name: "ed-discharge",
	Fields: []Field{
		{Name: "Re", End: "ED No"},
		{Name: "ED No", End: "DOB"},
		{Name: "DOB", End: "Hosp No"},
		{Name: "Hosp No", End: "Address"},
		{Name: "Address", End: "NHS No"},
		{Name: "NHS No", End: "The patient"},
		{Name: "Seen By", End: "Investigations"},
		{Name: "Investigations", End: "Working Diagnosis"},
		{Name: "Working Diagnosis", End: "Referrals"},
		{Name: "Referrals", End: "Outcome"},
		{Name: "Outcome", End: "Comments for GP"},
		{Name: "Comments for GP", End: "If you have any"},
	},
}

// BuiltinLayouts returns the layouts known without a layouts file.
func BuiltinLayouts() []Layout {
	return []Layout{DischargeNotification, EDDischarge}
}
