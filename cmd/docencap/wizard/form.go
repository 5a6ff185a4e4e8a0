// Package wizard prompts for the patient and document fields a run is still
// missing.
package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mrsinham/docencap/internal/config"
	"github.com/mrsinham/docencap/internal/dicom/doctype"
)

// NeedsPrompt reports whether Prompt would ask anything for cfg.
func NeedsPrompt(cfg *config.Config) bool {
	return len(missingFields(cfg)) > 0
}

// missingFields lists the form keys of the unset fields. The title is left
// out for CDA, whose documents carry one.
func missingFields(cfg *config.Config) []string {
	var keys []string
	if cfg.PatientName == "" {
		keys = append(keys, "patient_name")
	}
	if cfg.PatientID == "" {
		keys = append(keys, "patient_id")
	}
	if cfg.PatientBirthDate == "" {
		keys = append(keys, "birth_date")
	}
	if cfg.PatientSex == "" {
		keys = append(keys, "sex")
	}
	if cfg.Title == "" && cfg.Class != doctype.CDA {
		keys = append(keys, "title")
	}
	return keys
}

// NewForm builds the form for the fields of cfg that are still empty. The
// answers are written back into cfg when the form completes.
func NewForm(cfg *config.Config) *huh.Form {
	var fields []huh.Field
	for _, key := range missingFields(cfg) {
		switch key {
		case "patient_name":
			fields = append(fields, huh.NewInput().
				Key(key).
				Title("Patient Name").
				Description("Format: FAMILY^Given^Middle^Prefix^Suffix").
				Value(&cfg.PatientName).
				Validate(ValidatePersonName))
		case "patient_id":
			fields = append(fields, huh.NewInput().
				Key(key).
				Title("Patient ID").
				Value(&cfg.PatientID))
		case "birth_date":
			fields = append(fields, huh.NewInput().
				Key(key).
				Title("Birth Date").
				Description("Format: YYYYMMDD, empty if unknown").
				Value(&cfg.PatientBirthDate).
				Validate(ValidateDate))
		case "sex":
			fields = append(fields, huh.NewSelect[string]().
				Key(key).
				Title("Sex").
				Options(
					huh.NewOption("Unknown", ""),
					huh.NewOption("Male", "M"),
					huh.NewOption("Female", "F"),
					huh.NewOption("Other", "O"),
				).
				Value(&cfg.PatientSex))
		case "title":
			fields = append(fields, huh.NewInput().
				Key(key).
				Title("Document Title").
				Value(&cfg.Title))
		}
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
}

// Prompt asks for the missing fields of cfg.
func Prompt(cfg *config.Config) error {
	if !NeedsPrompt(cfg) {
		return nil
	}
	if err := NewForm(cfg).Run(); err != nil {
		return fmt.Errorf("interactive form: %w", err)
	}
	return nil
}

// ValidateDate accepts an empty string or a YYYYMMDD date.
func ValidateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("20060102", s); err != nil {
		return fmt.Errorf("invalid date, use YYYYMMDD")
	}
	return nil
}

// ValidatePersonName accepts at most five '^' separated components.
func ValidatePersonName(s string) error {
	if strings.Count(s, "^") > 4 {
		return fmt.Errorf("a person name has at most 5 components")
	}
	return nil
}
