package dicom

import (
	"strings"

	"github.com/mrsinham/docencap/internal/dicom/identifiers"
	"github.com/mrsinham/docencap/internal/dicom/metadata"
	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/mrsinham/docencap/internal/source"
	"github.com/mrsinham/docencap/internal/util"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ReferenceMode tells how much of an existing record the new one inherits.
type ReferenceMode int

const (
	// NoReference starts a new patient/study/series.
	NoReference ReferenceMode = iota
	// StudyReference joins the study of the reference in a new series.
	StudyReference
	// SeriesReference joins the series of the reference.
	SeriesReference
)

func (m ReferenceMode) String() string {
	switch m {
	case StudyReference:
		return "study"
	case SeriesReference:
		return "series"
	default:
		return "none"
	}
}

func (m ReferenceMode) covers(scope util.TagScope) bool {
	switch m {
	case StudyReference:
		return scope == util.ScopePatient || scope == util.ScopeStudy
	case SeriesReference:
		return scope == util.ScopePatient || scope == util.ScopeStudy || scope == util.ScopeSeries
	default:
		return false
	}
}

// ReferenceFields reads the fields the new record inherits from rec under
// mode. Multiple values are joined with source.MultiValueSeparator.
func ReferenceFields(rec *record.Record, mode ReferenceMode) metadata.FieldSet {
	fields := metadata.FieldSet{}
	if rec == nil {
		return fields
	}
	for _, f := range metadata.AllFields() {
		if !mode.covers(f.Scope()) {
			continue
		}
		var values []string
		for _, v := range rec.Strings(f.Tag()) {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		fields.Set(f, strings.Join(values, source.MultiValueSeparator))
	}
	return fields
}

// identifierReference combines the resolved UIDs with the instance number
// of the reference record. It returns nil when neither supplies anything.
func identifierReference(rec *record.Record, fields metadata.FieldSet) *identifiers.Reference {
	ref := &identifiers.Reference{
		StudyInstanceUID:  fields.Value(metadata.StudyInstanceUID),
		SeriesInstanceUID: fields.Value(metadata.SeriesInstanceUID),
	}
	if rec != nil {
		if n, ok := rec.Int(tag.InstanceNumber); ok {
			ref.InstanceNumber = n
		}
	}
	if rec == nil && ref.StudyInstanceUID == "" && ref.SeriesInstanceUID == "" {
		return nil
	}
	return ref
}
