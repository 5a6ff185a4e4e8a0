// Package metadata defines the field set describing an encapsulated record
// and merges field sets coming from different sources.
package metadata

import (
	"sort"

	"github.com/mrsinham/docencap/internal/util"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Field identifies one piece of patient, study, series or document metadata.
type Field int

const (
	PatientName Field = iota
	PatientID
	PatientBirthDate
	PatientSex
	ConceptCodeValue
	ConceptCodingScheme
	ConceptCodeMeaning
	DocumentTitle
	HL7InstanceIdentifier
	StudyInstanceUID
	SeriesInstanceUID
	MediaTypes
)

type fieldInfo struct {
	name  string
	tag   tag.Tag
	scope util.TagScope
}

var fieldInfos = map[Field]fieldInfo{
	PatientName:           {"PatientName", tag.PatientName, util.ScopePatient},
	PatientID:             {"PatientID", tag.PatientID, util.ScopePatient},
	PatientBirthDate:      {"PatientBirthDate", tag.PatientBirthDate, util.ScopePatient},
	PatientSex:            {"PatientSex", tag.PatientSex, util.ScopePatient},
	ConceptCodeValue:      {"CodeValue", tag.CodeValue, util.ScopeInstance},
	ConceptCodingScheme:   {"CodingSchemeDesignator", tag.CodingSchemeDesignator, util.ScopeInstance},
	ConceptCodeMeaning:    {"CodeMeaning", tag.CodeMeaning, util.ScopeInstance},
	DocumentTitle:         {"DocumentTitle", util.DocumentTitle, util.ScopeInstance},
	HL7InstanceIdentifier: {"HL7InstanceIdentifier", util.HL7InstanceIdentifier, util.ScopeInstance},
	StudyInstanceUID:      {"StudyInstanceUID", tag.StudyInstanceUID, util.ScopeStudy},
	SeriesInstanceUID:     {"SeriesInstanceUID", tag.SeriesInstanceUID, util.ScopeSeries},
	MediaTypes:            {"ListOfMIMETypes", util.ListOfMIMETypes, util.ScopeInstance},
}

// AllFields returns every field in declaration order.
func AllFields() []Field {
	fields := make([]Field, 0, len(fieldInfos))
	for f := range fieldInfos {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// String returns the DICOM keyword of the attribute the field maps to.
func (f Field) String() string {
	if info, ok := fieldInfos[f]; ok {
		return info.name
	}
	return "Unknown"
}

// Tag returns the attribute the field is written to.
func (f Field) Tag() tag.Tag { return fieldInfos[f].tag }

// Scope returns the hierarchy level of the field.
func (f Field) Scope() util.TagScope { return fieldInfos[f].scope }

// FieldSet maps fields to values. A field is either absent or holds a
// non-empty string.
type FieldSet map[Field]string

// Set stores v for f; an empty v removes the field.
func (fs *FieldSet) Set(f Field, v string) {
	if v == "" {
		delete(*fs, f)
		return
	}
	if *fs == nil {
		*fs = FieldSet{}
	}
	(*fs)[f] = v
}

// Get returns the value of f and whether it is set.
func (fs FieldSet) Get(f Field) (string, bool) {
	v, ok := fs[f]
	return v, ok
}

// Value returns the value of f, or "" when unset.
func (fs FieldSet) Value(f Field) string { return fs[f] }

// Has reports whether f is set.
func (fs FieldSet) Has(f Field) bool {
	_, ok := fs[f]
	return ok
}

// Fields returns the set fields in declaration order.
func (fs FieldSet) Fields() []Field {
	fields := make([]Field, 0, len(fs))
	for f := range fs {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Clone returns a copy of fs.
func (fs FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(fs))
	for f, v := range fs {
		out[f] = v
	}
	return out
}
