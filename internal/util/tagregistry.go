// Package util provides the tag dictionary, UID generation and name helpers
// shared by the encapsulation pipeline.
package util

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// TagScope represents the DICOM hierarchy level an attribute belongs to.
type TagScope int

const (
	// ScopePatient marks attributes shared by every record of a patient.
	ScopePatient TagScope = iota
	// ScopeStudy marks attributes shared within a study.
	ScopeStudy
	// ScopeSeries marks attributes shared within a series.
	ScopeSeries
	// ScopeInstance marks attributes owned by a single record.
	ScopeInstance
)

// String returns the string representation of a TagScope.
func (s TagScope) String() string {
	switch s {
	case ScopePatient:
		return "Patient"
	case ScopeStudy:
		return "Study"
	case ScopeSeries:
		return "Series"
	case ScopeInstance:
		return "Instance"
	default:
		return "Unknown"
	}
}

// TagInfo contains information about a DICOM tag, including its scope.
type TagInfo struct {
	Name  string
	Tag   tag.Tag
	Scope TagScope
}

// tagRegistry maps lowercase tag names to their TagInfo.
var tagRegistry = map[string]TagInfo{
	// Patient level tags
	"patientname":      {Name: "PatientName", Tag: tag.PatientName, Scope: ScopePatient},
	"patientid":        {Name: "PatientID", Tag: tag.PatientID, Scope: ScopePatient},
	"patientbirthdate": {Name: "PatientBirthDate", Tag: tag.PatientBirthDate, Scope: ScopePatient},
	"patientsex":       {Name: "PatientSex", Tag: tag.PatientSex, Scope: ScopePatient},

	// Study level tags
	"studyinstanceuid":       {Name: "StudyInstanceUID", Tag: tag.StudyInstanceUID, Scope: ScopeStudy},
	"studydescription":       {Name: "StudyDescription", Tag: tag.StudyDescription, Scope: ScopeStudy},
	"studyid":                {Name: "StudyID", Tag: tag.StudyID, Scope: ScopeStudy},
	"studydate":              {Name: "StudyDate", Tag: tag.StudyDate, Scope: ScopeStudy},
	"studytime":              {Name: "StudyTime", Tag: tag.StudyTime, Scope: ScopeStudy},
	"accessionnumber":        {Name: "AccessionNumber", Tag: tag.AccessionNumber, Scope: ScopeStudy},
	"referringphysicianname": {Name: "ReferringPhysicianName", Tag: tag.ReferringPhysicianName, Scope: ScopeStudy},

	// Series level tags
	"seriesinstanceuid":     {Name: "SeriesInstanceUID", Tag: tag.SeriesInstanceUID, Scope: ScopeSeries},
	"seriesnumber":          {Name: "SeriesNumber", Tag: tag.SeriesNumber, Scope: ScopeSeries},
	"seriesdescription":     {Name: "SeriesDescription", Tag: tag.SeriesDescription, Scope: ScopeSeries},
	"modality":              {Name: "Modality", Tag: tag.Modality, Scope: ScopeSeries},
	"manufacturer":          {Name: "Manufacturer", Tag: tag.Manufacturer, Scope: ScopeSeries},
	"manufacturermodelname": {Name: "ManufacturerModelName", Tag: tag.ManufacturerModelName, Scope: ScopeSeries},
	"frameofreferenceuid":   {Name: "FrameOfReferenceUID", Tag: tag.FrameOfReferenceUID, Scope: ScopeSeries},

	// Instance level tags
	"sopinstanceuid":                 {Name: "SOPInstanceUID", Tag: tag.SOPInstanceUID, Scope: ScopeInstance},
	"sopclassuid":                    {Name: "SOPClassUID", Tag: tag.SOPClassUID, Scope: ScopeInstance},
	"instancenumber":                 {Name: "InstanceNumber", Tag: tag.InstanceNumber, Scope: ScopeInstance},
	"contentdate":                    {Name: "ContentDate", Tag: tag.ContentDate, Scope: ScopeInstance},
	"contenttime":                    {Name: "ContentTime", Tag: tag.ContentTime, Scope: ScopeInstance},
	"codevalue":                      {Name: "CodeValue", Tag: tag.CodeValue, Scope: ScopeInstance},
	"codingschemedesignator":         {Name: "CodingSchemeDesignator", Tag: tag.CodingSchemeDesignator, Scope: ScopeInstance},
	"codemeaning":                    {Name: "CodeMeaning", Tag: tag.CodeMeaning, Scope: ScopeInstance},
	"documenttitle":                  {Name: "DocumentTitle", Tag: DocumentTitle, Scope: ScopeInstance},
	"encapsulateddocument":           {Name: "EncapsulatedDocument", Tag: EncapsulatedDocument, Scope: ScopeInstance},
	"mimetypeofencapsulateddocument": {Name: "MIMETypeOfEncapsulatedDocument", Tag: MIMETypeOfEncapsulatedDocument, Scope: ScopeInstance},
	"listofmimetypes":                {Name: "ListOfMIMETypes", Tag: ListOfMIMETypes, Scope: ScopeInstance},
	"encapsulateddocumentlength":     {Name: "EncapsulatedDocumentLength", Tag: EncapsulatedDocumentLength, Scope: ScopeInstance},
	"hl7instanceidentifier":          {Name: "HL7InstanceIdentifier", Tag: HL7InstanceIdentifier, Scope: ScopeInstance},
	"conceptnamecodesequence":        {Name: "ConceptNameCodeSequence", Tag: ConceptNameCodeSequence, Scope: ScopeInstance},
	"measurementunitscodesequence":   {Name: "MeasurementUnitsCodeSequence", Tag: MeasurementUnitsCodeSequence, Scope: ScopeInstance},
	"burnedinannotation":             {Name: "BurnedInAnnotation", Tag: BurnedInAnnotation, Scope: ScopeInstance},
	"conversiontype":                 {Name: "ConversionType", Tag: ConversionType, Scope: ScopeInstance},
	"acquisitiondatetime":            {Name: "AcquisitionDateTime", Tag: AcquisitionDateTime, Scope: ScopeInstance},
}

// UnknownDictionaryNameError is returned when a name resolves neither in the
// registry nor in the DICOM data dictionary.
type UnknownDictionaryNameError struct {
	Name       string
	Suggestion string
}

func (e *UnknownDictionaryNameError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown tag %q, did you mean %q?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown tag %q", e.Name)
}

// GetTagByName returns TagInfo for a given tag name.
// The registry lookup is case-insensitive; names outside the registry are
// looked up by keyword in the full data dictionary and reported at instance
// scope. If the tag is not found, an *UnknownDictionaryNameError is returned
// with a suggestion for the closest registered name (Levenshtein distance).
func GetTagByName(name string) (TagInfo, error) {
	trimmed := strings.TrimSpace(name)
	normalizedName := strings.ToLower(trimmed)

	if info, ok := tagRegistry[normalizedName]; ok {
		return info, nil
	}

	if trimmed != "" {
		if info, err := tag.FindByName(trimmed); err == nil {
			return TagInfo{Name: trimmed, Tag: info.Tag, Scope: ScopeInstance}, nil
		}
	}

	return TagInfo{}, &UnknownDictionaryNameError{Name: name, Suggestion: findClosestTagName(normalizedName)}
}

// ScopeOf returns the registered scope of t, defaulting to ScopeInstance.
func ScopeOf(t tag.Tag) TagScope {
	for _, info := range tagRegistry {
		if info.Tag == t {
			return info.Scope
		}
	}
	return ScopeInstance
}

// NameOf returns a printable keyword for t.
func NameOf(t tag.Tag) string {
	for _, info := range tagRegistry {
		if info.Tag == t {
			return info.Name
		}
	}
	if info, err := tag.Find(t); err == nil && info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// Dictionary resolves attribute names against the tag registry and the DICOM
// data dictionary.
type Dictionary struct{}

// ResolveName returns the tag a dictionary name stands for.
func (Dictionary) ResolveName(name string) (tag.Tag, error) {
	info, err := GetTagByName(name)
	if err != nil {
		return tag.Tag{}, err
	}
	return info.Tag, nil
}

// findClosestTagName finds the closest matching tag name using Levenshtein distance.
// Returns empty string if no close match is found (distance > 5).
func findClosestTagName(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	for key, info := range tagRegistry {
		distance := levenshteinDistance(input, key)
		if distance < bestDistance || (distance == bestDistance && info.Name < bestMatch) {
			bestDistance = distance
			bestMatch = info.Name
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
