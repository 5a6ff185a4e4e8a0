// Package doctype describes the document classes that can be encapsulated.
package doctype

import (
	"fmt"
	"strings"

	"github.com/mrsinham/docencap/internal/dicom/mapping"
	"github.com/mrsinham/docencap/internal/dicom/record"
)

// Class is an encapsulated document class.
type Class string

const (
	CDA Class = "cda" // HL7 Clinical Document Architecture
	PDF Class = "pdf" // Portable Document Format
	STL Class = "stl" // Stereolithography 3D model
)

// AllClasses returns all supported classes.
func AllClasses() []Class {
	return []Class{CDA, PDF, STL}
}

// IsValid checks if a class string is valid.
func IsValid(c string) bool {
	for _, valid := range AllClasses() {
		if string(valid) == c {
			return true
		}
	}
	return false
}

// ParseClass returns the class named by s, case-insensitively.
func ParseClass(s string) (Class, error) {
	c := strings.ToLower(strings.TrimSpace(s))
	if !IsValid(c) {
		return "", fmt.Errorf("unknown document class %q, valid classes: %v", s, AllClasses())
	}
	return Class(c), nil
}

// Device describes the equipment that produced a 3D model.
type Device struct {
	Manufacturer     string
	Model            string
	SerialNumber     string
	SoftwareVersions []string
	// MeasurementUnits is the UCUM code of the model's coordinates.
	MeasurementUnits string
}

// Params carries the class specific options of one run.
type Params struct {
	// Annotation records whether the document shows patient identifying
	// information.
	Annotation          bool
	Device              Device
	FrameOfReferenceUID string
}

// InvalidDocumentError is returned when the input does not look like a
// document of the requested class.
type InvalidDocumentError struct {
	Class  Class
	Reason string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("input is not a valid %s document: %s", strings.ToUpper(string(e.Class)), e.Reason)
}

// Profile defines what is specific to a document class.
type Profile interface {
	// Class returns the document class.
	Class() Class

	// SOPClassUID returns the encapsulated document storage SOP class.
	SOPClassUID() string

	// Modality returns the Modality attribute value.
	Modality() string

	// MIMEType returns MIMETypeOfEncapsulatedDocument.
	MIMEType() string

	// Validate checks that data looks like a document of this class.
	Validate(data []byte) error

	// NeedsFrameOfReference reports whether the record carries a frame of
	// reference UID.
	NeedsFrameOfReference() bool

	// AppendClassElements writes the class specific attributes.
	AppendClassElements(rec *record.Record, params Params) error
}

// Mapped is a profile whose documents carry metadata the pipeline extracts.
type Mapped interface {
	Profile
	Schema() mapping.Schema
}

// Get returns the profile for c.
func Get(c Class) (Profile, error) {
	switch c {
	case CDA:
		return &CDAProfile{}, nil
	case PDF:
		return &PDFProfile{}, nil
	case STL:
		return &STLProfile{}, nil
	default:
		return nil, fmt.Errorf("unknown document class %q", c)
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
