package util

import "github.com/suyashkumar/dicom/pkg/tag"

// Encapsulated document attributes. Declared here rather than taken from the
// dictionary package because older dictionary revisions lack several of them.
var (
	DocumentTitle                  = tag.Tag{Group: 0x0042, Element: 0x0010}
	EncapsulatedDocument           = tag.Tag{Group: 0x0042, Element: 0x0011}
	MIMETypeOfEncapsulatedDocument = tag.Tag{Group: 0x0042, Element: 0x0012}
	ListOfMIMETypes                = tag.Tag{Group: 0x0042, Element: 0x0014}
	EncapsulatedDocumentLength     = tag.Tag{Group: 0x0042, Element: 0x0015}
	HL7InstanceIdentifier          = tag.Tag{Group: 0x0040, Element: 0xE001}
	ConceptNameCodeSequence        = tag.Tag{Group: 0x0040, Element: 0xA043}
	MeasurementUnitsCodeSequence   = tag.Tag{Group: 0x0040, Element: 0x08EA}
	BurnedInAnnotation             = tag.Tag{Group: 0x0028, Element: 0x0301}
	ConversionType                 = tag.Tag{Group: 0x0008, Element: 0x0064}
	AcquisitionDateTime            = tag.Tag{Group: 0x0008, Element: 0x002A}
)

// fallbackVRs holds the value representation of tags that may be missing from
// the dictionary package.
var fallbackVRs = map[tag.Tag]string{
	DocumentTitle:                  "ST",
	EncapsulatedDocument:           "OB",
	MIMETypeOfEncapsulatedDocument: "LO",
	ListOfMIMETypes:                "LO",
	EncapsulatedDocumentLength:     "UL",
	HL7InstanceIdentifier:          "ST",
	ConceptNameCodeSequence:        "SQ",
	MeasurementUnitsCodeSequence:   "SQ",
	BurnedInAnnotation:             "CS",
	ConversionType:                 "CS",
	AcquisitionDateTime:            "DT",
}

// FallbackVR returns the value representation to use for t when the
// dictionary does not know it.
func FallbackVR(t tag.Tag) (string, bool) {
	vr, ok := fallbackVRs[t]
	return vr, ok
}
