package doctype

import (
	"bytes"

	"github.com/mrsinham/docencap/internal/dicom/mapping"
	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/mrsinham/docencap/internal/util"
)

// CDAProfile encapsulates HL7 CDA documents.
type CDAProfile struct{}

func (p *CDAProfile) Class() Class { return CDA }

// SOPClassUID returns the Encapsulated CDA Storage SOP Class UID.
func (p *CDAProfile) SOPClassUID() string { return "1.2.840.10008.5.1.4.1.1.104.2" }

func (p *CDAProfile) Modality() string { return "DOC" }

func (p *CDAProfile) MIMEType() string { return "text/XML" }

// Validate only looks for markup; the root element is checked when the
// document is mapped.
func (p *CDAProfile) Validate(data []byte) error {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) == 0 {
		return &InvalidDocumentError{Class: CDA, Reason: "empty file"}
	}
	if trimmed[0] != '<' {
		return &InvalidDocumentError{Class: CDA, Reason: "not an XML document"}
	}
	return nil
}

func (p *CDAProfile) NeedsFrameOfReference() bool { return false }

func (p *CDAProfile) AppendClassElements(rec *record.Record, params Params) error {
	return rec.Set(util.BurnedInAnnotation, yesNo(params.Annotation))
}

// Schema returns the CDA field mapping table.
func (p *CDAProfile) Schema() mapping.Schema { return mapping.CDA }
