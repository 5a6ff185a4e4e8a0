package doctype

import (
	"bytes"

	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/mrsinham/docencap/internal/util"
)

// pdfHeaderWindow is how far into the file the %PDF- marker may appear.
const pdfHeaderWindow = 1024

// PDFProfile encapsulates PDF documents.
type PDFProfile struct{}

func (p *PDFProfile) Class() Class { return PDF }

// SOPClassUID returns the Encapsulated PDF Storage SOP Class UID.
func (p *PDFProfile) SOPClassUID() string { return "1.2.840.10008.5.1.4.1.1.104.1" }

func (p *PDFProfile) Modality() string { return "DOC" }

func (p *PDFProfile) MIMEType() string { return "application/pdf" }

func (p *PDFProfile) Validate(data []byte) error {
	head := data
	if len(head) > pdfHeaderWindow {
		head = head[:pdfHeaderWindow]
	}
	if !bytes.Contains(head, []byte("%PDF-")) {
		return &InvalidDocumentError{Class: PDF, Reason: "no %PDF- header"}
	}
	return nil
}

func (p *PDFProfile) NeedsFrameOfReference() bool { return false }

func (p *PDFProfile) AppendClassElements(rec *record.Record, params Params) error {
	return rec.Set(util.BurnedInAnnotation, yesNo(params.Annotation))
}
