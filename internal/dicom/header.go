package dicom

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mrsinham/docencap/internal/dicom/doctype"
	"github.com/mrsinham/docencap/internal/dicom/identifiers"
	"github.com/mrsinham/docencap/internal/dicom/metadata"
	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/mrsinham/docencap/internal/source"
	"github.com/mrsinham/docencap/internal/util"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// HeaderWriteError is returned when the record rejects a header value.
type HeaderWriteError struct {
	Field string
	Err   error
}

func (e *HeaderWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Field, e.Err)
}

func (e *HeaderWriteError) Unwrap() error { return e.Err }

// Attributes that must be present even when empty (type 2).
var emptyHeaderTags = []tag.Tag{
	tag.PatientName,
	tag.PatientID,
	tag.PatientBirthDate,
	tag.PatientSex,
	tag.ReferringPhysicianName,
	tag.StudyID,
	tag.AccessionNumber,
	tag.SeriesNumber,
	util.DocumentTitle,
}

// conceptFields go into the single ConceptNameCodeSequence item.
var conceptFields = []metadata.Field{
	metadata.ConceptCodeValue,
	metadata.ConceptCodingScheme,
	metadata.ConceptCodeMeaning,
}

// Assemble writes fields, identifiers and media types into rec. Multi-valued
// fields become multi-valued attributes. Study and series UIDs come from ids,
// never from fields.
func Assemble(rec *record.Record, fields metadata.FieldSet, ids identifiers.Identifiers, mediaTypes []string) error {
	for _, f := range fields.Fields() {
		switch f {
		case metadata.ConceptCodeValue, metadata.ConceptCodingScheme, metadata.ConceptCodeMeaning,
			metadata.StudyInstanceUID, metadata.SeriesInstanceUID, metadata.MediaTypes:
			continue
		}
		if err := rec.Set(f.Tag(), source.SplitValues(fields.Value(f))...); err != nil {
			return &HeaderWriteError{Field: f.String(), Err: err}
		}
	}

	item := record.New()
	for _, f := range conceptFields {
		if v, ok := fields.Get(f); ok {
			if err := item.Set(f.Tag(), source.SplitValues(v)...); err != nil {
				return &HeaderWriteError{Field: f.String(), Err: err}
			}
		}
	}
	if item.Len() > 0 {
		if err := rec.SetItems(util.ConceptNameCodeSequence, item.Dataset().Elements); err != nil {
			return &HeaderWriteError{Field: "ConceptNameCodeSequence", Err: err}
		}
	}

	for _, w := range []struct {
		field string
		tag   tag.Tag
		value string
	}{
		{"StudyInstanceUID", tag.StudyInstanceUID, ids.StudyInstanceUID},
		{"SeriesInstanceUID", tag.SeriesInstanceUID, ids.SeriesInstanceUID},
		{"SOPInstanceUID", tag.SOPInstanceUID, ids.SOPInstanceUID},
		{"InstanceNumber", tag.InstanceNumber, strconv.Itoa(ids.InstanceNumber)},
	} {
		if err := rec.Set(w.tag, w.value); err != nil {
			return &HeaderWriteError{Field: w.field, Err: err}
		}
	}

	if len(mediaTypes) > 0 {
		if err := rec.Set(util.ListOfMIMETypes, mediaTypes...); err != nil {
			return &HeaderWriteError{Field: "ListOfMIMETypes", Err: err}
		}
	}
	return nil
}

// writeGeneralHeader writes the class independent attributes and the empty
// type 2 attributes later steps may fill in.
func writeGeneralHeader(rec *record.Record, profile doctype.Profile, now time.Time) error {
	date := now.Format("20060102")
	clock := now.Format("150405")

	for _, w := range []struct {
		tag   tag.Tag
		value string
	}{
		{tag.SpecificCharacterSet, "ISO_IR 192"},
		{tag.SOPClassUID, profile.SOPClassUID()},
		{tag.Modality, profile.Modality()},
		{util.ConversionType, "WSD"},
		{tag.InstanceCreationDate, date},
		{tag.InstanceCreationTime, clock},
		{tag.StudyDate, date},
		{tag.StudyTime, clock},
		{tag.ContentDate, date},
		{tag.ContentTime, clock},
		{util.AcquisitionDateTime, date + clock},
	} {
		if err := rec.Set(w.tag, w.value); err != nil {
			return &HeaderWriteError{Field: util.NameOf(w.tag), Err: err}
		}
	}

	for _, t := range emptyHeaderTags {
		if err := rec.Set(t); err != nil {
			return &HeaderWriteError{Field: util.NameOf(t), Err: err}
		}
	}
	if err := rec.SetItems(util.ConceptNameCodeSequence); err != nil {
		return &HeaderWriteError{Field: "ConceptNameCodeSequence", Err: err}
	}
	return nil
}

// insertDocument stores the document bytes, padded to even length, with its
// unpadded length and MIME type.
func insertDocument(rec *record.Record, profile doctype.Profile, data []byte) error {
	padded := data
	if len(padded)%2 != 0 {
		padded = append(append(make([]byte, 0, len(data)+1), data...), 0x00)
	}
	if err := rec.SetBytes(util.EncapsulatedDocument, padded); err != nil {
		return &HeaderWriteError{Field: "EncapsulatedDocument", Err: err}
	}
	if err := rec.SetInts(util.EncapsulatedDocumentLength, len(data)); err != nil {
		return &HeaderWriteError{Field: "EncapsulatedDocumentLength", Err: err}
	}
	if err := rec.Set(util.MIMETypeOfEncapsulatedDocument, profile.MIMEType()); err != nil {
		return &HeaderWriteError{Field: "MIMETypeOfEncapsulatedDocument", Err: err}
	}
	return nil
}
