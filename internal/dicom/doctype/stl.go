package doctype

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/mrsinham/docencap/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50
)

// DefaultMeasurementUnits is the UCUM unit assumed for STL coordinates.
const DefaultMeasurementUnits = "mm"

var measurementUnits = map[string]string{
	"um": "micrometer",
	"mm": "millimeter",
	"cm": "centimeter",
	"m":  "meter",
}

// MeasurementUnitMeaning returns the code meaning of a supported UCUM unit.
func MeasurementUnitMeaning(code string) (string, bool) {
	meaning, ok := measurementUnits[code]
	return meaning, ok
}

// STLProfile encapsulates STL 3D models.
type STLProfile struct{}

func (p *STLProfile) Class() Class { return STL }

// SOPClassUID returns the Encapsulated STL Storage SOP Class UID.
func (p *STLProfile) SOPClassUID() string { return "1.2.840.10008.5.1.4.1.1.104.3" }

func (p *STLProfile) Modality() string { return "M3D" }

func (p *STLProfile) MIMEType() string { return "model/stl" }

// Validate accepts binary STL whose size matches its triangle count and
// ASCII STL framed by solid/endsolid.
func (p *STLProfile) Validate(data []byte) error {
	if len(data) >= stlHeaderSize+4 {
		n := binary.LittleEndian.Uint32(data[stlHeaderSize : stlHeaderSize+4])
		if uint64(len(data)) == uint64(stlHeaderSize+4)+uint64(n)*stlTriangleSize {
			return nil
		}
	}
	text := bytes.TrimSpace(data)
	if bytes.HasPrefix(text, []byte("solid")) && bytes.Contains(text, []byte("endsolid")) {
		return nil
	}
	return &InvalidDocumentError{Class: STL, Reason: "neither binary nor ASCII STL"}
}

func (p *STLProfile) NeedsFrameOfReference() bool { return true }

func (p *STLProfile) AppendClassElements(rec *record.Record, params Params) error {
	dev := params.Device
	units := dev.MeasurementUnits
	if units == "" {
		units = DefaultMeasurementUnits
	}
	meaning, ok := MeasurementUnitMeaning(units)
	if !ok {
		return fmt.Errorf("unsupported measurement units %q", units)
	}

	if err := rec.Set(tag.Manufacturer, dev.Manufacturer); err != nil {
		return err
	}
	if err := rec.Set(tag.ManufacturerModelName, dev.Model); err != nil {
		return err
	}
	if err := rec.Set(tag.DeviceSerialNumber, dev.SerialNumber); err != nil {
		return err
	}
	if err := rec.Set(tag.SoftwareVersions, dev.SoftwareVersions...); err != nil {
		return err
	}
	if err := rec.Set(tag.FrameOfReferenceUID, params.FrameOfReferenceUID); err != nil {
		return err
	}
	if err := rec.Set(tag.PositionReferenceIndicator); err != nil {
		return err
	}

	item, err := codeItem(units, "UCUM", meaning)
	if err != nil {
		return err
	}
	return rec.SetItems(util.MeasurementUnitsCodeSequence, item)
}

func codeItem(value, scheme, meaning string) ([]*dicom.Element, error) {
	var elems []*dicom.Element
	for _, e := range []struct {
		t tag.Tag
		v string
	}{
		{tag.CodeValue, value},
		{tag.CodingSchemeDesignator, scheme},
		{tag.CodeMeaning, meaning},
	} {
		el, err := record.NewElement(e.t, []string{e.v})
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	return elems, nil
}
