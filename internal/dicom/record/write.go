package record

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrsinham/docencap/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Transfer syntax UIDs the encoder can produce.
const (
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"
	ImplicitVRLittleEndian = "1.2.840.10008.1.2"
	ExplicitVRBigEndian    = "1.2.840.10008.1.2.2"
)

// ImplementationVersionName identifies the writer in the file meta header.
const ImplementationVersionName = "DOCENCAP_1"

var implementationClassUID = util.GenerateDeterministicUID("docencap")

// Encoding controls how a record is serialized.
type Encoding struct {
	// TransferSyntax is a transfer syntax UID. Empty means explicit VR
	// little endian.
	TransferSyntax string
}

// ParseTransferSyntax maps a CLI name (little, implicit, big) to its UID.
func ParseTransferSyntax(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "little", "explicit":
		return ExplicitVRLittleEndian, nil
	case "implicit":
		return ImplicitVRLittleEndian, nil
	case "big":
		return ExplicitVRBigEndian, nil
	default:
		return "", fmt.Errorf("unknown transfer syntax %q (expected little, implicit or big)", name)
	}
}

// Write encodes the record as a DICOM file. File meta information is derived
// from the SOP common attributes and elements are written in tag order.
func (r *Record) Write(w io.Writer, enc Encoding) error {
	ts := enc.TransferSyntax
	if ts == "" {
		ts = ExplicitVRLittleEndian
	}

	out := &Record{elements: append([]*dicom.Element(nil), r.elements...)}
	if err := out.Set(tag.TransferSyntaxUID, ts); err != nil {
		return err
	}
	if !out.Has(tag.FileMetaInformationVersion) {
		if err := out.SetBytes(tag.FileMetaInformationVersion, []byte{0x00, 0x01}); err != nil {
			return err
		}
	}
	if err := out.Set(tag.ImplementationClassUID, implementationClassUID); err != nil {
		return err
	}
	if err := out.Set(tag.ImplementationVersionName, ImplementationVersionName); err != nil {
		return err
	}
	if v, ok := out.String(tag.SOPClassUID); ok {
		if err := out.Set(tag.MediaStorageSOPClassUID, v); err != nil {
			return err
		}
	}
	if v, ok := out.String(tag.SOPInstanceUID); ok {
		if err := out.Set(tag.MediaStorageSOPInstanceUID, v); err != nil {
			return err
		}
	}

	if err := dicom.Write(w, out.Dataset(), dicom.SkipVRVerification()); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// WriteFile writes the record to path through a temporary file in the same
// directory, so a failed write leaves no file behind.
func (r *Record) WriteFile(path string, enc Encoding) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary output: %w", err)
	}
	tmpName := tmp.Name()

	if err := r.Write(tmp, enc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temporary output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// ReadFile parses a DICOM file without its pixel data.
func ReadFile(path string) (*Record, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return FromDataset(ds), nil
}
