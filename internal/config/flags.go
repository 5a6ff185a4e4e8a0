package config

import (
	"github.com/mrsinham/docencap/internal/dicom/doctype"
	"github.com/spf13/pflag"
)

// AddGeneralFlags registers the flags shared by every command.
func AddGeneralFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	fs.String("log-file", "", "Also write logs to this file (rotated)")
	fs.String("log-format", "console", "Log format (console, json)")
	fs.String("config", "", "Read settings from a YAML file")
	fs.String("save-config", "", "Write the effective settings to a YAML file")
	fs.String("uid-root", "", "UID root for generated identifiers (default 2.25)")
	fs.Bool("interactive", false, "Prompt for missing patient and document fields")
}

// AddDocumentFlags registers the metadata, series and encoding flags plus
// the flags specific to class.
func AddDocumentFlags(fs *pflag.FlagSet, class doctype.Class) {
	fs.String("patient-name", "", "Patient name (Family^Given^Middle^Prefix^Suffix)")
	fs.String("patient-id", "", "Patient ID")
	fs.String("patient-birthdate", "", "Patient birth date (YYYYMMDD)")
	fs.String("patient-sex", "", "Patient sex (M, F, O)")
	fs.String("title", "", "Document title")
	fs.String("concept-value", "", "Document concept name code value")
	fs.String("concept-scheme", "", "Document concept name coding scheme designator")
	fs.String("concept-meaning", "", "Document concept name code meaning")
	fs.String("study-uid", "", "Study instance UID")
	fs.String("series-uid", "", "Series instance UID")
	fs.String("study-from", "", "Join the study of this DICOM file")
	fs.String("series-from", "", "Join the series of this DICOM file")
	fs.Bool("instance-inc", false, "Use the reference file's instance number plus one")
	fs.Int("instance", 1, "Instance number")
	fs.StringArrayP("key", "k", nil, `Override an attribute after all other processing: "tag=value" or "tag" to clear (repeatable)`)
	fs.String("transfer-syntax", "little", "Output transfer syntax (little, implicit, big)")

	switch class {
	case doctype.CDA:
		fs.Bool("override", false, "Let document values win conflicts with the reference file")
		fs.Bool("annotation", true, "Document shows patient identifying information")
	case doctype.PDF:
		fs.Bool("annotation", true, "Document shows patient identifying information")
	case doctype.STL:
		fs.String("manufacturer", "", "Manufacturer of the device that made the model")
		fs.String("manufacturer-model", "", "Model name of the device")
		fs.String("device-serial", "", "Serial number of the device")
		fs.StringSlice("software-versions", nil, "Software versions of the device")
		fs.String("measurement-units", doctype.DefaultMeasurementUnits, "UCUM unit of the model coordinates (um, mm, cm, m)")
	}
}
