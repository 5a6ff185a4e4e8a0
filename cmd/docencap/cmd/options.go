package cmd

import (
	"github.com/mrsinham/docencap/internal/config"
	"github.com/mrsinham/docencap/internal/dicom"
	"github.com/mrsinham/docencap/internal/dicom/doctype"
	"github.com/mrsinham/docencap/internal/dicom/metadata"
	"github.com/mrsinham/docencap/internal/dicom/record"
)

// userFields collects the metadata given on the command line.
func userFields(cfg *config.Config) metadata.FieldSet {
	fields := metadata.FieldSet{}
	fields.Set(metadata.PatientName, cfg.PatientName)
	fields.Set(metadata.PatientID, cfg.PatientID)
	fields.Set(metadata.PatientBirthDate, cfg.PatientBirthDate)
	fields.Set(metadata.PatientSex, cfg.PatientSex)
	fields.Set(metadata.DocumentTitle, cfg.Title)
	fields.Set(metadata.ConceptCodeValue, cfg.ConceptValue)
	fields.Set(metadata.ConceptCodingScheme, cfg.ConceptScheme)
	fields.Set(metadata.ConceptCodeMeaning, cfg.ConceptMeaning)
	fields.Set(metadata.StudyInstanceUID, cfg.StudyUID)
	fields.Set(metadata.SeriesInstanceUID, cfg.SeriesUID)
	return fields
}

func buildOptions(cfg *config.Config) (dicom.Options, error) {
	ts, err := record.ParseTransferSyntax(cfg.TransferSyntax)
	if err != nil {
		return dicom.Options{}, err
	}
	return dicom.Options{
		Class:             cfg.Class,
		Input:             cfg.Input,
		Output:            cfg.Output,
		Fields:            userFields(cfg),
		StudyFrom:         cfg.StudyFrom,
		SeriesFrom:        cfg.SeriesFrom,
		InstanceIncrement: cfg.InstanceInc,
		InstanceNumber:    cfg.Instance,
		PreferDocument:    cfg.Override,
		Annotation:        cfg.Annotation,
		Device: doctype.Device{
			Manufacturer:     cfg.Manufacturer,
			Model:            cfg.ManufacturerModel,
			SerialNumber:     cfg.DeviceSerial,
			SoftwareVersions: cfg.SoftwareVersions,
			MeasurementUnits: cfg.MeasurementUnits,
		},
		OverrideKeys:   cfg.Keys,
		TransferSyntax: ts,
	}, nil
}
