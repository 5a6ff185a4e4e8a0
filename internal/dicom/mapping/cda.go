package mapping

import "github.com/mrsinham/docencap/internal/dicom/metadata"

// CDA maps an HL7 CDA R2 document to DICOM attributes (PS3.20 A.8).
var CDA = Schema{
	Name: "CDA",
	Root: "ClinicalDocument",
	Rules: []Rule{
		{Field: metadata.DocumentTitle, Scope: "title", Attribute: "title"},
		{Field: metadata.HL7InstanceIdentifier, Scope: "id", Format: FormatComposite, Components: []string{"root", "extension"}, Direct: true},
		{Field: metadata.ConceptCodeValue, Scope: "code", Attribute: "code", Direct: true},
		{Field: metadata.ConceptCodingScheme, Scope: "code", Attribute: "codeSystemName", Direct: true},
		{Field: metadata.ConceptCodeMeaning, Scope: "code", Attribute: "displayName", Direct: true},
		{Field: metadata.PatientName, Scope: "recordTarget/patientRole/patient/name", Format: FormatPersonName},
		{Field: metadata.PatientID, Scope: "recordTarget/patientRole/id", Attribute: "extension", Direct: true},
		{Field: metadata.PatientSex, Scope: "recordTarget/patientRole/patient/administrativeGenderCode", Attribute: "code", Direct: true},
		{Field: metadata.PatientBirthDate, Scope: "recordTarget/patientRole/patient/birthTime", Attribute: "value", Format: FormatDate, Direct: true},
		{Field: metadata.MediaTypes, Attribute: "mediaType"},
	},
}
