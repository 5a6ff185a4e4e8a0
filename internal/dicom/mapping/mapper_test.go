package mapping

import (
	"errors"
	"testing"

	"github.com/mrsinham/docencap/internal/dicom/metadata"
	"github.com/mrsinham/docencap/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const consultationNote = `<?xml version="1.0"?>
<ClinicalDocument xmlns="urn:hl7-org:v3">
  <id root="2.16.840.1.113883.19.4" extension="c266"/>
  <code code="11488-4" codeSystem="2.16.840.1.113883.6.1" codeSystemName="LOINC" displayName="Consultation note"/>
  <title>Good Health Clinic Consultation Note</title>
  <recordTarget>
    <patientRole>
      <id extension="12345" root="2.16.840.1.113883.19.5"/>
      <id extension="998877" root="2.16.840.1.113883.4.1"/>
      <patient>
        <name>
          <prefix>Dr</prefix>
          <given>John</given>
          <given>Quincy</given>
          <family>Doe</family>
        </name>
        <administrativeGenderCode code="M" codeSystem="2.16.840.1.113883.5.1"/>
        <birthTime value="19541125103000"/>
      </patient>
    </patientRole>
  </recordTarget>
  <component>
    <structuredBody>
      <component>
        <section>
          <title>History</title>
          <entry><observationMedia mediaType="image/jpeg"/></entry>
          <entry><observationMedia mediaType="application/pdf"/></entry>
        </section>
      </component>
    </structuredBody>
  </component>
</ClinicalDocument>`

func parse(t *testing.T, doc string) source.Node {
	t.Helper()
	root, err := source.ParseXML([]byte(doc))
	require.NoError(t, err)
	return root
}

func TestMap_CDA(t *testing.T) {
	got, err := Map(parse(t, consultationNote), CDA, metadata.DocumentTitle)
	require.NoError(t, err)

	want := metadata.FieldSet{
		metadata.DocumentTitle:         "Good Health Clinic Consultation Note",
		metadata.HL7InstanceIdentifier: "2.16.840.1.113883.19.4^c266",
		metadata.ConceptCodeValue:      "11488-4",
		metadata.ConceptCodingScheme:   "LOINC",
		metadata.ConceptCodeMeaning:    "Consultation note",
		metadata.PatientName:           "Doe^John^Quincy^Dr",
		metadata.PatientID:             `12345\\998877`,
		metadata.PatientSex:            "M",
		metadata.PatientBirthDate:      "19541125",
		metadata.MediaTypes:            `image/jpeg\\application/pdf`,
	}
	assert.Equal(t, want, got)
}

func TestMap_MinimalDocument(t *testing.T) {
	doc := `<ClinicalDocument><recordTarget><patientRole><patient><name><given>John</given><family>Doe</family></name></patient></patientRole></recordTarget></ClinicalDocument>`

	got, err := Map(parse(t, doc), CDA)
	require.NoError(t, err)
	assert.Equal(t, metadata.FieldSet{metadata.PatientName: "Doe^John"}, got)
}

func TestMap_MissingRequiredField(t *testing.T) {
	doc := `<ClinicalDocument><id root="1.2"/></ClinicalDocument>`

	_, err := Map(parse(t, doc), CDA, metadata.DocumentTitle)
	require.Error(t, err)

	var missing *MissingRequiredFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, metadata.DocumentTitle, missing.Field)
}

func TestMap_AbsentFieldsUnset(t *testing.T) {
	got, err := Map(parse(t, `<ClinicalDocument><id root="1.2"/></ClinicalDocument>`), CDA)
	require.NoError(t, err)
	assert.Equal(t, metadata.FieldSet{metadata.HL7InstanceIdentifier: "1.2"}, got)
}

func TestMap_WrongRoot(t *testing.T) {
	_, err := Map(parse(t, `<html><title>x</title></html>`), CDA)
	assert.ErrorContains(t, err, "ClinicalDocument")
}

func TestMap_CustomSchema(t *testing.T) {
	schema := Schema{
		Name: "test",
		Rules: []Rule{
			{Field: metadata.DocumentTitle, Attribute: "heading"},
			{Field: metadata.PatientBirthDate, Scope: "person", Attribute: "born", Format: FormatDate},
		},
	}
	root := source.NewElement("doc", "",
		source.NewElement("heading", "One"),
		source.NewElement("person", "", source.NewElement("born", "2001")),
		source.NewElement("heading", "Two"),
	)

	got, err := Map(root, schema)
	require.NoError(t, err)
	assert.Equal(t, `One\\Two`, got.Value(metadata.DocumentTitle))
	assert.Equal(t, "2001", got.Value(metadata.PatientBirthDate))
}

func TestMap_CodeIgnoresNestedElements(t *testing.T) {
	doc := `<ClinicalDocument>
  <id root="1.2.3" extension="e1"><assigningAuthority root="9.9"/></id>
  <code code="11488-4" codeSystemName="LOINC" displayName="Consultation note">
    <translation code="X-1" codeSystemName="LOCAL" displayName="Local note"/>
  </code>
</ClinicalDocument>`

	got, err := Map(parse(t, doc), CDA)
	require.NoError(t, err)
	assert.Equal(t, "11488-4", got.Value(metadata.ConceptCodeValue))
	assert.Equal(t, "LOINC", got.Value(metadata.ConceptCodingScheme))
	assert.Equal(t, "Consultation note", got.Value(metadata.ConceptCodeMeaning))
	assert.Equal(t, "1.2.3^e1", got.Value(metadata.HL7InstanceIdentifier))
}

func TestMap_TrimsElementText(t *testing.T) {
	doc := `<ClinicalDocument>
  <title>
    Discharge Summary
  </title>
  <recordTarget><patientRole><patient><name>
    <given> Jane </given>
    <family>Roe</family>
  </name></patient></patientRole></recordTarget>
</ClinicalDocument>`

	got, err := Map(parse(t, doc), CDA)
	require.NoError(t, err)
	assert.Equal(t, "Discharge Summary", got.Value(metadata.DocumentTitle))
	assert.Equal(t, "Roe^Jane", got.Value(metadata.PatientName))
}
