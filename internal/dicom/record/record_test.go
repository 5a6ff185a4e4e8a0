package record

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrsinham/docencap/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func TestRecord_SetAndGet(t *testing.T) {
	r := New()
	require.NoError(t, r.Set(tag.PatientName, "Doe^John"))
	require.NoError(t, r.SetValue(tag.PatientID, `A\B`))
	require.NoError(t, r.Set(tag.InstanceNumber, "7"))

	name, ok := r.String(tag.PatientName)
	assert.True(t, ok)
	assert.Equal(t, "Doe^John", name)

	assert.Equal(t, []string{"A", "B"}, r.Strings(tag.PatientID))

	n, ok := r.Int(tag.InstanceNumber)
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = r.String(tag.StudyDescription)
	assert.False(t, ok)
	assert.False(t, r.Has(tag.StudyDescription))
}

func TestRecord_SetReplaces(t *testing.T) {
	r := New()
	require.NoError(t, r.Set(tag.PatientID, "first"))
	require.NoError(t, r.Set(tag.PatientID, "second"))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"second"}, r.Strings(tag.PatientID))
}

func TestRecord_SetConvertsByVR(t *testing.T) {
	r := New()

	require.NoError(t, r.SetValue(util.EncapsulatedDocumentLength, "42"))
	el, ok := r.Find(util.EncapsulatedDocumentLength)
	require.True(t, ok)
	assert.Equal(t, []int{42}, el.Value.GetValue())

	err := r.SetValue(util.EncapsulatedDocumentLength, "forty-two")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")

	err = r.SetValue(util.ConceptNameCodeSequence, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence")
}

func TestRecord_UnknownTagIsUN(t *testing.T) {
	r := New()
	private := tag.Tag{Group: 0x0009, Element: 0x1001}
	require.NoError(t, r.SetValue(private, "opaque"))

	el, ok := r.Find(private)
	require.True(t, ok)
	assert.Equal(t, "UN", el.RawValueRepresentation)
	assert.Equal(t, []byte("opaque"), el.Value.GetValue())
}

func TestRecord_Clear(t *testing.T) {
	r := New()
	require.NoError(t, r.Set(tag.PatientName, "Doe^John"))

	assert.True(t, r.Clear(tag.PatientName))
	assert.True(t, r.Has(tag.PatientName))
	_, ok := r.String(tag.PatientName)
	assert.False(t, ok)

	assert.False(t, r.Clear(tag.StudyDescription))
	assert.False(t, r.Has(tag.StudyDescription))
}

func TestRecord_SetPathCreatesItems(t *testing.T) {
	r := New()
	path := []Step{
		{Tag: util.ConceptNameCodeSequence, Item: 1},
		{Tag: tag.CodeValue},
	}
	require.NoError(t, r.SetPath(path, "11488-4"))

	items := r.Items(util.ConceptNameCodeSequence)
	require.Len(t, items, 2)
	assert.Empty(t, items[0])

	item := FromDataset(dicom.Dataset{Elements: items[1]})
	v, ok := item.String(tag.CodeValue)
	assert.True(t, ok)
	assert.Equal(t, "11488-4", v)
}

func TestRecord_SetPathKeepsSiblings(t *testing.T) {
	r := New()
	require.NoError(t, r.SetPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: 0}, {Tag: tag.CodeValue}}, "1"))
	require.NoError(t, r.SetPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: 0}, {Tag: tag.CodeMeaning}}, "Note"))

	items := r.Items(util.ConceptNameCodeSequence)
	require.Len(t, items, 1)
	item := FromDataset(dicom.Dataset{Elements: items[0]})
	assert.Equal(t, []string{"1"}, item.Strings(tag.CodeValue))
	assert.Equal(t, []string{"Note"}, item.Strings(tag.CodeMeaning))
}

func TestRecord_SetPathWildcard(t *testing.T) {
	r := New()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.SetPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: i}, {Tag: tag.CodeValue}}, "old"))
	}
	require.NoError(t, r.SetPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: AllItems}, {Tag: tag.CodeValue}}, "new"))

	items := r.Items(util.ConceptNameCodeSequence)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, []string{"new"}, FromDataset(dicom.Dataset{Elements: item}).Strings(tag.CodeValue))
	}

	empty := New()
	require.NoError(t, empty.SetPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: AllItems}, {Tag: tag.CodeValue}}, "x"))
	assert.False(t, empty.Has(util.ConceptNameCodeSequence))
}

func TestRecord_SetPathThroughNonSequence(t *testing.T) {
	r := New()
	require.NoError(t, r.Set(tag.PatientName, "Doe"))
	err := r.SetPath([]Step{{Tag: tag.PatientName, Item: 0}, {Tag: tag.CodeValue}}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a sequence")
}

func TestRecord_SetPathIndexBound(t *testing.T) {
	r := New()
	err := r.SetPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: MaxItemIndex + 1}, {Tag: tag.CodeValue}}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid item index")
	assert.False(t, r.Has(util.ConceptNameCodeSequence))

	require.NoError(t, r.SetPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: 2}, {Tag: tag.CodeValue}}, "x"))
	assert.Len(t, r.Items(util.ConceptNameCodeSequence), 3)
}

func TestRecord_ClearPathThroughNonSequence(t *testing.T) {
	r := New()
	require.NoError(t, r.Set(tag.PatientName, "Doe"))
	require.NoError(t, r.ClearPath([]Step{{Tag: tag.PatientName, Item: 0}, {Tag: tag.CodeValue}}))
	v, _ := r.String(tag.PatientName)
	assert.Equal(t, "Doe", v)
}

func TestRecord_ClearPath(t *testing.T) {
	r := New()
	path := []Step{{Tag: util.ConceptNameCodeSequence, Item: 0}, {Tag: tag.CodeValue}}

	require.NoError(t, r.ClearPath(path))
	assert.False(t, r.Has(util.ConceptNameCodeSequence))

	require.NoError(t, r.SetPath(path, "1"))
	require.NoError(t, r.ClearPath(path))
	items := r.Items(util.ConceptNameCodeSequence)
	require.Len(t, items, 1)
	item := FromDataset(dicom.Dataset{Elements: items[0]})
	assert.True(t, item.Has(tag.CodeValue))
	assert.Empty(t, item.Strings(tag.CodeValue))

	require.NoError(t, r.ClearPath([]Step{{Tag: util.ConceptNameCodeSequence, Item: 5}, {Tag: tag.CodeValue}}))
	assert.Len(t, r.Items(util.ConceptNameCodeSequence), 1)
}

func TestParseTransferSyntax(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", ExplicitVRLittleEndian},
		{"little", ExplicitVRLittleEndian},
		{"IMPLICIT", ImplicitVRLittleEndian},
		{"big", ExplicitVRBigEndian},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTransferSyntax(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseTransferSyntax("jpeg")
	assert.Error(t, err)
}

func sampleRecord(t *testing.T) *Record {
	t.Helper()
	r := New()
	require.NoError(t, r.Set(tag.SOPClassUID, "1.2.840.10008.5.1.4.1.1.104.1"))
	require.NoError(t, r.Set(tag.SOPInstanceUID, "2.25.1"))
	require.NoError(t, r.Set(tag.StudyInstanceUID, "2.25.2"))
	require.NoError(t, r.Set(tag.PatientName, "Doe^John"))
	require.NoError(t, r.Set(tag.Modality, "DOC"))
	require.NoError(t, r.SetBytes(util.EncapsulatedDocument, []byte("%PDF-1.4\n")))
	return r
}

func TestRecord_WriteRoundTrip(t *testing.T) {
	for _, ts := range []string{ExplicitVRLittleEndian, ImplicitVRLittleEndian, ExplicitVRBigEndian} {
		t.Run(ts, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, sampleRecord(t).Write(&buf, Encoding{TransferSyntax: ts}))

			ds, err := dicom.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()), nil, dicom.SkipPixelData())
			require.NoError(t, err)
			got := FromDataset(ds)

			v, _ := got.String(tag.TransferSyntaxUID)
			assert.Equal(t, ts, v)
			v, _ = got.String(tag.MediaStorageSOPClassUID)
			assert.Equal(t, "1.2.840.10008.5.1.4.1.1.104.1", v)
			v, _ = got.String(tag.MediaStorageSOPInstanceUID)
			assert.Equal(t, "2.25.1", v)
			v, _ = got.String(tag.PatientName)
			assert.Equal(t, "Doe^John", v)
		})
	}
}

func TestRecord_WriteFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "doc.dcm")

	require.NoError(t, sampleRecord(t).WriteFile(out, Encoding{}))

	got, err := ReadFile(out)
	require.NoError(t, err)
	v, _ := got.String(tag.SOPInstanceUID)
	assert.Equal(t, "2.25.1", v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")
}

func TestRecord_WriteFileFailureLeavesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "doc.dcm")
	require.Error(t, sampleRecord(t).WriteFile(out, Encoding{}))
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.dcm"))
	assert.Error(t, err)
}
