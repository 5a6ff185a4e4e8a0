package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(kv ...any) FieldSet {
	fs := FieldSet{}
	for i := 0; i < len(kv); i += 2 {
		fs.Set(kv[i].(Field), kv[i+1].(string))
	}
	return fs
}

func TestResolve_DocumentReferenceConflict(t *testing.T) {
	doc := fields(DocumentTitle, "X")
	ref := fields(DocumentTitle, "Y")

	_, err := Resolve(doc, ref, nil)
	require.Error(t, err)

	var conflict *MetadataConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, DocumentTitle, conflict.Field)
	assert.Equal(t, "X", conflict.DocumentValue)
	assert.Equal(t, "Y", conflict.ReferenceValue)
	assert.Contains(t, err.Error(), "DocumentTitle")
}

func TestResolve_UserWins(t *testing.T) {
	doc := fields(DocumentTitle, "X")
	ref := fields(DocumentTitle, "Y")
	user := fields(DocumentTitle, "Z")

	got, err := Resolve(doc, ref, user)
	require.NoError(t, err)
	assert.Equal(t, "Z", got.Value(DocumentTitle))

	got, err = Resolve(nil, nil, user)
	require.NoError(t, err)
	assert.Equal(t, "Z", got.Value(DocumentTitle))
}

func TestResolve_PresentOneWins(t *testing.T) {
	doc := fields(PatientName, "Doe^John", PatientSex, "M")
	ref := fields(PatientID, "PID1", StudyInstanceUID, "1.2.3", PatientSex, "M")

	got, err := Resolve(doc, ref, nil)
	require.NoError(t, err)
	assert.Equal(t, FieldSet{
		PatientName:      "Doe^John",
		PatientSex:       "M",
		PatientID:        "PID1",
		StudyInstanceUID: "1.2.3",
	}, got)
	assert.False(t, got.Has(DocumentTitle))
}

func TestResolve_AllConflictsReported(t *testing.T) {
	doc := fields(PatientID, "A", PatientSex, "F")
	ref := fields(PatientID, "B", PatientSex, "M")

	_, err := Resolve(doc, ref, fields(PatientSex, "O"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PatientID")
	assert.NotContains(t, err.Error(), "PatientSex")

	_, err = Resolve(doc, ref, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PatientID")
	assert.Contains(t, err.Error(), "PatientSex")
}

func TestResolve_PreferDocument(t *testing.T) {
	doc := fields(PatientID, "A")
	ref := fields(PatientID, "B")

	got, err := Resolve(doc, ref, nil, PreferDocument())
	require.NoError(t, err)
	assert.Equal(t, "A", got.Value(PatientID))

	got, err = Resolve(doc, ref, fields(PatientID, "C"), PreferDocument())
	require.NoError(t, err)
	assert.Equal(t, "C", got.Value(PatientID))
}

func TestResolve_PersonNameEquivalence(t *testing.T) {
	got, err := Resolve(fields(PatientName, "Doe^John"), fields(PatientName, "Doe^John^^^"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Doe^John", got.Value(PatientName))
}

func TestResolve_Replayable(t *testing.T) {
	doc := fields(PatientName, "Doe^John", DocumentTitle, "Note")
	ref := fields(StudyInstanceUID, "1.2.3")
	user := fields(PatientID, "P1")

	a, errA := Resolve(doc, ref, user)
	b, errB := Resolve(doc, ref, user)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
	assert.Equal(t, fields(PatientName, "Doe^John", DocumentTitle, "Note"), doc)
}

func TestConflicts(t *testing.T) {
	doc := fields(PatientID, "A", DocumentTitle, "T")
	ref := fields(PatientID, "B", DocumentTitle, "T")

	got := Conflicts(doc, ref)
	require.Len(t, got, 1)
	assert.Equal(t, PatientID, got[0].Field)
}

func TestFieldSet(t *testing.T) {
	var fs FieldSet
	fs.Set(PatientID, "")
	assert.Nil(t, fs)

	fs.Set(PatientID, "P1")
	fs.Set(PatientName, "Doe")
	assert.Equal(t, []Field{PatientName, PatientID}, fs.Fields())

	fs.Set(PatientID, "")
	_, ok := fs.Get(PatientID)
	assert.False(t, ok)

	clone := fs.Clone()
	clone.Set(PatientName, "Other")
	assert.Equal(t, "Doe", fs.Value(PatientName))
}

func TestField_Metadata(t *testing.T) {
	assert.Equal(t, "PatientName", PatientName.String())
	assert.Equal(t, "ListOfMIMETypes", MediaTypes.String())
	assert.Equal(t, "Unknown", Field(99).String())
	assert.Len(t, AllFields(), 12)
	assert.Equal(t, "Study", StudyInstanceUID.Scope().String())
}
