package metadata

import (
	"errors"
	"fmt"

	"github.com/mrsinham/docencap/internal/util"
)

// MetadataConflictError reports a field on which the source document and the
// reference record disagree.
type MetadataConflictError struct {
	Field          Field
	DocumentValue  string
	ReferenceValue string
}

func (e *MetadataConflictError) Error() string {
	return fmt.Sprintf("%s conflict: document has %q, reference record has %q",
		e.Field, e.DocumentValue, e.ReferenceValue)
}

type resolveOptions struct {
	preferDocument bool
}

// ResolveOption tunes Resolve.
type ResolveOption func(*resolveOptions)

// PreferDocument makes the document value win a document/reference conflict
// instead of failing. User values still come first.
func PreferDocument() ResolveOption {
	return func(o *resolveOptions) { o.preferDocument = true }
}

// Resolve merges the three field sets. For each field a user value wins
// unconditionally; otherwise document and reference values must agree when
// both are present, and whichever is present is kept. Every disagreement is
// returned as a *MetadataConflictError, joined when there are several.
func Resolve(document, reference, user FieldSet, opts ...ResolveOption) (FieldSet, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	out := FieldSet{}
	var errs []error
	for _, f := range AllFields() {
		if v, ok := user.Get(f); ok {
			out.Set(f, v)
			continue
		}
		d, hasDoc := document.Get(f)
		r, hasRef := reference.Get(f)
		switch {
		case hasDoc && hasRef:
			if !Equivalent(f, d, r) && !o.preferDocument {
				errs = append(errs, &MetadataConflictError{Field: f, DocumentValue: d, ReferenceValue: r})
				continue
			}
			out.Set(f, d)
		case hasDoc:
			out.Set(f, d)
		case hasRef:
			out.Set(f, r)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Conflicts lists the fields on which document and reference disagree,
// ignoring user values.
func Conflicts(document, reference FieldSet) []*MetadataConflictError {
	var out []*MetadataConflictError
	for _, f := range AllFields() {
		d, hasDoc := document.Get(f)
		r, hasRef := reference.Get(f)
		if hasDoc && hasRef && !Equivalent(f, d, r) {
			out = append(out, &MetadataConflictError{Field: f, DocumentValue: d, ReferenceValue: r})
		}
	}
	return out
}

// Equivalent compares two values of f. Person names ignore empty trailing
// components.
func Equivalent(f Field, a, b string) bool {
	if f == PatientName {
		return util.SamePersonName(a, b)
	}
	return a == b
}
