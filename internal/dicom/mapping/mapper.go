// Package mapping turns a structured source document into a metadata field
// set by running a per-document-class table of extraction rules.
package mapping

import (
	"fmt"
	"strings"

	"github.com/mrsinham/docencap/internal/dicom/metadata"
	"github.com/mrsinham/docencap/internal/source"
	"github.com/mrsinham/docencap/internal/util"
)

// Format post-processes an extracted value.
type Format int

const (
	// FormatText keeps the extracted value.
	FormatText Format = iota
	// FormatDate keeps the leading YYYYMMDD of a timestamp.
	FormatDate
	// FormatPersonName composes family/given/prefix/suffix children into a
	// PN value; a second given name becomes the middle name.
	FormatPersonName
	// FormatComposite joins the rule's Components with '^'.
	FormatComposite
)

// Rule extracts one field.
type Rule struct {
	Field metadata.Field
	// Scope selects the container nodes below the document root, as a slash
	// separated path of element names. Empty means the whole document.
	Scope string
	// Attribute is matched against node names inside each container.
	Attribute string
	// Components lists the attributes joined by FormatComposite.
	Components []string
	Format     Format
	// Direct reads only the immediate children of each container, so values
	// of nested elements (a CDA <translation> under <code>) are ignored.
	Direct bool
}

// Schema is the field mapping table of one document class.
type Schema struct {
	Name  string
	Root  string
	Rules []Rule
}

// MissingRequiredFieldError is returned when a field declared mandatory is
// absent from the document.
type MissingRequiredFieldError struct {
	Field metadata.Field
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("required field %s not found in document", e.Field)
}

// Map applies schema to the tree below root. Fields listed in required must
// be present in the result.
func Map(root source.Node, schema Schema, required ...metadata.Field) (metadata.FieldSet, error) {
	if schema.Root != "" && root.Name() != schema.Root {
		return nil, fmt.Errorf("%s: unexpected root element %q, want %q", schema.Name, root.Name(), schema.Root)
	}

	fields := metadata.FieldSet{}
	for _, rule := range schema.Rules {
		var values []string
		for _, container := range source.Find(root, rule.Scope) {
			if v := rule.extract(container); v != "" {
				values = append(values, v)
			}
		}
		fields.Set(rule.Field, strings.Join(values, source.MultiValueSeparator))
	}

	for _, f := range required {
		if !fields.Has(f) {
			return nil, &MissingRequiredFieldError{Field: f}
		}
	}
	return fields, nil
}

// extract returns the value of the rule within one container. Values are
// trimmed, which normalises XML indentation around element text.
func (r Rule) extract(container source.Node) string {
	switch r.Format {
	case FormatPersonName:
		return personName(container)
	case FormatComposite:
		parts := make([]string, len(r.Components))
		found := false
		for i, c := range r.Components {
			parts[i] = first(r.values(container, c))
			found = found || parts[i] != ""
		}
		if !found {
			return ""
		}
		return strings.TrimRight(strings.Join(parts, "^"), "^")
	case FormatDate:
		values := r.values(container, r.Attribute)
		for i, v := range values {
			if len(v) > 8 {
				values[i] = v[:8]
			}
		}
		return strings.Join(values, source.MultiValueSeparator)
	default:
		return strings.Join(r.values(container, r.Attribute), source.MultiValueSeparator)
	}
}

func (r Rule) values(container source.Node, attr string) []string {
	if r.Direct {
		return trimmed(source.ChildValues(container, attr))
	}
	return trimmed(source.ExtractAll(container, attr))
}

func trimmed(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func personName(container source.Node) string {
	given := trimmed(source.ChildValues(container, "given"))
	pn := util.PersonName{
		Family: first(trimmed(source.ChildValues(container, "family"))),
		Given:  first(given),
		Prefix: first(trimmed(source.ChildValues(container, "prefix"))),
		Suffix: first(trimmed(source.ChildValues(container, "suffix"))),
	}
	if len(given) > 1 {
		pn.Middle = strings.Join(given[1:], " ")
	}
	return pn.String()
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
