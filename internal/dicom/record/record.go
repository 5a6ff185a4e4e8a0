// Package record is the in-memory DICOM record the encapsulation pipeline
// fills in, with path addressing into nested sequences.
package record

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mrsinham/docencap/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Record is an ordered set of DICOM elements.
type Record struct {
	elements []*dicom.Element
}

// New returns an empty record.
func New() *Record {
	return &Record{}
}

// FromDataset wraps the elements of ds.
func FromDataset(ds dicom.Dataset) *Record {
	return &Record{elements: append([]*dicom.Element(nil), ds.Elements...)}
}

// Dataset returns the record as a dataset sorted by tag.
func (r *Record) Dataset() dicom.Dataset {
	elems := append([]*dicom.Element(nil), r.elements...)
	sortElements(elems)
	return dicom.Dataset{Elements: elems}
}

// Len returns the number of top level elements.
func (r *Record) Len() int { return len(r.elements) }

// Find returns the top level element with tag t.
func (r *Record) Find(t tag.Tag) (*dicom.Element, bool) {
	if i := indexOf(r.elements, t); i >= 0 {
		return r.elements[i], true
	}
	return nil, false
}

// Has reports whether t is present.
func (r *Record) Has(t tag.Tag) bool {
	return indexOf(r.elements, t) >= 0
}

// Put adds el, replacing any element with the same tag.
func (r *Record) Put(el *dicom.Element) {
	r.elements = put(r.elements, el)
}

// Set stores values under t, converting them to the type the tag's value
// representation expects.
func (r *Record) Set(t tag.Tag, values ...string) error {
	el, err := newTypedElement(t, values)
	if err != nil {
		return err
	}
	r.Put(el)
	return nil
}

// SetValue stores a literal value, split on the DICOM '\' delimiter.
func (r *Record) SetValue(t tag.Tag, value string) error {
	return r.Set(t, splitLiteral(value)...)
}

// SetBytes stores raw bytes under t.
func (r *Record) SetBytes(t tag.Tag, b []byte) error {
	el, err := NewElement(t, b)
	if err != nil {
		return err
	}
	r.Put(el)
	return nil
}

// SetInts stores binary integers under t.
func (r *Record) SetInts(t tag.Tag, values ...int) error {
	el, err := NewElement(t, values)
	if err != nil {
		return err
	}
	r.Put(el)
	return nil
}

// SetItems stores a sequence with the given items under t.
func (r *Record) SetItems(t tag.Tag, items ...[]*dicom.Element) error {
	el, err := newSequence(t, items)
	if err != nil {
		return err
	}
	r.Put(el)
	return nil
}

// Clear empties the value of t. It reports whether t was present.
func (r *Record) Clear(t tag.Tag) bool {
	i := indexOf(r.elements, t)
	if i < 0 {
		return false
	}
	r.elements[i] = emptied(r.elements[i])
	return true
}

// Remove deletes t. It reports whether t was present.
func (r *Record) Remove(t tag.Tag) bool {
	i := indexOf(r.elements, t)
	if i < 0 {
		return false
	}
	r.elements = append(r.elements[:i], r.elements[i+1:]...)
	return true
}

// Strings returns the values of t rendered as strings.
func (r *Record) Strings(t tag.Tag) []string {
	el, ok := r.Find(t)
	if !ok {
		return nil
	}
	return valueStrings(el)
}

// String returns the values of t joined with '\', and whether t holds any.
func (r *Record) String(t tag.Tag) (string, bool) {
	values := r.Strings(t)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, `\`), true
}

// Int returns the first value of t as an integer.
func (r *Record) Int(t tag.Tag) (int, bool) {
	values := r.Strings(t)
	if len(values) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Items returns copies of the item element lists of the sequence t.
func (r *Record) Items(t tag.Tag) [][]*dicom.Element {
	el, ok := r.Find(t)
	if !ok {
		return nil
	}
	items, _ := itemsOf(el)
	return items
}

// NewElement builds an element for t, falling back to a known or UN value
// representation when the dictionary does not carry t.
func NewElement(t tag.Tag, data any) (*dicom.Element, error) {
	if el, err := dicom.NewElement(t, data); err == nil {
		return el, nil
	}
	vr, ok := util.FallbackVR(t)
	if !ok {
		vr = "UN"
	}
	value, err := dicom.NewValue(data)
	if err != nil {
		return nil, fmt.Errorf("value for %s: %w", util.NameOf(t), err)
	}
	return &dicom.Element{
		Tag:                    t,
		ValueRepresentation:    tag.GetVRKind(t, vr),
		RawValueRepresentation: vr,
		Value:                  value,
	}, nil
}

// newTypedElement converts string values to the Go type the value
// representation of t requires.
func newTypedElement(t tag.Tag, values []string) (*dicom.Element, error) {
	if values == nil {
		values = []string{}
	}
	el, err := NewElement(t, values)
	if err != nil {
		return nil, err
	}

	var data any
	switch el.ValueRepresentation {
	case tag.VRString:
		data = []string{strings.Join(values, `\`)}
	case tag.VRUInt16List, tag.VRUInt32List, tag.VRInt16List, tag.VRInt32List:
		ints := make([]int, 0, len(values))
		for _, v := range values {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%s: %q is not an integer", util.NameOf(t), v)
			}
			ints = append(ints, n)
		}
		data = ints
	case tag.VRFloat32List, tag.VRFloat64List:
		floats := make([]float64, 0, len(values))
		for _, v := range values {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %q is not a number", util.NameOf(t), v)
			}
			floats = append(floats, f)
		}
		data = floats
	case tag.VRBytes:
		data = []byte(strings.Join(values, `\`))
	case tag.VRSequence:
		return nil, fmt.Errorf("%s is a sequence and takes no literal value", util.NameOf(t))
	default:
		return el, nil
	}

	value, err := dicom.NewValue(data)
	if err != nil {
		return nil, fmt.Errorf("value for %s: %w", util.NameOf(t), err)
	}
	el.Value = value
	return el, nil
}

func newSequence(t tag.Tag, items [][]*dicom.Element) (*dicom.Element, error) {
	if items == nil {
		items = [][]*dicom.Element{}
	}
	for _, item := range items {
		sortElements(item)
	}
	return NewElement(t, items)
}

// emptied returns a copy of el with a zero-length value of the same type.
func emptied(el *dicom.Element) *dicom.Element {
	var data any
	switch el.Value.ValueType() {
	case dicom.Strings:
		data = []string{}
	case dicom.Ints:
		data = []int{}
	case dicom.Floats:
		data = []float64{}
	case dicom.Sequences:
		data = [][]*dicom.Element{}
	default:
		data = []byte{}
	}
	value, err := dicom.NewValue(data)
	if err != nil {
		return el
	}
	return &dicom.Element{
		Tag:                    el.Tag,
		ValueRepresentation:    el.ValueRepresentation,
		RawValueRepresentation: el.RawValueRepresentation,
		Value:                  value,
	}
}

func valueStrings(el *dicom.Element) []string {
	if el.Value == nil {
		return nil
	}
	switch v := el.Value.GetValue().(type) {
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, strings.TrimRight(s, " \x00"))
		}
		if len(out) == 1 && out[0] == "" {
			return nil
		}
		return out
	case []int:
		out := make([]string, len(v))
		for i, n := range v {
			out[i] = strconv.Itoa(n)
		}
		return out
	case []float64:
		out := make([]string, len(v))
		for i, f := range v {
			out[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return out
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return []string{strings.TrimRight(string(v), "\x00")}
	default:
		return nil
	}
}

func itemsOf(el *dicom.Element) ([][]*dicom.Element, bool) {
	seq, ok := el.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil, false
	}
	items := make([][]*dicom.Element, 0, len(seq))
	for _, item := range seq {
		elems, _ := item.GetValue().([]*dicom.Element)
		items = append(items, append([]*dicom.Element(nil), elems...))
	}
	return items, true
}

func splitLiteral(value string) []string {
	return strings.Split(value, `\`)
}

func indexOf(elems []*dicom.Element, t tag.Tag) int {
	for i, el := range elems {
		if el.Tag == t {
			return i
		}
	}
	return -1
}

func put(elems []*dicom.Element, el *dicom.Element) []*dicom.Element {
	if i := indexOf(elems, el.Tag); i >= 0 {
		elems[i] = el
		return elems
	}
	return append(elems, el)
}

func sortElements(elems []*dicom.Element) {
	sort.SliceStable(elems, func(i, j int) bool {
		a, b := elems[i].Tag, elems[j].Tag
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Element < b.Element
	})
}
