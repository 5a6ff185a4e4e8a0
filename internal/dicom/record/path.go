package record

import (
	"fmt"

	"github.com/mrsinham/docencap/internal/util"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// AllItems selects every existing item of a sequence step.
const AllItems = -1

// MaxItemIndex bounds the item index of a path step. Writing past the last
// item creates every item in between.
const MaxItemIndex = 9999

// Step is one hop of an attribute path. Item selects the sequence item to
// descend into and is ignored on the last step.
type Step struct {
	Tag  tag.Tag
	Item int
}

// SetPath writes a literal value at path, creating missing sequences and
// items on the way. A wildcard step over a missing sequence writes nothing.
func (r *Record) SetPath(path []Step, value string) error {
	if len(path) == 0 {
		return fmt.Errorf("empty attribute path")
	}
	elems, err := setPath(r.elements, path, splitLiteral(value), false)
	if err != nil {
		return err
	}
	r.elements = elems
	return nil
}

// ClearPath empties the attribute at path. Missing attributes, sequences or
// items, and steps through attributes that are not sequences, are left alone.
func (r *Record) ClearPath(path []Step) error {
	if len(path) == 0 {
		return fmt.Errorf("empty attribute path")
	}
	elems, err := setPath(r.elements, path, nil, true)
	if err != nil {
		return err
	}
	r.elements = elems
	return nil
}

func setPath(elems []*dicom.Element, path []Step, values []string, clear bool) ([]*dicom.Element, error) {
	step := path[0]
	idx := indexOf(elems, step.Tag)

	if len(path) == 1 {
		if clear {
			if idx >= 0 {
				elems[idx] = emptied(elems[idx])
			}
			return elems, nil
		}
		el, err := newTypedElement(step.Tag, values)
		if err != nil {
			return nil, err
		}
		return put(elems, el), nil
	}

	var items [][]*dicom.Element
	if idx >= 0 {
		var ok bool
		if items, ok = itemsOf(elems[idx]); !ok {
			if clear {
				return elems, nil
			}
			return nil, fmt.Errorf("%s is not a sequence", util.NameOf(step.Tag))
		}
	} else if clear || step.Item == AllItems {
		return elems, nil
	}

	var targets []int
	switch {
	case step.Item == AllItems:
		for i := range items {
			targets = append(targets, i)
		}
	case step.Item < 0 || step.Item > MaxItemIndex:
		return nil, fmt.Errorf("%s: invalid item index %d", util.NameOf(step.Tag), step.Item)
	case step.Item >= len(items):
		if clear {
			return elems, nil
		}
		for len(items) <= step.Item {
			items = append(items, []*dicom.Element{})
		}
		targets = []int{step.Item}
	default:
		targets = []int{step.Item}
	}

	for _, i := range targets {
		updated, err := setPath(items[i], path[1:], values, clear)
		if err != nil {
			return nil, err
		}
		items[i] = updated
	}

	seq, err := newSequence(step.Tag, items)
	if err != nil {
		return nil, err
	}
	return put(elems, seq), nil
}
