// Package override parses user override keys and applies them to the output
// record after every other header write.
package override

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Kind tells how a key addresses its attribute.
type Kind int

const (
	// ByNumber addresses a top level attribute by "(gggg,eeee)" or "gggg,eeee".
	ByNumber Kind = iota
	// ByName addresses a top level attribute by dictionary keyword.
	ByName
	// ByPath walks one or more sequence items before the final attribute.
	ByPath
)

func (k Kind) String() string {
	switch k {
	case ByNumber:
		return "number"
	case ByName:
		return "name"
	case ByPath:
		return "path"
	default:
		return "unknown"
	}
}

// Dictionary resolves attribute keywords.
type Dictionary interface {
	ResolveName(name string) (tag.Tag, error)
}

// Key is a parsed override: where to write and, optionally, what.
type Key struct {
	Raw      string
	Kind     Kind
	Path     []record.Step
	Value    string
	HasValue bool
}

// Tag returns the attribute the key finally addresses.
func (k Key) Tag() tag.Tag {
	return k.Path[len(k.Path)-1].Tag
}

// MalformedPathError reports a key that cannot be read as a tag number,
// a keyword or a sequence path.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed attribute path %q: %s", e.Path, e.Reason)
}

var (
	numberPattern    = regexp.MustCompile(`^\(?([0-9A-Fa-f]{4}),([0-9A-Fa-f]{4})\)?$`)
	keywordPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	itemPattern      = regexp.MustCompile(`^(.*)\[([0-9]+|\*)\]$`)
	separatorPattern = regexp.MustCompile(`[./]`)
)

// ParseKey parses "key" or "key=value". The key is a tag number, a keyword,
// or a path such as "ConceptNameCodeSequence[0].CodeValue" where every step
// but the last selects an item ("[n]" or "[*]"). Steps may be separated by
// '.' or '/'.
func ParseKey(s string, dict Dictionary) (Key, error) {
	keyPart, value, hasValue := strings.Cut(s, "=")
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Key{}, &MalformedPathError{Path: s, Reason: "empty key"}
	}

	segments := separatorPattern.Split(keyPart, -1)
	key := Key{Raw: s, Value: value, HasValue: hasValue}
	for i, seg := range segments {
		seg = strings.TrimSpace(seg)
		last := i == len(segments)-1
		if seg == "" {
			return Key{}, &MalformedPathError{Path: keyPart, Reason: "empty path step"}
		}

		item := record.AllItems
		hasItem := false
		if m := itemPattern.FindStringSubmatch(seg); m != nil {
			seg, hasItem = m[1], true
			if m[2] != "*" {
				n, err := strconv.Atoi(m[2])
				if err != nil || n > record.MaxItemIndex {
					return Key{}, &MalformedPathError{Path: keyPart, Reason: fmt.Sprintf("item index %s out of range 0-%d", m[2], record.MaxItemIndex)}
				}
				item = n
			}
		}
		switch {
		case last && hasItem:
			return Key{}, &MalformedPathError{Path: keyPart, Reason: "the last step must name an attribute, not an item"}
		case !last && !hasItem:
			return Key{}, &MalformedPathError{Path: keyPart, Reason: fmt.Sprintf("sequence step %q needs an item index", seg)}
		}

		t, kind, err := parseTag(seg, keyPart, dict)
		if err != nil {
			return Key{}, err
		}
		if !last {
			key.Path = append(key.Path, record.Step{Tag: t, Item: item})
			continue
		}
		key.Path = append(key.Path, record.Step{Tag: t})
		key.Kind = kind
	}
	if len(key.Path) > 1 {
		key.Kind = ByPath
	}
	return key, nil
}

// ParseKeys parses keys in order, stopping at the first failure.
func ParseKeys(raw []string, dict Dictionary) ([]Key, error) {
	keys := make([]Key, 0, len(raw))
	for _, s := range raw {
		k, err := ParseKey(s, dict)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func parseTag(seg, path string, dict Dictionary) (tag.Tag, Kind, error) {
	if m := numberPattern.FindStringSubmatch(seg); m != nil {
		if strings.HasPrefix(seg, "(") != strings.HasSuffix(seg, ")") {
			return tag.Tag{}, ByNumber, &MalformedPathError{Path: path, Reason: fmt.Sprintf("unbalanced parenthesis in %q", seg)}
		}
		group, _ := strconv.ParseUint(m[1], 16, 16)
		element, _ := strconv.ParseUint(m[2], 16, 16)
		return tag.Tag{Group: uint16(group), Element: uint16(element)}, ByNumber, nil
	}
	if keywordPattern.MatchString(seg) {
		t, err := dict.ResolveName(seg)
		if err != nil {
			return tag.Tag{}, ByName, err
		}
		return t, ByName, nil
	}
	return tag.Tag{}, ByNumber, &MalformedPathError{Path: path, Reason: fmt.Sprintf("%q is neither a tag number nor a keyword", seg)}
}
