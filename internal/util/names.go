package util

import "strings"

// PersonName holds the components of a DICOM PN value.
type PersonName struct {
	Family string
	Given  string
	Middle string
	Prefix string
	Suffix string
}

// String renders the name as Family^Given^Middle^Prefix^Suffix, dropping
// empty trailing components.
func (p PersonName) String() string {
	parts := []string{p.Family, p.Given, p.Middle, p.Prefix, p.Suffix}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.TrimRight(strings.Join(parts, "^"), "^")
}

// ParsePersonName splits a PN value into its components. Only the first
// component group (alphabetic) is considered.
func ParsePersonName(s string) PersonName {
	if i := strings.IndexByte(s, '='); i >= 0 {
		s = s[:i]
	}
	parts := strings.SplitN(strings.TrimSpace(s), "^", 5)
	for len(parts) < 5 {
		parts = append(parts, "")
	}
	return PersonName{
		Family: strings.TrimSpace(parts[0]),
		Given:  strings.TrimSpace(parts[1]),
		Middle: strings.TrimSpace(parts[2]),
		Prefix: strings.TrimSpace(parts[3]),
		Suffix: strings.TrimSpace(parts[4]),
	}
}

// SamePersonName reports whether a and b name the same person once empty
// trailing components and padding are ignored.
func SamePersonName(a, b string) bool {
	return ParsePersonName(a) == ParsePersonName(b)
}
