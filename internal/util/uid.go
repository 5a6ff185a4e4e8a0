package util

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// UUIDRoot is the DICOM root for UIDs derived from a UUID (ISO/IEC 9834-8).
const UUIDRoot = "2.25"

// MaxUIDLength is the longest UID the UI value representation allows.
const MaxUIDLength = 64

var uidPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)(\.(0|[1-9][0-9]*))*$`)

// IsValidUID reports whether s is a dotted-numeric DICOM UID.
func IsValidUID(s string) bool {
	return len(s) > 0 && len(s) <= MaxUIDLength && uidPattern.MatchString(s)
}

// UIDGenerator issues UIDs below Root. An empty Root uses UUIDRoot.
type UIDGenerator struct {
	Root string
}

// NewUID returns a fresh UID built from a random UUID.
func (g UIDGenerator) NewUID() string {
	return GenerateUID(g.Root, uuid.New())
}

// GenerateUID renders id as a decimal suffix of root, truncating the suffix
// so the result fits in MaxUIDLength.
func GenerateUID(root string, id uuid.UUID) string {
	root = strings.TrimSuffix(strings.TrimSpace(root), ".")
	if root == "" {
		root = UUIDRoot
	}
	suffix := new(big.Int).SetBytes(id[:]).String()

	avail := MaxUIDLength - len(root) - 1
	if avail <= 0 {
		return GenerateUID(UUIDRoot, id)
	}
	if len(suffix) > avail {
		suffix = suffix[:avail]
	}
	return root + "." + suffix
}

// GenerateDeterministicUID derives a stable UID from seed.
func GenerateDeterministicUID(seed string) string {
	return GenerateUID(UUIDRoot, uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)))
}
