// Package identifiers decides the study, series and SOP instance UIDs and
// the instance number of an encapsulated record.
package identifiers

import (
	"fmt"
	"strings"
)

// maxAttempts bounds how many times Issue asks the generator for a value
// that has not been seen in this run.
const maxAttempts = 3

// Generator produces globally unique UIDs.
type Generator interface {
	NewUID() string
}

// IdentifierCollisionError means the generator kept returning UIDs already
// issued or reserved in this run.
type IdentifierCollisionError struct {
	UID      string
	Attempts int
}

func (e *IdentifierCollisionError) Error() string {
	return fmt.Sprintf("uid generator returned already used uid %q %d times in a row", e.UID, e.Attempts)
}

// Reference carries the identifiers read from an existing record the new one
// joins. Empty UIDs are generated fresh.
type Reference struct {
	StudyInstanceUID  string
	SeriesInstanceUID string
	// InstanceNumber is the reference's instance number, 0 when absent.
	InstanceNumber int
}

// Identifiers are the UIDs and instance number of the output record.
type Identifiers struct {
	StudyInstanceUID  string
	SeriesInstanceUID string
	SOPInstanceUID    string
	InstanceNumber    int
}

// Manager hands out UIDs for one run and remembers every value it issued or
// was told about, so a fresh UID never repeats one of them.
type Manager struct {
	gen  Generator
	used map[string]struct{}
}

// NewManager creates a manager drawing UIDs from gen.
func NewManager(gen Generator) *Manager {
	return &Manager{gen: gen, used: make(map[string]struct{})}
}

// Reserve marks uids as taken. Empty strings are ignored.
func (m *Manager) Reserve(uids ...string) {
	for _, uid := range uids {
		if uid = strings.TrimSpace(uid); uid != "" {
			m.used[uid] = struct{}{}
		}
	}
}

// Used reports whether uid was issued or reserved.
func (m *Manager) Used(uid string) bool {
	_, ok := m.used[uid]
	return ok
}

// Issue returns a UID not seen before in this run.
func (m *Manager) Issue() (string, error) {
	var uid string
	for range maxAttempts {
		uid = m.gen.NewUID()
		if !m.Used(uid) {
			m.used[uid] = struct{}{}
			return uid, nil
		}
	}
	return "", &IdentifierCollisionError{UID: uid, Attempts: maxAttempts}
}

// Resolve decides the identifiers of a new record. Study and series UIDs come
// from ref when it has them and are generated otherwise; the SOP instance UID
// is always fresh. With autoIncrement and a reference instance number the
// instance number is that number plus one, otherwise instanceNumber, or 1
// when instanceNumber is not positive.
func (m *Manager) Resolve(ref *Reference, autoIncrement bool, instanceNumber int) (Identifiers, error) {
	var ids Identifiers
	if ref != nil {
		m.Reserve(ref.StudyInstanceUID, ref.SeriesInstanceUID)
		ids.StudyInstanceUID = strings.TrimSpace(ref.StudyInstanceUID)
		ids.SeriesInstanceUID = strings.TrimSpace(ref.SeriesInstanceUID)
	}

	var err error
	if ids.StudyInstanceUID == "" {
		if ids.StudyInstanceUID, err = m.Issue(); err != nil {
			return Identifiers{}, fmt.Errorf("study instance uid: %w", err)
		}
	}
	if ids.SeriesInstanceUID == "" {
		if ids.SeriesInstanceUID, err = m.Issue(); err != nil {
			return Identifiers{}, fmt.Errorf("series instance uid: %w", err)
		}
	}
	if ids.SOPInstanceUID, err = m.Issue(); err != nil {
		return Identifiers{}, fmt.Errorf("sop instance uid: %w", err)
	}

	switch {
	case autoIncrement && ref != nil && ref.InstanceNumber > 0:
		ids.InstanceNumber = ref.InstanceNumber + 1
	case instanceNumber > 0:
		ids.InstanceNumber = instanceNumber
	default:
		ids.InstanceNumber = 1
	}
	return ids, nil
}
