package override

import (
	"fmt"

	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/rs/zerolog"
)

// Target is the record an Applicator writes into.
type Target interface {
	SetPath(path []record.Step, value string) error
	ClearPath(path []record.Step) error
}

// Applicator writes override keys into a record. Values are not checked
// against the attribute's meaning; only the value representation decides how
// the literal is stored.
type Applicator struct {
	keys   []Key
	logger zerolog.Logger
}

// NewApplicator creates an applicator for keys, applied in the given order.
func NewApplicator(keys []Key, logger zerolog.Logger) *Applicator {
	return &Applicator{keys: keys, logger: logger}
}

// Len returns the number of keys.
func (a *Applicator) Len() int { return len(a.keys) }

// ApplyAll applies every key in order. A later key addressing the same
// attribute overwrites an earlier one; a key without a value clears the
// attribute when present.
func (a *Applicator) ApplyAll(target Target) error {
	for _, k := range a.keys {
		if !k.HasValue {
			if err := target.ClearPath(k.Path); err != nil {
				return fmt.Errorf("clear %q: %w", k.Raw, err)
			}
			a.logger.Debug().Str("key", k.Raw).Msg("override cleared")
			continue
		}
		if err := target.SetPath(k.Path, k.Value); err != nil {
			return fmt.Errorf("apply %q: %w", k.Raw, err)
		}
		a.logger.Debug().Str("key", k.Raw).Str("kind", k.Kind.String()).Msg("override applied")
	}
	return nil
}
