// Package dicom builds encapsulated document records: it reconciles metadata
// from the document, a reference record and the user, decides identifiers and
// writes the header, the document and the override keys.
package dicom

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mrsinham/docencap/internal/dicom/doctype"
	"github.com/mrsinham/docencap/internal/dicom/identifiers"
	"github.com/mrsinham/docencap/internal/dicom/mapping"
	"github.com/mrsinham/docencap/internal/dicom/metadata"
	"github.com/mrsinham/docencap/internal/dicom/override"
	"github.com/mrsinham/docencap/internal/dicom/record"
	"github.com/mrsinham/docencap/internal/source"
	"github.com/mrsinham/docencap/internal/util"
	"github.com/rs/zerolog"
)

// Options holds the settings of one encapsulation run.
type Options struct {
	Class  doctype.Class
	Input  string
	Output string

	// Fields are the values given by the user; they win over the document
	// and the reference record.
	Fields metadata.FieldSet

	// StudyFrom and SeriesFrom name a reference record to join. At most
	// one is set.
	StudyFrom  string
	SeriesFrom string

	InstanceIncrement bool
	InstanceNumber    int

	// PreferDocument lets document values win conflicts with the
	// reference record instead of failing.
	PreferDocument bool

	Annotation bool
	Device     doctype.Device

	// OverrideKeys are "key" or "key=value" strings applied last, in order.
	OverrideKeys []string

	// TransferSyntax is a transfer syntax UID; empty means explicit VR
	// little endian.
	TransferSyntax string
}

// ReferenceFile returns the reference record path and how it is joined.
func (o Options) ReferenceFile() (string, ReferenceMode) {
	switch {
	case o.SeriesFrom != "":
		return o.SeriesFrom, SeriesReference
	case o.StudyFrom != "":
		return o.StudyFrom, StudyReference
	default:
		return "", NoReference
	}
}

// Result describes a finished run.
type Result struct {
	Output        string
	Class         doctype.Class
	Reference     ReferenceMode
	Identifiers   identifiers.Identifiers
	Fields        metadata.FieldSet
	DocumentBytes int
	OverrideKeys  int
	// Conflicts lists the document/reference disagreements settled in
	// favour of the document.
	Conflicts []*metadata.MetadataConflictError
}

// Encapsulator runs the pipeline. It keeps the UIDs issued so far, so one
// Encapsulator serves one run.
type Encapsulator struct {
	manager *identifiers.Manager
	dict    override.Dictionary
	logger  zerolog.Logger
	now     func() time.Time
}

// Option configures an Encapsulator.
type Option func(*Encapsulator)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Encapsulator) { e.logger = logger }
}

// WithClock sets the time source for header dates.
func WithClock(now func() time.Time) Option {
	return func(e *Encapsulator) { e.now = now }
}

// WithDictionary sets the dictionary override keys are resolved against.
func WithDictionary(dict override.Dictionary) Option {
	return func(e *Encapsulator) { e.dict = dict }
}

// NewEncapsulator creates an Encapsulator drawing UIDs from gen.
func NewEncapsulator(gen identifiers.Generator, opts ...Option) *Encapsulator {
	e := &Encapsulator{
		manager: identifiers.NewManager(gen),
		dict:    util.Dictionary{},
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encapsulate reads the input document and the reference record, builds the
// output record and writes it. Nothing is written when any step fails.
func (e *Encapsulator) Encapsulate(opts Options) (Result, error) {
	document, err := os.ReadFile(opts.Input)
	if err != nil {
		return Result{}, fmt.Errorf("read input: %w", err)
	}

	var reference *record.Record
	if path, mode := opts.ReferenceFile(); mode != NoReference {
		if reference, err = record.ReadFile(path); err != nil {
			return Result{}, fmt.Errorf("read %s reference: %w", mode, err)
		}
		e.logger.Info().Str("file", path).Str("mode", mode.String()).Msg("reference record loaded")
	}

	rec, res, err := e.Build(opts, document, reference)
	if err != nil {
		return Result{}, err
	}

	if err := rec.WriteFile(opts.Output, record.Encoding{TransferSyntax: opts.TransferSyntax}); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}
	res.Output = opts.Output
	e.logger.Info().Str("output", opts.Output).Str("sop_instance_uid", res.Identifiers.SOPInstanceUID).Msg("document encapsulated")
	return res, nil
}

// Build assembles the output record for document. reference may be nil.
func (e *Encapsulator) Build(opts Options, document []byte, reference *record.Record) (*record.Record, Result, error) {
	profile, err := doctype.Get(opts.Class)
	if err != nil {
		return nil, Result{}, err
	}
	if err := profile.Validate(document); err != nil {
		return nil, Result{}, err
	}

	keys, err := override.ParseKeys(opts.OverrideKeys, e.dict)
	if err != nil {
		return nil, Result{}, fmt.Errorf("override key: %w", err)
	}

	docFields, err := e.documentFields(profile, document, opts.Fields)
	if err != nil {
		return nil, Result{}, err
	}

	_, mode := opts.ReferenceFile()
	switch {
	case reference == nil:
		mode = NoReference
	case mode == NoReference:
		reference = nil
	}
	refFields := ReferenceFields(reference, mode)

	var resolveOpts []metadata.ResolveOption
	if opts.PreferDocument {
		resolveOpts = append(resolveOpts, metadata.PreferDocument())
	}
	fields, err := metadata.Resolve(docFields, refFields, opts.Fields, resolveOpts...)
	if err != nil {
		return nil, Result{}, err
	}

	var settled []*metadata.MetadataConflictError
	if opts.PreferDocument {
		for _, c := range metadata.Conflicts(docFields, refFields) {
			if opts.Fields.Has(c.Field) {
				continue
			}
			settled = append(settled, c)
			e.logger.Warn().Str("field", c.Field.String()).
				Str("document", c.DocumentValue).Str("reference", c.ReferenceValue).
				Msg("conflict resolved in favour of the document")
		}
	}

	ids, err := e.manager.Resolve(identifierReference(reference, fields), opts.InstanceIncrement, opts.InstanceNumber)
	if err != nil {
		return nil, Result{}, err
	}
	e.logger.Debug().Str("study", ids.StudyInstanceUID).Str("series", ids.SeriesInstanceUID).
		Str("sop", ids.SOPInstanceUID).Int("instance", ids.InstanceNumber).Msg("identifiers resolved")

	params := doctype.Params{Annotation: opts.Annotation, Device: opts.Device}
	if profile.NeedsFrameOfReference() {
		if params.FrameOfReferenceUID, err = e.manager.Issue(); err != nil {
			return nil, Result{}, fmt.Errorf("frame of reference uid: %w", err)
		}
	}

	rec := record.New()
	if err := writeGeneralHeader(rec, profile, e.now()); err != nil {
		return nil, Result{}, err
	}
	if err := Assemble(rec, fields, ids, source.SplitValues(fields.Value(metadata.MediaTypes))); err != nil {
		return nil, Result{}, err
	}
	if err := profile.AppendClassElements(rec, params); err != nil {
		return nil, Result{}, fmt.Errorf("%s attributes: %w", profile.Class(), err)
	}
	if err := insertDocument(rec, profile, document); err != nil {
		return nil, Result{}, err
	}

	if err := override.NewApplicator(keys, e.logger).ApplyAll(rec); err != nil {
		return nil, Result{}, fmt.Errorf("override key: %w", err)
	}

	return rec, Result{
		Class:         profile.Class(),
		Reference:     mode,
		Identifiers:   ids,
		Fields:        fields,
		DocumentBytes: len(document),
		OverrideKeys:  len(keys),
		Conflicts:     settled,
	}, nil
}

// documentFields maps the document when its class carries metadata. The
// title is required unless the user supplied one.
func (e *Encapsulator) documentFields(profile doctype.Profile, document []byte, user metadata.FieldSet) (metadata.FieldSet, error) {
	mapped, ok := profile.(doctype.Mapped)
	if !ok {
		return metadata.FieldSet{}, nil
	}
	root, err := source.ParseXML(document)
	if err != nil {
		return nil, &doctype.InvalidDocumentError{Class: profile.Class(), Reason: err.Error()}
	}

	var required []metadata.Field
	if !user.Has(metadata.DocumentTitle) {
		required = append(required, metadata.DocumentTitle)
	}
	fields, err := mapping.Map(root, mapped.Schema(), required...)
	if err != nil {
		var missing *mapping.MissingRequiredFieldError
		if errors.As(err, &missing) {
			return nil, err
		}
		return nil, &doctype.InvalidDocumentError{Class: profile.Class(), Reason: err.Error()}
	}
	e.logger.Debug().Int("fields", len(fields)).Msg("document fields mapped")
	return fields, nil
}
