package materialize

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dcshock/pipedoc/ctxlog"
	"github.com/dcshock/pipedoc/document"
	"github.com/dcshock/pipedoc/pipeline"
)

// Options configures materialization.
type Options struct {
	// Strict promotes the first per-module failure to a document-level
	// failure. Default is to skip the module and keep going.
	Strict bool

	// Report collects non-fatal advisories (the module-count shortfall).
	// Nil means a fresh report is used internally.
	Report *Report
}

// Report is an alias re-exported for callers that only import this package.
type Report = document.Report

// Failure records one module that could not be materialized and why.
type Failure struct {
	TypeName     string
	FilePosition int // 1-based position of the record in the document
	Err          error
}

// Result holds the outcome of materializing one document: the modules that
// loaded, in order, and the records that did not.
type Result struct {
	Modules  []pipeline.Module
	Failures []Failure
}

// Materialize converts the document's records into live modules via the
// registry, in order. Successful modules are numbered 1..n contiguously over
// successful materializations only; a skipped record does not consume a
// position number. In non-strict mode each failure is logged with the
// record's type name and original file position, collected on the result, and
// skipped; there is no retry. If fewer modules materialize than the document
// declared, one module-count advisory is recorded.
func Materialize(ctx context.Context, doc *document.PipelineDocument, registry pipeline.Instantiator, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	report := opts.Report
	if report == nil {
		report = document.NewReport()
	}
	logger := ctxlog.FromContext(ctx)

	result := &Result{}
	position := 1
	for i, rec := range doc.Modules {
		m, err := materializeRecord(rec, i+1, registry)
		if err != nil {
			if opts.Strict {
				return nil, err
			}
			logger.Warn("skipping module that failed to load",
				"module", rec.TypeName, "file_position", i+1, "error", err)
			result.Failures = append(result.Failures, Failure{TypeName: rec.TypeName, FilePosition: i + 1, Err: err})
			continue
		}
		m.Attributes().ModuleNum = position
		position++
		result.Modules = append(result.Modules, m)
	}

	if doc.DeclaredModuleCount > len(result.Modules) {
		dropped := doc.DeclaredModuleCount - len(result.Modules)
		report.Add(document.ModuleCountMismatch,
			"%d of %d modules could not be loaded", dropped, doc.DeclaredModuleCount)
		logger.Warn("pipeline loaded with missing modules",
			"declared", doc.DeclaredModuleCount, "loaded", len(result.Modules))
	}
	return result, nil
}

func materializeRecord(rec document.ModuleRecord, filePos int, registry pipeline.Instantiator) (pipeline.Module, error) {
	if rec.Err != nil {
		return nil, &HydrationError{TypeName: rec.TypeName, FilePosition: filePos, Err: rec.Err}
	}

	m, err := registry.Instantiate(rec.TypeName)
	if err != nil {
		return nil, &ResolutionError{TypeName: rec.TypeName, FilePosition: filePos, Err: err}
	}

	attrs, err := rec.Attributes.Native()
	if err != nil {
		return nil, &HydrationError{TypeName: rec.TypeName, FilePosition: filePos, Err: err}
	}
	*m.Attributes() = attrs

	// Labels are persistence-only; the module hydrates from the ordered
	// values alone.
	values := make([]string, len(rec.Settings))
	for i, s := range rec.Settings {
		values[i] = s.Value
	}
	if err := m.HydrateSettings(values, attrs.SettingsRevision, rec.TypeName); err != nil {
		return nil, &HydrationError{TypeName: rec.TypeName, FilePosition: filePos, Err: errors.Wrap(err, "settings")}
	}
	return m, nil
}

// VolumetricProvider is implemented by module types whose hydrated settings
// determine whether the pipeline operates on volumetric data. It exists as a
// compatibility shim for one such module type; the materializer itself knows
// nothing about specific types.
type VolumetricProvider interface {
	Volumetric() (value, ok bool)
}

// EffectiveVolumetric returns the document's effective dimensionality flag:
// the header value, unless a materialized module provides one. The last
// providing module wins.
func EffectiveVolumetric(modules []pipeline.Module, header bool) bool {
	effective := header
	for _, m := range modules {
		if p, ok := m.(VolumetricProvider); ok {
			if v, ok := p.Volumetric(); ok {
				effective = v
			}
		}
	}
	return effective
}
