// Package pipedoc persists and reconstructs pipeline documents: an ordered
// list of typed, versioned processing modules plus per-document metadata,
// stored as human-readable YAML.
//
// Save snapshots live modules into a document and writes it; Load reads a
// document, gates it on the format version, and materializes modules through
// an injected registry, tolerating individual corrupt or unknown modules
// unless strict loading is requested. Non-fatal conditions are collected on
// the returned report, never raised as errors.
//
// Each call is independent and stateless apart from the supplied registry;
// concurrent Save/Load calls on different documents are safe as long as the
// registry supports concurrent lookups (pipeline.Registry does).
package pipedoc

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/dcshock/pipedoc/ctxlog"
	"github.com/dcshock/pipedoc/document"
	"github.com/dcshock/pipedoc/materialize"
	"github.com/dcshock/pipedoc/pipeline"
)

// SaveOptions configures Save.
type SaveOptions struct {
	// Only restricts the save to modules with the given module numbers.
	// Nil means all modules.
	Only map[int]bool

	// Volumetric is written as the document's dimensionality flag.
	Volumetric bool

	// ProducerVersion overrides the producer version written into the
	// header. Empty means the library's own version.
	ProducerVersion string
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Strict aborts the whole load on the first module that fails to
	// resolve or hydrate. Default is to skip such modules.
	Strict bool

	// Interactive should be true when a user is present to act on
	// advisories (it enables the older-producer advisory).
	Interactive bool
}

// LoadResult is the outcome of a successful Load.
type LoadResult struct {
	// Modules holds the materialized modules in execution order, numbered
	// 1..n over successful materializations.
	Modules []pipeline.Module

	// Volumetric is the document's effective dimensionality flag (header
	// value, possibly overridden by a materialized module).
	Volumetric bool

	// Failures lists the records that could not be materialized. Empty in
	// strict mode (a failure would have failed the load).
	Failures []materialize.Failure

	// Report carries the non-fatal advisories recorded during the load.
	Report *document.Report
}

// Save writes the modules to path as a pipeline document. Filesystem and
// encoding failures surface as a document.WriteError; no partial file is left
// behind on success.
func Save(ctx context.Context, modules []pipeline.Module, path string, opts *SaveOptions) error {
	if opts == nil {
		opts = &SaveOptions{}
	}
	doc := document.FromModules(modules, &document.EncodeOptions{
		Only:            opts.Only,
		Volumetric:      opts.Volumetric,
		ProducerVersion: opts.ProducerVersion,
	})
	return document.WriteFile(ctx, path, doc)
}

// Load reads the pipeline document at path, decodes it, and materializes its
// modules through the registry. Document-level problems (unreadable file,
// malformed document, too-new format version, any module failure under
// Strict) fail the load; everything else is reported on the result's Report
// and Failures.
func Load(ctx context.Context, path string, registry pipeline.Instantiator, opts *LoadOptions) (*LoadResult, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read pipeline document %s", path)
	}

	report := document.NewReport()
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(ctx).With("load_id", report.ID))

	doc, err := document.Decode(ctx, data, &document.DecodeOptions{
		Interactive: opts.Interactive,
		Report:      report,
	})
	if err != nil {
		return nil, err
	}

	result, err := materialize.Materialize(ctx, doc, registry, &materialize.Options{
		Strict: opts.Strict,
		Report: report,
	})
	if err != nil {
		return nil, err
	}

	return &LoadResult{
		Modules:    result.Modules,
		Volumetric: materialize.EffectiveVolumetric(result.Modules, doc.Volumetric),
		Failures:   result.Failures,
		Report:     report,
	}, nil
}
