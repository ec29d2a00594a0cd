// Package pipeline defines the contract between a pipeline document and the
// processing modules it describes. A Module is one named, versioned step: it
// can enumerate its settings for persistence and hydrate them back from a
// decoded document. The fixed set of per-module metadata that is not a
// user-facing setting (position, revisions, flags, opaque state) lives on
// Attributes.
//
// Modules are created through a Registry: callers register a Factory per type
// name and the loader resolves names against it. The registry is explicitly
// injected everywhere it is needed; there is no process-wide registry.
//
// Modules that can also execute implement Runner; Run pipes a value through
// the materialized modules in order, skipping disabled ones.
package pipeline
