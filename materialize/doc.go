// Package materialize turns decoded module records into live module instances
// through an injected registry, applying the partial-failure loading protocol:
// by default a module that cannot be resolved or hydrated is skipped with
// precise accounting, and the rest of the document still loads. Strict mode
// promotes the first per-module failure to a document-level failure instead.
package materialize
