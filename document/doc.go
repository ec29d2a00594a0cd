// Package document encodes and decodes pipeline documents: the persisted YAML
// representation of an ordered list of modules plus per-document metadata.
//
// The format has to represent things a plain mapping cannot: the same module
// type may appear twice in a pipeline, and the same setting label may appear
// twice in a module. Both lists are therefore written as a YAML sequence of
// single-entry mappings, which keeps order and repetition intact (see
// pairs.go).
//
// Decoding is gated by the document's format version: files declaring a
// version newer than CurrentFormatVersion are rejected outright, while files
// from older producers are tolerated, with per-version header rules supplying
// defaults for fields introduced later. Non-fatal conditions (missing cookie,
// older producer, module-count shortfall) are collected on a Report and never
// change the outcome of a call.
//
// Encoder and decoder are symmetric and independent; neither constructs live
// module instances. That is the materialize package's job.
package document
