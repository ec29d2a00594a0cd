package pipeline

// Setting is one labeled configuration value belonging to a module. Values are
// always carried in their serialized textual form; interpreting the text is
// the module's responsibility. Within one module the same label may appear
// more than once, and order is significant.
type Setting struct {
	Label string
	Value string
}

// StateBlob is a module's opaque internal state. The bytes are meaningful only
// to the module itself; Version lets the module migrate old state on
// hydration. The blob is binary in memory and is converted to a byte-safe
// textual form only at the document boundary.
type StateBlob struct {
	Version int
	Data    []byte
}

// IsZero reports whether the blob carries no state.
func (b StateBlob) IsZero() bool {
	return b.Version == 0 && len(b.Data) == 0
}

// Attributes is the fixed set of private module attributes persisted alongside
// a module's settings. Unlike settings these are assigned directly by the
// loader; a document naming any attribute outside this set is rejected.
type Attributes struct {
	// ModuleNum is the module's 1-based position in the pipeline.
	ModuleNum int

	// ToolRevision identifies the revision of the tool that provided the
	// module implementation when the document was written.
	ToolRevision string

	// SettingsRevision is the schema revision of the module's settings
	// layout. It is handed back to HydrateSettings so the module can
	// migrate settings written by an older revision.
	SettingsRevision int

	// ShowWindow records whether the module's display window was open.
	ShowWindow bool

	// Notes holds free-text lines attached by the user.
	Notes []string

	// Enabled is false when the module should be skipped during execution.
	Enabled bool

	// WantsPause requests an interactive pause before the module runs.
	WantsPause bool

	// State is the module's opaque versioned state.
	State StateBlob
}

// Module is implemented by processing steps that can be persisted to and
// reconstructed from a pipeline document.
type Module interface {
	// TypeName identifies the module implementation. It need not be unique
	// within a pipeline; the same type may appear several times.
	TypeName() string

	// EnumerateSettings returns the module's settings in persistence order,
	// including repeated labels.
	EnumerateSettings() []Setting

	// HydrateSettings applies decoded setting values, in order. revision is
	// the settings schema revision recorded in the document; typeName is the
	// name the document stored the module under. Migration of values written
	// by an older revision is the module's responsibility here.
	HydrateSettings(values []string, revision int, typeName string) error

	// Attributes exposes the module's private attributes for direct
	// assignment by the loader.
	Attributes() *Attributes
}
