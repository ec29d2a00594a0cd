package document

import (
	"github.com/dcshock/pipedoc/pipeline"
)

// Version is the version of this library. It is written into documents as the
// producer version and compared against the producer version of documents
// being read.
var Version = "1.3.0"

// YAML keys used by the document layout. The cookie is advisory: its absence
// is reported but does not stop a load.
const (
	CookieKey   = "PipeDoc Pipeline"
	CookieValue = "https://github.com/dcshock/pipedoc"

	keyHeader     = "Header"
	keyModuleList = "Module List"

	keyFormatVersion   = "PipelineVersion"
	keyProducerVersion = "ProducerVersion"
	keyVolumetric      = "Volumetric"
	keyModuleCount     = "ModuleCount"
	keyFileList        = "FileList"

	keySettings = "Module Settings"
	keyPrivate  = "Private Module Attributes"
)

// PipelineDocument is the in-memory shape of one decoded (or about-to-be
// encoded) pipeline document. It is constructed fresh per call and owns its
// module records until they are handed to the materializer.
type PipelineDocument struct {
	// FormatVersion is the schema version of the document layout itself.
	FormatVersion int

	// ProducerVersion is the version of the software that wrote the file.
	ProducerVersion string

	// Volumetric is the header's dimensionality flag: whether the pipeline
	// operates on volumetric data. Defaults to false when absent. A
	// materialized module may override it (see materialize.EffectiveVolumetric).
	Volumetric bool

	// DeclaredModuleCount is the number of modules the producer claims to
	// have written. At encode time it equals len(Modules) by construction;
	// after decoding it is reconciled against the materialized count instead.
	DeclaredModuleCount int

	// HasFileList reports whether the document declares an auxiliary
	// file-list section. The section itself is not parsed at this layer.
	HasFileList bool

	// Modules holds the module records in execution order. Order is
	// load-bearing.
	Modules []ModuleRecord
}

// ModuleRecord is one module's persisted form: its type name, its ordered
// settings, and its private attributes. The type name is not unique within a
// document.
type ModuleRecord struct {
	TypeName   string
	Settings   []pipeline.Setting
	Attributes AttributeRecord

	// Err is set when the module's on-disk block was structurally invalid
	// (not a single-entry mapping, unknown private attribute, malformed
	// settings). The surrounding document is still usable; the materializer
	// converts Err into a per-module hydration failure.
	Err error
}

// AttributeRecord is the on-disk form of a module's private attributes. It
// mirrors pipeline.Attributes except that the state blob is still in its
// textual encoding; the blob is only decoded when the record is materialized,
// so a corrupt blob costs one module, not the document.
type AttributeRecord struct {
	ModuleNum        int      `yaml:"module_num"`
	ToolRevision     string   `yaml:"tool_revision"`
	SettingsRevision int      `yaml:"settings_revision"`
	ShowWindow       bool     `yaml:"show_window"`
	Notes            []string `yaml:"notes,omitempty"`
	Enabled          bool     `yaml:"enabled"`
	WantsPause       bool     `yaml:"wants_pause"`
	State            string   `yaml:"state,omitempty"`
}

// Native converts the record to in-memory attributes, reversing the state
// blob's textual encoding.
func (a AttributeRecord) Native() (pipeline.Attributes, error) {
	blob, err := DecodeStateBlob(a.State)
	if err != nil {
		return pipeline.Attributes{}, err
	}
	return pipeline.Attributes{
		ModuleNum:        a.ModuleNum,
		ToolRevision:     a.ToolRevision,
		SettingsRevision: a.SettingsRevision,
		ShowWindow:       a.ShowWindow,
		Notes:            a.Notes,
		Enabled:          a.Enabled,
		WantsPause:       a.WantsPause,
		State:            blob,
	}, nil
}

// newAttributeRecord converts in-memory attributes to their on-disk form,
// applying the state blob's textual encoding.
func newAttributeRecord(a pipeline.Attributes) AttributeRecord {
	return AttributeRecord{
		ModuleNum:        a.ModuleNum,
		ToolRevision:     a.ToolRevision,
		SettingsRevision: a.SettingsRevision,
		ShowWindow:       a.ShowWindow,
		Notes:            a.Notes,
		Enabled:          a.Enabled,
		WantsPause:       a.WantsPause,
		State:            EncodeStateBlob(a.State),
	}
}
