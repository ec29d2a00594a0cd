package document

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dcshock/pipedoc/ctxlog"
	"github.com/dcshock/pipedoc/pipeline"
)

// EncodeOptions configures how modules are snapshotted into a document.
type EncodeOptions struct {
	// Only restricts the snapshot to modules whose ModuleNum is in the set.
	// Nil means all modules.
	Only map[int]bool

	// Volumetric is written as the header's dimensionality flag.
	Volumetric bool

	// HasFileList is written as the header's auxiliary file-list flag.
	HasFileList bool

	// ProducerVersion overrides the producer version written into the
	// header. Empty means the library's own Version.
	ProducerVersion string
}

// outDocument and outHeader define the field order of an encoded document;
// yaml.v3 emits struct fields in declaration order, so the cookie leads and
// the module list trails the header.
type outDocument struct {
	Cookie  string     `yaml:"PipeDoc Pipeline"`
	Header  outHeader  `yaml:"Header"`
	Modules *yaml.Node `yaml:"Module List"`
}

type outHeader struct {
	FormatVersion   int    `yaml:"PipelineVersion"`
	ProducerVersion string `yaml:"ProducerVersion"`
	Volumetric      bool   `yaml:"Volumetric"`
	ModuleCount     int    `yaml:"ModuleCount"`
	HasFileList     bool   `yaml:"FileList"`
}

// moduleBody is the value side of one module-list entry: the ordered settings
// followed by the private attributes.
type moduleBody struct {
	Settings settingList     `yaml:"Module Settings"`
	Private  AttributeRecord `yaml:"Private Module Attributes"`
}

// FromModules snapshots live modules into a fresh document. The declared
// module count equals the number of modules actually written, so a subset
// save declares only what it contains.
func FromModules(modules []pipeline.Module, opts *EncodeOptions) *PipelineDocument {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	producer := opts.ProducerVersion
	if producer == "" {
		producer = Version
	}
	doc := &PipelineDocument{
		FormatVersion:   CurrentFormatVersion,
		ProducerVersion: producer,
		Volumetric:      opts.Volumetric,
		HasFileList:     opts.HasFileList,
	}
	for _, m := range modules {
		attrs := m.Attributes()
		if opts.Only != nil && !opts.Only[attrs.ModuleNum] {
			continue
		}
		doc.Modules = append(doc.Modules, ModuleRecord{
			TypeName:   m.TypeName(),
			Settings:   m.EnumerateSettings(),
			Attributes: newAttributeRecord(*attrs),
		})
	}
	doc.DeclaredModuleCount = len(doc.Modules)
	return doc
}

// Encode renders the document as UTF-8 YAML. Every value is a plain string,
// number or boolean; no type-tagged scalars are emitted, so the output can be
// read by any YAML consumer and can never smuggle executable objects.
func Encode(doc *PipelineDocument) ([]byte, error) {
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rec := range doc.Modules {
		body := &yaml.Node{}
		if err := body.Encode(moduleBody{Settings: settingList(rec.Settings), Private: rec.Attributes}); err != nil {
			return nil, errors.Wrapf(err, "module %q", rec.TypeName)
		}
		list.Content = append(list.Content, wrapSingleEntry(rec.TypeName, body))
	}
	out := outDocument{
		Cookie: CookieValue,
		Header: outHeader{
			FormatVersion:   doc.FormatVersion,
			ProducerVersion: doc.ProducerVersion,
			Volumetric:      doc.Volumetric,
			ModuleCount:     doc.DeclaredModuleCount,
			HasFileList:     doc.HasFileList,
		},
		Modules: list,
	}
	return yaml.Marshal(&out)
}

// WriteFile encodes the document and writes it to path in a single scoped
// write. Encoding and filesystem failures both surface as a WriteError; there
// is no retry.
func WriteFile(ctx context.Context, path string, doc *PipelineDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	ctxlog.FromContext(ctx).Debug("wrote pipeline document", "path", path, "modules", len(doc.Modules))
	return nil
}
