package document

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dcshock/pipedoc/ctxlog"
	"github.com/dcshock/pipedoc/pipeline"
)

// DecodeOptions configures a decode.
type DecodeOptions struct {
	// Interactive should be true when a user is present to act on
	// advisories. The older-producer advisory is suppressed in unattended
	// runs.
	Interactive bool

	// Report collects non-fatal advisories. Nil means a fresh report is
	// used internally (advisories are still logged).
	Report *Report
}

// rawDocument defers the module list to a yaml.Node so the header can be
// checked and the format version gated before any module block is decoded.
type rawDocument struct {
	Cookie  string     `yaml:"PipeDoc Pipeline"`
	Header  *rawHeader `yaml:"Header"`
	Modules yaml.Node  `yaml:"Module List"`
}

// rawHeader uses pointer fields so a missing key is distinguishable from a
// zero value and can be reported by name.
type rawHeader struct {
	FormatVersion   *int    `yaml:"PipelineVersion"`
	ProducerVersion *string `yaml:"ProducerVersion"`
	Volumetric      *bool   `yaml:"Volumetric"`
	ModuleCount     *int    `yaml:"ModuleCount"`
	FileList        *bool   `yaml:"FileList"`
}

func (h *rawHeader) has(key string) bool {
	switch key {
	case keyFormatVersion:
		return h.FormatVersion != nil
	case keyProducerVersion:
		return h.ProducerVersion != nil
	case keyVolumetric:
		return h.Volumetric != nil
	case keyModuleCount:
		return h.ModuleCount != nil
	case keyFileList:
		return h.FileList != nil
	}
	return false
}

// missingKey returns the first required header key absent from h, or "".
func (r headerRule) missingKey(h *rawHeader) string {
	for _, key := range r.required {
		if !h.has(key) {
			return key
		}
	}
	return ""
}

// Decode parses a pipeline document. Structural failures and missing required
// header keys return a MalformedDocumentError; a format version newer than
// CurrentFormatVersion returns a FormatVersionError before any module block is
// touched. Per-module structural problems do not fail the decode: the
// affected record carries an Err for the materializer to account for.
func Decode(ctx context.Context, data []byte, opts *DecodeOptions) (*PipelineDocument, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	report := opts.Report
	if report == nil {
		report = NewReport()
	}
	logger := ctxlog.FromContext(ctx)

	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedDocumentError{Err: err}
	}

	if raw.Cookie == "" {
		report.Add(CookieMissing, "document does not carry the %q cookie and may not be a pipeline document", CookieKey)
		logger.Warn("pipeline document cookie missing")
	}
	if raw.Header == nil {
		return nil, &MalformedDocumentError{MissingKey: keyHeader}
	}
	if raw.Header.FormatVersion == nil {
		return nil, &MalformedDocumentError{MissingKey: keyFormatVersion}
	}

	version := *raw.Header.FormatVersion
	if err := checkFormatVersion(version); err != nil {
		return nil, err
	}
	if key := ruleFor(version).missingKey(raw.Header); key != "" {
		return nil, &MalformedDocumentError{MissingKey: key}
	}

	doc := &PipelineDocument{FormatVersion: version}
	if raw.Header.ProducerVersion != nil {
		doc.ProducerVersion = *raw.Header.ProducerVersion
	}
	if raw.Header.Volumetric != nil {
		doc.Volumetric = *raw.Header.Volumetric
	}
	if raw.Header.ModuleCount != nil {
		doc.DeclaredModuleCount = *raw.Header.ModuleCount
	}
	if raw.Header.FileList != nil {
		doc.HasFileList = *raw.Header.FileList
	}

	if opts.Interactive && producerIsOlder(doc.ProducerVersion, Version) {
		report.Add(OlderProducer,
			"document was written by version %s of this software (you are running %s); saving it from the older version may lose newer content",
			doc.ProducerVersion, Version)
		logger.Warn("pipeline document written by an older producer",
			"producer_version", doc.ProducerVersion, "reader_version", Version)
	}

	modules, err := decodeModuleList(&raw.Modules)
	if err != nil {
		return nil, err
	}
	doc.Modules = modules
	return doc, nil
}

func decodeModuleList(node *yaml.Node) ([]ModuleRecord, error) {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil, &MalformedDocumentError{MissingKey: keyModuleList}
	}
	if node.Kind != yaml.SequenceNode {
		return nil, &MalformedDocumentError{Err: errors.Errorf("%q must be a sequence", keyModuleList)}
	}
	records := make([]ModuleRecord, 0, len(node.Content))
	for i, item := range node.Content {
		records = append(records, decodeModuleBlock(i, item))
	}
	return records, nil
}

// decodeModuleBlock never fails the surrounding document: a structurally bad
// block yields a record with Err set, so one corrupt module costs only that
// module.
func decodeModuleBlock(index int, item *yaml.Node) ModuleRecord {
	typeName, body, err := singleEntry(item)
	if err != nil {
		return ModuleRecord{Err: errors.Wrapf(err, "module %d", index+1)}
	}
	rec := ModuleRecord{TypeName: typeName}
	var b moduleBody
	if err := body.Decode(&b); err != nil {
		rec.Err = errors.Wrapf(err, "module %d (%s)", index+1, typeName)
		return rec
	}
	rec.Settings = []pipeline.Setting(b.Settings)
	rec.Attributes = b.Private
	return rec
}

// UnmarshalYAML decodes private attributes from their on-disk mapping,
// rejecting keys outside the fixed set rather than silently setting them.
func (a *AttributeRecord) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.New("private attributes must be a mapping")
	}
	for i := 0; i < len(value.Content)-1; i += 2 {
		key, val := value.Content[i].Value, value.Content[i+1]
		var err error
		switch key {
		case "module_num":
			err = val.Decode(&a.ModuleNum)
		case "tool_revision":
			err = val.Decode(&a.ToolRevision)
		case "settings_revision":
			err = val.Decode(&a.SettingsRevision)
		case "show_window":
			err = val.Decode(&a.ShowWindow)
		case "notes":
			err = val.Decode(&a.Notes)
		case "enabled":
			err = val.Decode(&a.Enabled)
		case "wants_pause":
			err = val.Decode(&a.WantsPause)
		case "state":
			err = val.Decode(&a.State)
		default:
			return errors.Errorf("unknown private attribute %q", key)
		}
		if err != nil {
			return errors.Wrapf(err, "private attribute %q", key)
		}
	}
	return nil
}
