package document

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcshock/pipedoc/pipeline"
)

const validDoc = `
PipeDoc Pipeline: https://github.com/dcshock/pipedoc
Header:
  PipelineVersion: 5
  ProducerVersion: 1.3.0
  Volumetric: false
  ModuleCount: 1
Module List:
- Smooth:
    Module Settings:
    - Kernel: gaussian
    - Size: "5"
    - Kernel: median
    Private Module Attributes:
      module_num: 1
      tool_revision: abc123
      settings_revision: 2
      show_window: false
      enabled: true
      wants_pause: false
`

func TestDecode_ValidDocument(t *testing.T) {
	doc, err := Decode(context.Background(), []byte(validDoc), nil)
	require.NoError(t, err)

	assert.Equal(t, 5, doc.FormatVersion)
	assert.Equal(t, "1.3.0", doc.ProducerVersion)
	assert.False(t, doc.Volumetric)
	assert.Equal(t, 1, doc.DeclaredModuleCount)

	require.Len(t, doc.Modules, 1)
	rec := doc.Modules[0]
	require.NoError(t, rec.Err)
	assert.Equal(t, "Smooth", rec.TypeName)
	assert.Equal(t, []pipeline.Setting{
		{Label: "Kernel", Value: "gaussian"},
		{Label: "Size", Value: "5"},
		{Label: "Kernel", Value: "median"},
	}, rec.Settings)
	assert.Equal(t, 2, rec.Attributes.SettingsRevision)
	assert.True(t, rec.Attributes.Enabled)
}

func TestDecode_DuplicateLabelsStayDistinct(t *testing.T) {
	doc, err := Decode(context.Background(), []byte(validDoc), nil)
	require.NoError(t, err)

	var kernels []string
	for _, s := range doc.Modules[0].Settings {
		if s.Label == "Kernel" {
			kernels = append(kernels, s.Value)
		}
	}
	assert.Equal(t, []string{"gaussian", "median"}, kernels)
}

func TestDecode_StructuralParseFailure(t *testing.T) {
	_, err := Decode(context.Background(), []byte("{not yaml: [unclosed"), nil)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}

func TestDecode_MissingHeader(t *testing.T) {
	_, err := Decode(context.Background(), []byte("Module List: []\n"), nil)
	require.Error(t, err)

	var me *MalformedDocumentError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, keyHeader, me.MissingKey)
}

func TestDecode_MissingModuleCount_NamesKey(t *testing.T) {
	src := `
Header:
  PipelineVersion: 5
  ProducerVersion: 1.3.0
Module List: []
`
	_, err := Decode(context.Background(), []byte(src), nil)
	require.Error(t, err)

	var me *MalformedDocumentError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, keyModuleCount, me.MissingKey)
	assert.Contains(t, err.Error(), keyModuleCount)
}

func TestDecode_FormatVersionTooNew(t *testing.T) {
	src := strings.Replace(validDoc, "PipelineVersion: 5", "PipelineVersion: 6", 1)
	_, err := Decode(context.Background(), []byte(src), nil)
	require.Error(t, err)
	assert.True(t, IsFormatTooNew(err))

	var fv *FormatVersionError
	require.ErrorAs(t, err, &fv)
	assert.Equal(t, 6, fv.Declared)
	assert.Equal(t, CurrentFormatVersion, fv.MaxSupported)
}

func TestDecode_FormatVersionGateIgnoresContent(t *testing.T) {
	// Even a document whose module list is garbage fails on the version
	// first.
	src := `
Header:
  PipelineVersion: 99
  ProducerVersion: 1.3.0
  ModuleCount: 1
Module List: this is not a sequence
`
	_, err := Decode(context.Background(), []byte(src), nil)
	assert.True(t, IsFormatTooNew(err))
}

func TestDecode_VolumetricDefaultsFalse(t *testing.T) {
	src := `
Header:
  PipelineVersion: 5
  ProducerVersion: 1.3.0
  ModuleCount: 0
Module List: []
`
	doc, err := Decode(context.Background(), []byte(src), nil)
	require.NoError(t, err)
	assert.False(t, doc.Volumetric)
	assert.False(t, doc.HasFileList)
}

func TestDecode_OlderFormatDoesNotRequireProducer(t *testing.T) {
	src := `
Header:
  PipelineVersion: 2
  ModuleCount: 0
Module List: []
`
	doc, err := Decode(context.Background(), []byte(src), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.FormatVersion)
	assert.Equal(t, "", doc.ProducerVersion)
}

func TestDecode_MissingCookieIsAdvisoryOnly(t *testing.T) {
	src := strings.Replace(validDoc, "PipeDoc Pipeline: https://github.com/dcshock/pipedoc\n", "", 1)
	report := NewReport()
	doc, err := Decode(context.Background(), []byte(src), &DecodeOptions{Report: report})
	require.NoError(t, err)
	assert.Len(t, doc.Modules, 1)
	assert.True(t, report.Has(CookieMissing))
}

func TestDecode_CookiePresent_NoAdvisory(t *testing.T) {
	report := NewReport()
	_, err := Decode(context.Background(), []byte(validDoc), &DecodeOptions{Report: report})
	require.NoError(t, err)
	assert.False(t, report.Has(CookieMissing))
}

func TestDecode_OlderProducerAdvisory_InteractiveOnly(t *testing.T) {
	src := strings.Replace(validDoc, "ProducerVersion: 1.3.0", "ProducerVersion: 0.9.0", 1)

	report := NewReport()
	_, err := Decode(context.Background(), []byte(src), &DecodeOptions{Interactive: true, Report: report})
	require.NoError(t, err)
	assert.True(t, report.Has(OlderProducer))

	// Unattended runs have no user to warn.
	report = NewReport()
	_, err = Decode(context.Background(), []byte(src), &DecodeOptions{Report: report})
	require.NoError(t, err)
	assert.False(t, report.Has(OlderProducer))
}

func TestDecode_NewerProducerWithinFormat_NoAdvisory(t *testing.T) {
	src := strings.Replace(validDoc, "ProducerVersion: 1.3.0", "ProducerVersion: 99.0.0", 1)
	report := NewReport()
	_, err := Decode(context.Background(), []byte(src), &DecodeOptions{Interactive: true, Report: report})
	require.NoError(t, err)
	assert.False(t, report.Has(OlderProducer))
}

func TestDecode_MissingModuleList(t *testing.T) {
	src := `
Header:
  PipelineVersion: 5
  ProducerVersion: 1.3.0
  ModuleCount: 0
`
	_, err := Decode(context.Background(), []byte(src), nil)
	require.Error(t, err)

	var me *MalformedDocumentError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, keyModuleList, me.MissingKey)
}

func TestDecode_CorruptModuleBlockIsRecordLocal(t *testing.T) {
	src := `
Header:
  PipelineVersion: 5
  ProducerVersion: 1.3.0
  ModuleCount: 2
Module List:
- Smooth:
    Module Settings:
    - Kernel: gaussian
    Private Module Attributes:
      module_num: 1
      enabled: true
- Broken:
    Module Settings: not a sequence
    Private Module Attributes:
      module_num: 2
`
	doc, err := Decode(context.Background(), []byte(src), nil)
	require.NoError(t, err)

	require.Len(t, doc.Modules, 2)
	assert.NoError(t, doc.Modules[0].Err)
	assert.Error(t, doc.Modules[1].Err)
	assert.Equal(t, "Broken", doc.Modules[1].TypeName)
}

func TestDecode_UnknownPrivateAttributeRejected(t *testing.T) {
	src := `
Header:
  PipelineVersion: 5
  ProducerVersion: 1.3.0
  ModuleCount: 1
Module List:
- Smooth:
    Module Settings: []
    Private Module Attributes:
      module_num: 1
      password: hunter2
`
	doc, err := Decode(context.Background(), []byte(src), nil)
	require.NoError(t, err)

	require.Len(t, doc.Modules, 1)
	require.Error(t, doc.Modules[0].Err)
	assert.Contains(t, doc.Modules[0].Err.Error(), "password")
}
