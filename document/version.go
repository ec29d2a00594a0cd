package document

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CurrentFormatVersion is the newest document layout this package can read and
// the version it always writes.
const CurrentFormatVersion = 5

// headerRule describes the header of one format revision: which keys a
// well-formed document must carry. Keys introduced by later revisions
// (Volumetric at v3, FileList at v4) are always optional and fall back to
// their zero defaults, so older files keep loading and newer optional fields
// never break a round trip.
type headerRule struct {
	required []string
}

// headerRules is keyed by format version. Revisions that changed the header
// get an entry; ruleFor falls back to the nearest earlier revision, which
// keeps version-conditional logic out of the decoder body.
var headerRules = map[int]headerRule{
	1: {required: []string{keyFormatVersion, keyModuleCount}},
	3: {required: []string{keyFormatVersion, keyProducerVersion, keyModuleCount}},
}

func ruleFor(version int) headerRule {
	for v := version; v >= 1; v-- {
		if rule, ok := headerRules[v]; ok {
			return rule
		}
	}
	return headerRules[1]
}

// checkFormatVersion gates a decode on the declared format version. Newer
// declared versions are rejected unconditionally; older ones are tolerated.
func checkFormatVersion(declared int) error {
	if declared > CurrentFormatVersion {
		return &FormatVersionError{Declared: declared, MaxSupported: CurrentFormatVersion}
	}
	return nil
}

// producerIsOlder reports whether the producer version is strictly older than
// the reader version. The comparison is advisory only, so a version string
// that does not parse as semver classifies as "not older".
func producerIsOlder(producer, reader string) bool {
	p, r := canonicalVersion(producer), canonicalVersion(reader)
	if p == "" || r == "" {
		return false
	}
	return semver.Compare(p, r) < 0
}

func canonicalVersion(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
