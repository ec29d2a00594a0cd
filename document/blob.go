package document

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dcshock/pipedoc/pipeline"
)

// Binary blobs are not valid in a text document, so a module's opaque state is
// written as "b64.v1:<blob version>:<base64 data>". The scheme prefix versions
// the textual encoding itself, separately from the blob's own version; an
// unrecognized scheme is rejected rather than guessed at.
const blobScheme = "b64.v1"

// EncodeStateBlob renders a state blob in its byte-safe textual form. A zero
// blob encodes to the empty string (and is omitted from the document).
func EncodeStateBlob(b pipeline.StateBlob) string {
	if b.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%d:%s", blobScheme, b.Version, base64.StdEncoding.EncodeToString(b.Data))
}

// DecodeStateBlob reverses EncodeStateBlob. The empty string decodes to a zero
// blob.
func DecodeStateBlob(s string) (pipeline.StateBlob, error) {
	if s == "" {
		return pipeline.StateBlob{}, nil
	}
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] != blobScheme {
		return pipeline.StateBlob{}, errors.Errorf("state blob has unrecognized encoding (want %q)", blobScheme)
	}
	version, err := strconv.Atoi(parts[1])
	if err != nil {
		return pipeline.StateBlob{}, errors.Wrap(err, "state blob version")
	}
	data, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return pipeline.StateBlob{}, errors.Wrap(err, "state blob data")
	}
	return pipeline.StateBlob{Version: version, Data: data}, nil
}
