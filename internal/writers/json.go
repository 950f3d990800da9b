// internal/writers/json.go
package writers

import (
	"encoding/json"
	"io"

	"mlst/internal/jsonlutil"
	"mlst/internal/output"
	"mlst/pkg/api"
)

func init() {
	Register(output.FormatJSON, "json", output.WriteJSON)
	Register(output.FormatText, "txt", output.WriteText)
}

// StartCallsJSONLWriter streams each allele call as one JSON line (v1).
func StartCallsJSONLWriter(out io.Writer, bufSize int) (chan<- api.AlleleCallV1, <-chan error) {
	return jsonlutil.Start[api.AlleleCallV1](out, bufSize,
		func(enc *json.Encoder, c api.AlleleCallV1) error {
			return enc.Encode(c)
		},
		IsBrokenPipe,
	)
}
