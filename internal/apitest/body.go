package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// readBody drains the request body and puts a fresh reader back so handlers
// can decode it again.
func readBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, nil
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
