// Package responseformat writes a value as the HTTP response body in
// whichever wire format the caller asked for.
package responseformat

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Formatter encodes a response body as JSON or MessagePack depending on the
// request's format query parameter.
type Formatter struct{}

// NewFormatter returns a ready-to-use Formatter. It carries no state.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WriteResponse encodes data and writes it to w, honoring any extra headers
// first. JSON is the default; passing format=msgpack on the request
// switches to MessagePack, encoded using the value's json struct tags so
// callers need only tag a type once.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, data any, headers map[string]string) error {
	for k, v := range headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if req.URL.Query().Get("format") == "msgpack" {
		return f.writeMsgPack(w, data)
	}
	return f.writeJSON(w, data)
}

func (f *Formatter) writeJSON(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, data any) error {
	w.Header().Set("Content-Type", "application/x-msgpack")
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json")
	return encoder.Encode(data)
}
