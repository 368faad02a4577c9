package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxBodyBytes caps submission bodies at 100KB
const maxBodyBytes = 100 << 10

var (
	errInvalidBody  = errors.New("invalid request body")
	errBodyTooLarge = errors.New("request body too large")
)

// decodeFields reads a JSON object or a urlencoded form into a field map.
// Form keys sent more than once become lists. Any other content type yields
// an empty map.
func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		return decodeForm(r)
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return decodeJSON(r)
	default:
		return map[string]interface{}{}, nil
	}
}

// decodeJSON accepts exactly one JSON object, optionally surrounded by
// whitespace. An empty body decodes to an empty map.
func decodeJSON(r *http.Request) (map[string]interface{}, error) {
	dec := json.NewDecoder(r.Body)

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]interface{}{}, nil
		}
		return nil, classifyBodyError(err)
	}
	if fields == nil {
		return nil, errInvalidBody
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, classifyBodyError(err)
		}
		return nil, errInvalidBody
	}
	return fields, nil
}

func decodeForm(r *http.Request) (map[string]interface{}, error) {
	if err := r.ParseForm(); err != nil {
		return nil, classifyBodyError(err)
	}

	fields := make(map[string]interface{}, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) == 1 {
			fields[key] = values[0]
			continue
		}
		list := make([]interface{}, len(values))
		for i, v := range values {
			list[i] = v
		}
		fields[key] = list
	}
	return fields, nil
}

func classifyBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return errInvalidBody
}
