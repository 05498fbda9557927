package envelope

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when the input is not valid JSON.
var ErrInvalidJSON = errors.New("envelope: invalid JSON")

// Inspector examines raw bytes and returns a View for field queries.
type Inspector interface {
	Inspect(raw []byte) (View, error)
}

// View provides field access to an inspected envelope.
type View interface {
	// Has reports whether the path exists.
	Has(path string) bool

	// Text returns the string at path, or false if the path is missing or
	// not a string.
	Text(path string) (string, bool)

	// Raw returns the raw encoded value at path, or false if not found. For
	// JSON strings the quotes are included.
	Raw(path string) ([]byte, bool)
}

// JSONInspector returns an Inspector backed by gjson. The document is parsed
// once per Inspect and shared by all queries on the View.
func JSONInspector() Inspector {
	return jsonInspector{}
}

type jsonInspector struct{}

func (jsonInspector) Inspect(raw []byte) (View, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	return jsonView{doc: gjson.ParseBytes(raw)}, nil
}

type jsonView struct {
	doc gjson.Result
}

func (v jsonView) Has(path string) bool {
	return v.doc.Get(path).Exists()
}

func (v jsonView) Text(path string) (string, bool) {
	r := v.doc.Get(path)
	if r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}

func (v jsonView) Raw(path string) ([]byte, bool) {
	r := v.doc.Get(path)
	if !r.Exists() {
		return nil, false
	}
	return []byte(r.Raw), true
}
