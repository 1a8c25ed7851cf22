package weberr

import "errors"

type fielder interface {
	Fields() map[string]interface{}
}

// Fields collects the log fields attached anywhere in err's chain. Fields
// closer to the outermost error win.
func Fields(err error) (map[string]interface{}, bool) {
	var out map[string]interface{}
	for e := err; e != nil; e = errors.Unwrap(e) {
		fe, ok := e.(fielder)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]interface{})
		}
		for k, v := range fe.Fields() {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}
	return out, out != nil
}

type fieldsError struct {
	error
	fields map[string]interface{}
}

func (e *fieldsError) Fields() map[string]interface{} { return e.fields }

func (e *fieldsError) Unwrap() error { return e.error }
