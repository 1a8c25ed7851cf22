package weberr

import "errors"

type responder interface {
	Response() (body interface{}, status int)
}

// Response finds the outermost response attached to err.
func Response(err error) (body interface{}, status int, ok bool) {
	var re responder
	if !errors.As(err, &re) {
		return nil, 0, false
	}
	body, status = re.Response()
	return body, status, true
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Response() (interface{}, int) {
	return e.body, e.status
}

func (e *responseError) Unwrap() error {
	return e.error
}
