// Package weberr decorates errors with what the client should see and what
// the log should record, leaving the original error reachable via Unwrap.
package weberr

type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithResponse sets the body and status sent to the client.
func WithResponse(body interface{}, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

// WithFields attaches log fields.
func WithFields(fields map[string]interface{}) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

// WithField attaches a single log field.
func WithField(key string, value interface{}) Opt {
	return WithFields(map[string]interface{}{key: value})
}
