package utils

import "errors"

// ErrorRecordNotFound reports a lookup that targeted a record which does not
// exist. Handlers translate it to a 404; it is never an infrastructure fault.
var ErrorRecordNotFound = errors.New("record not found")

// InputError marks a failure the caller can fix by changing the request,
// such as a validation or uniqueness violation. Infrastructure layers must
// not re-wrap these as outages.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

// InvalidInput builds an InputError with a user-presentable message.
func InvalidInput(msg string) error {
	return &InputError{msg: msg}
}

// IsInvalidInput reports whether err, or anything it wraps, is an InputError.
func IsInvalidInput(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
