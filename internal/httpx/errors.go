package httpx

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// APIErrors is the uniform error body: {"errors": ["...", ...]}.
type APIErrors struct {
	Errors []string `json:"errors"`
}

// ErrorsFromMessages wraps plain messages in an APIErrors body.
func ErrorsFromMessages(messages ...string) APIErrors {
	out := make([]string, len(messages))
	copy(out, messages)
	return APIErrors{Errors: out}
}

// ErrorsFromError produces a single-entry body holding err's message.
func ErrorsFromError(err error) APIErrors {
	return APIErrors{Errors: []string{err.Error()}}
}

// ErrorsFromValidation produces one message per violated field rule, in the
// order the validator reported them. Errors that are not validation failures
// collapse to a single entry.
func ErrorsFromValidation(err error) APIErrors {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrorsFromError(err)
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldMessage(fe))
	}
	return APIErrors{Errors: out}
}
