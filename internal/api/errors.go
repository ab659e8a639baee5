package api

import "errors"

// RequestError is the normalized failure for any non-2xx response. Message is
// the server's JSON "message" field when present, or the HTTP reason phrase.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// AsRequestError unwraps err into a *RequestError, if it carries one.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
