package api

// requestError is a failed HTTP exchange. Status is zero when no response
// was obtained at all (transport failure); otherwise it carries the non-2xx
// status code.
type requestError struct {
	msg    string
	status int
}

func (e *requestError) Error() string {
	return e.msg
}
