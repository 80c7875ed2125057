package netschool

import "errors"

// Sentinel errors for the portal's failure surface. The bot matches these
// with errors.Is at the task boundary and turns each into exactly one
// user-visible message.
var (
	ErrSchoolNotFound = errors.New("school not found")
	ErrBadCredentials = errors.New("invalid login or password")
	ErrConnect        = errors.New("connection failure")
	ErrRequest        = errors.New("request failure")
)
