package services

import "errors"

// Sentinel errors shared by the services. Handlers map these onto HTTP
// status codes; authorization failures must stay distinguishable from
// storage failures all the way up.
var (
	ErrNotFound  = errors.New("not found")
	ErrNotMember = errors.New("user is not a member of this facility")
)
