package domain

// UnknownEmail stands in for tokens that carry no email claim.
const UnknownEmail = "N/A"

// User is the caller identity resolved from a verified bearer token.
// It is built per request and never stored.
type User struct {
	UID   string
	Email string
}
