package auth

// Principal is the authenticated caller of a request.
type Principal struct {
	ID       string
	Email    string
	Username string
}
