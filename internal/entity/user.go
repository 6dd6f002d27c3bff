package entity

// UserLoginData is the identity extracted from a verified access token.
// Account management itself lives in a separate service; this backend only
// consumes the token claims.
type UserLoginData struct {
	ID       string
	Username string
	Email    string
}
