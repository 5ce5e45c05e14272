package domain

// User is a registered account. Usernames are not unique and the password is
// kept exactly as submitted.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username" validate:"required"`
	Password string `json:"-"        validate:"required"`
}

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Username string
}
