package ports

// PasswordEncoder turns passwords into stored secrets and checks them.
type PasswordEncoder interface {
	Encode(password string) (string, error)
	Matches(secret, password string) bool
}
