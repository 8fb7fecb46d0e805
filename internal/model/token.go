package model

// TokenManager issues and verifies signed access tokens bound to a subject.
type TokenManager interface {
	Issue(subject string) (string, error)
	Verify(token string) (subject string, err error)
}

// PasswordHasher hashes passwords one way and checks candidates against a hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
