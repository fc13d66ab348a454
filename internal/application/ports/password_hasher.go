package ports

// PasswordHasher puerto de hashing adaptativo con salt (bcrypt en infraestructura).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Compare devuelve nil si plain corresponde a hash.
	Compare(hash, plain string) error
}
