package jsonstore

import (
	"fmt"
	"regexp"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/ports"
)

var bcryptPattern = regexp.MustCompile(`^\$2[aby]\$\d+\$`)

// IsBcryptHash indica si s tiene el prefijo de un hash bcrypt.
func IsBcryptHash(s string) bool {
	return bcryptPattern.MatchString(s)
}

// migrateCredentials normaliza credenciales heredadas:
//  1. password en texto plano: se hashea a password_hash y se descarta.
//  2. password_hash que no es bcrypt: se re-hashea tal cual está guardado.
//
// Devuelve cuántos usuarios cambiaron.
func migrateCredentials(d *document, hasher ports.PasswordHasher, now time.Time) (int, error) {
	changed := 0
	for i := range d.Users {
		u := &d.Users[i]
		switch {
		case u.Password != "":
			hash, err := hasher.Hash(u.Password)
			if err != nil {
				return changed, fmt.Errorf("migrar credencial de %q: %w", u.Username, err)
			}
			u.PasswordHash = hash
			u.Password = ""
			u.UpdatedAt = now
			changed++
		case u.PasswordHash != "" && !IsBcryptHash(u.PasswordHash):
			hash, err := hasher.Hash(u.PasswordHash)
			if err != nil {
				return changed, fmt.Errorf("re-hashear credencial de %q: %w", u.Username, err)
			}
			u.PasswordHash = hash
			u.UpdatedAt = now
			changed++
		}
	}
	return changed, nil
}

// resetAdminCredential restablece la credencial de "admin" (comportamiento heredado opcional).
func resetAdminCredential(d *document, hasher ports.PasswordHasher, password string, now time.Time) (bool, error) {
	for i := range d.Users {
		u := &d.Users[i]
		if u.Username != SeedAdminUsername {
			continue
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return false, fmt.Errorf("restablecer credencial admin: %w", err)
		}
		u.PasswordHash = hash
		u.Password = ""
		u.UpdatedAt = now
		return true, nil
	}
	return false, nil
}
