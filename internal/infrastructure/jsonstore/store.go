// Package jsonstore persiste el inventario en un único documento JSON: se carga en memoria al
// arrancar y se reescribe completo en cada mutación.
package jsonstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
)

// ErrClosed operación sobre un store ya cerrado.
var ErrClosed = errors.New("jsonstore: store cerrado")

// Options parámetros de Open.
type Options struct {
	Path   string
	Hasher ports.PasswordHasher
	// AdminPassword credencial del admin sembrado cuando el archivo no existe.
	AdminPassword string
	// ResetAdminOnStart restablece la credencial de "admin" a AdminPassword en cada arranque.
	ResetAdminOnStart bool
	Logger            *zerolog.Logger
	Now               func() time.Time
}

// Store documento en memoria con un único escritor. Las lecturas toman el lock compartido;
// cada escritura trabaja sobre una copia y solo la confirma si el archivo se reemplazó bien.
type Store struct {
	mu     sync.RWMutex
	path   string
	doc    *document
	closed bool

	log       zerolog.Logger
	clock     func() time.Time
	writeFile func(path string, data []byte) error
}

// Open carga el documento de opts.Path o lo crea con los datos semilla, migra credenciales
// heredadas y deja el store listo.
func Open(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("jsonstore: path vacío")
	}
	if opts.Hasher == nil {
		return nil, fmt.Errorf("jsonstore: hasher requerido")
	}
	s := &Store{
		path:      opts.Path,
		log:       zerolog.Nop(),
		clock:     opts.Now,
		writeFile: atomicWriteFile,
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "jsonstore").Logger()
	}
	if s.clock == nil {
		s.clock = time.Now
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: crear directorio: %w", err)
	}

	now := s.now()
	dirty := false
	raw, err := os.ReadFile(opts.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		hash, err := opts.Hasher.Hash(opts.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("jsonstore: hash admin: %w", err)
		}
		s.doc = seedDocument(now, hash)
		dirty = true
		s.log.Info().Str("path", opts.Path).Msg("documento nuevo creado con datos semilla")
	case err != nil:
		return nil, fmt.Errorf("jsonstore: leer %s: %w", opts.Path, err)
	default:
		var d document
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("jsonstore: decodificar %s: %w", opts.Path, err)
		}
		s.doc = &d
		s.log.Info().Str("path", opts.Path).Int("users", len(d.Users)).Int("items", len(d.Inventory)).
			Int("transactions", len(d.Transactions)).Msg("documento cargado")
	}
	s.doc.normalize()

	migrated, err := migrateCredentials(s.doc, opts.Hasher, now)
	if err != nil {
		return nil, fmt.Errorf("jsonstore: %w", err)
	}
	if migrated > 0 {
		dirty = true
		metrics.CredentialsMigrated.Add(float64(migrated))
		s.log.Info().Int("users", migrated).Msg("credenciales heredadas migradas")
	}

	if opts.ResetAdminOnStart {
		reset, err := resetAdminCredential(s.doc, opts.Hasher, opts.AdminPassword, now)
		if err != nil {
			return nil, fmt.Errorf("jsonstore: %w", err)
		}
		if reset {
			dirty = true
			s.log.Warn().Msg("ADMIN_RESET_ON_START activo: credencial de admin restablecida")
		}
	}

	if dirty {
		if err := s.persist(s.doc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path ruta del archivo respaldado.
func (s *Store) Path() string { return s.path }

func (s *Store) now() time.Time { return s.clock().UTC() }

// view ejecuta fn sobre el documento confirmado. fn no debe modificarlo.
func (s *Store) view(fn func(d *document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(s.doc)
}

// update ejecuta fn sobre una copia, persiste la copia y la confirma.
// Si fn o la escritura fallan, el documento en memoria no cambia.
func (s *Store) update(fn func(d *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next := s.doc.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// persist serializa d completo y reemplaza el archivo.
func (s *Store) persist(d *document) error {
	start := time.Now()
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		metrics.RecordStoreWrite(time.Since(start), 0, err)
		return fmt.Errorf("jsonstore: serializar documento: %w", err)
	}
	if err := s.writeFile(s.path, data); err != nil {
		metrics.RecordStoreWrite(time.Since(start), 0, err)
		s.log.Error().Err(err).Str("path", s.path).Msg("escritura del documento fallida")
		return fmt.Errorf("jsonstore: escribir %s: %w", s.path, err)
	}
	metrics.RecordStoreWrite(time.Since(start), len(data), nil)
	return nil
}

// Close hace un último flush y rechaza operaciones posteriores.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	err := s.persist(s.doc)
	s.closed = true
	s.log.Info().Str("path", s.path).Msg("store cerrado")
	return err
}

// Counts tamaño de cada colección en un instante.
type Counts struct {
	Users        int
	Categories   int
	Items        int
	Transactions int
}

// Snapshot conteos del documento confirmado.
func (s *Store) Snapshot() (Counts, error) {
	var c Counts
	err := s.view(func(d *document) error {
		c = Counts{
			Users:        len(d.Users),
			Categories:   len(d.Categories),
			Items:        len(d.Inventory),
			Transactions: len(d.Transactions),
		}
		return nil
	})
	return c, err
}

// Repositories repositorios atados al store: cada mutación es su propia escritura.
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s)
}

// atomicWriteFile escribe data en un temporal del mismo directorio, sincroniza y renombra.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	tmpName = ""
	return nil
}
