package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-tracker/internal/infrastructure/jsonstore"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/security"
)

// withArgs reemplaza os.Args y el FlagSet global para una ejecución de run.
func withArgs(t *testing.T, args ...string) {
	t.Helper()
	oldArgs, oldFlags := os.Args, pflag.CommandLine
	t.Cleanup(func() {
		os.Args = oldArgs
		pflag.CommandLine = oldFlags
	})
	os.Args = append([]string{"storectl"}, args...)
	pflag.CommandLine = pflag.NewFlagSet("storectl", pflag.ContinueOnError)
}

// seedStore crea el documento semilla y lo cierra.
func seedStore(t *testing.T, path string) {
	t.Helper()
	s, err := jsonstore.Open(jsonstore.Options{
		Path:          path,
		Hasher:        security.NewBcryptHasher(bcrypt.MinCost),
		AdminPassword: "admin123",
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestRun_ExportaReporte(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "inventory.json")
	pdfPath := filepath.Join(dir, "stock-bajo.pdf")
	seedStore(t, storePath)

	withArgs(t, "--store", storePath, "--low-stock-pdf", pdfPath)
	assert.Equal(t, 0, run())

	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

// Un fallo a mitad de la ejecución igual cierra el documento: el flush final lo reescribe
// con los montos como números.
func TestRun_ErrorCierraElDocumento(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "inventory.json")
	seedStore(t, storePath)

	raw, err := os.ReadFile(storePath)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"unit_price": 1000,`)
	legacy := strings.Replace(string(raw), `"unit_price": 1000,`, `"unit_price": "1000",`, 1)
	require.NoError(t, os.WriteFile(storePath, []byte(legacy), 0o644))

	withArgs(t, "--store", storePath, "--low-stock-pdf", filepath.Join(dir, "no-existe", "r.pdf"))
	assert.Equal(t, 1, run())

	raw, err = os.ReadFile(storePath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"unit_price": 1000,`)
	assert.NotContains(t, string(raw), `"unit_price": "1000"`)
}
