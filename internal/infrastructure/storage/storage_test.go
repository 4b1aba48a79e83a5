package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sermixer/backoffice-sdk/internal/infrastructure/storage"
)

func abrir(t *testing.T, path string) *storage.Store {
	t.Helper()
	s, err := storage.Open(path)
	require.NoError(t, err)
	return s
}

func TestStore_GetSetRemove(t *testing.T) {
	s := abrir(t, filepath.Join(t.TempDir(), "estado.json"))

	_, ok := s.Get(storage.KeyAuthToken)
	assert.False(t, ok, "almacenamiento nuevo no tiene token")

	require.NoError(t, s.Set(storage.KeyAuthToken, "tok-123"))
	v, ok := s.Get(storage.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "tok-123", v)

	require.NoError(t, s.Remove(storage.KeyAuthToken))
	_, ok = s.Get(storage.KeyAuthToken)
	assert.False(t, ok)

	// Quitar una clave inexistente no es error
	assert.NoError(t, s.Remove("inexistente"))
}

// El estado sobrevive a reabrir el archivo, como el localStorage a un reload.
func TestStore_PersisteEntreAperturas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")

	s1 := abrir(t, path)
	require.NoError(t, s1.Set(storage.KeyAuthToken, "tok-persistido"))
	require.NoError(t, s1.SetTheme(storage.ThemeDark))

	s2 := abrir(t, path)
	v, ok := s2.Get(storage.KeyAuthToken)
	require.True(t, ok)
	assert.Equal(t, "tok-persistido", v)
	assert.Equal(t, storage.ThemeDark, s2.Theme())
}

func TestStore_TemaPorDefectoYValidacion(t *testing.T) {
	s := abrir(t, filepath.Join(t.TempDir(), "estado.json"))

	assert.Equal(t, storage.ThemeLight, s.Theme(), "sin preferencia guardada el tema es light")
	assert.Error(t, s.SetTheme("sepia"), "solo light y dark son válidos")
	require.NoError(t, s.SetTheme(storage.ThemeDark))
	assert.Equal(t, storage.ThemeDark, s.Theme())
}

func TestStore_ArchivoCorrupto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estado.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o600))

	_, err := storage.Open(path)
	assert.Error(t, err)
}

// Token implementa la fuente de tokens del cliente REST.
func TestStore_TokenSource(t *testing.T) {
	s := abrir(t, filepath.Join(t.TempDir(), "estado.json"))

	_, ok := s.Token()
	assert.False(t, ok)

	require.NoError(t, s.Set(storage.KeyAuthToken, "bearer-abc"))
	tok, ok := s.Token()
	require.True(t, ok)
	assert.Equal(t, "bearer-abc", tok)
}
