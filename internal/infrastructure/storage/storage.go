package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Claves persistidas. Espejo del localStorage del frontend original.
const (
	KeyAuthToken = "authToken"
	KeyTheme     = "themeMode" // "light" | "dark"
)

// Temas de interfaz válidos.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store almacenamiento local clave/valor respaldado por un archivo JSON.
// Sobrevive reinicios del proceso, igual que el localStorage del navegador.
// Las escrituras son atómicas (archivo temporal + rename).
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open carga (o crea) el almacenamiento en la ruta indicada.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "storage: leer archivo de estado")
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.values); err != nil {
			return nil, errors.Wrap(err, "storage: estado corrupto")
		}
	}
	return s, nil
}

// Get devuelve el valor de una clave y si existe.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set persiste una clave. El valor queda en disco antes de retornar.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// Remove elimina una clave. Quitar una clave inexistente no es error.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.flush()
}

// Token implementa rest.TokenSource con el token persistido.
func (s *Store) Token() (string, bool) {
	return s.Get(KeyAuthToken)
}

// Theme devuelve la preferencia de tema, "light" si no hay ninguna guardada.
func (s *Store) Theme() string {
	if v, ok := s.Get(KeyTheme); ok && (v == ThemeLight || v == ThemeDark) {
		return v
	}
	return ThemeLight
}

// SetTheme guarda la preferencia de tema. Solo acepta "light" o "dark".
func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return errors.Errorf("storage: tema desconocido %q", theme)
	}
	return s.Set(KeyTheme, theme)
}

// flush escribe el estado a disco de forma atómica. Llamar con mu tomado.
func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return errors.Wrap(err, "storage: serializar estado")
	}
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "storage: crear directorio")
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "storage: escribir archivo temporal")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "storage: renombrar archivo de estado")
	}
	return nil
}
