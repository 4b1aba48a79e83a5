// Package store implementa la caché en memoria + operaciones CRUD de una
// colección de entidades contra el backend REST. Una instancia por tipo de
// entidad (users, clients, products), todas sobre el mismo Store genérico.
package store

import (
	"context"
	"net/http"
	"sync"

	"github.com/sermixer/backoffice-sdk/internal/application/dto"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/rest"
	"github.com/sermixer/backoffice-sdk/pkg/logger"
)

// Entity restricción mínima de los elementos de una colección.
type Entity interface {
	EntityID() int64
}

// Operation una de las cuatro operaciones con estado de carga/error propio.
type Operation string

const (
	OpList   Operation = "list"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Resource describe los endpoints de un tipo de entidad y, opcionalmente,
// cómo codificarla como multipart (productos con imagen adjunta).
type Resource[T Entity] struct {
	Name       string // nombre plural, solo para logs
	ListPath   string
	CreatePath string
	UpdatePath string
	DeletePath string

	// EncodeForm devuelve el cuerpo multipart para create/update, o nil si la
	// entidad debe viajar como JSON. Puede ser nil (siempre JSON).
	EncodeForm func(T) (*rest.Form, error)

	// Validate chequeo local previo a create/update. Puede ser nil.
	Validate func(T) error
}

type opState struct {
	loading bool
	err     error
}

// Store caché en memoria de una colección + sus cuatro operaciones CRUD.
//
// Contrato de consistencia: las mutaciones reconcilian la colección local de
// forma optimista con la respuesta canónica del servidor; el siguiente List es
// siempre autoritativo (reemplazo total). No se intenta merge fino.
//
// Contrato de errores: toda operación registra su error en el estado Y lo
// devuelve; el llamador elige entre inspección reactiva o manejo explícito.
type Store[T Entity] struct {
	mu     sync.RWMutex
	client *rest.Client
	res    Resource[T]
	log    *logger.Logger
	items  []T
	ops    map[Operation]*opState
}

// New construye el store de una colección.
func New[T Entity](client *rest.Client, res Resource[T], log *logger.Logger) *Store[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Store[T]{
		client: client,
		res:    res,
		log:    log,
		ops: map[Operation]*opState{
			OpList:   {},
			OpCreate: {},
			OpUpdate: {},
			OpDelete: {},
		},
	}
}

// Items devuelve una copia de la colección local.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

// Len devuelve el tamaño de la colección local.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get busca un elemento por id en la colección local. Devuelve
// domain-level "no encontrado" vía el booleano, no vía error: la vista
// correspondiente lo muestra como estado "not found".
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Loading indica si la operación está en vuelo.
func (s *Store[T]) Loading(op Operation) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ops[op].loading
}

// Err devuelve el último error registrado de la operación (nil si la última
// ejecución fue exitosa).
func (s *Store[T]) Err(op Operation) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ops[op].err
}

// begin marca la operación como en vuelo; finish la cierra registrando err.
// El flag de carga nunca queda colgado: finish corre siempre vía defer.
func (s *Store[T]) begin(op Operation) {
	s.mu.Lock()
	s.ops[op].loading = true
	s.mu.Unlock()
}

func (s *Store[T]) finish(op Operation, err error) {
	s.mu.Lock()
	s.ops[op].loading = false
	s.ops[op].err = err
	s.mu.Unlock()
}

// List reemplaza la colección local completa con la respuesta del servidor.
// Idempotente y seguro de repetir; un List exitoso limpia el error previo.
func (s *Store[T]) List(ctx context.Context) (err error) {
	s.begin(OpList)
	defer func() { s.finish(OpList, err) }()

	var fetched []T
	if err = s.client.Do(ctx, http.MethodGet, s.res.ListPath, nil, &fetched); err != nil {
		s.log.Warn().Err(err).Str("collection", s.res.Name).Msg("list falló")
		return err
	}
	s.mu.Lock()
	s.items = fetched
	s.mu.Unlock()
	return nil
}

// Create envía la entidad (JSON o multipart según EncodeForm) y añade al final
// la representación canónica que devuelve el servidor. Devuelve esa
// representación para que el llamador muestre campos asignados (id, fechas).
func (s *Store[T]) Create(ctx context.Context, item T) (created T, err error) {
	s.begin(OpCreate)
	defer func() { s.finish(OpCreate, err) }()

	if s.res.Validate != nil {
		if err = s.res.Validate(item); err != nil {
			return created, err
		}
	}
	body, err := s.encode(item)
	if err != nil {
		return created, err
	}
	if err = s.client.Do(ctx, http.MethodPost, s.res.CreatePath, body, &created); err != nil {
		s.log.Warn().Err(err).Str("collection", s.res.Name).Msg("create falló")
		return created, err
	}
	s.mu.Lock()
	s.items = append(s.items, created)
	s.mu.Unlock()
	return created, nil
}

// Update envía la entidad completa y reemplaza el elemento local con el mismo
// id por la respuesta del servidor, conservando el orden relativo del resto.
func (s *Store[T]) Update(ctx context.Context, item T) (updated T, err error) {
	s.begin(OpUpdate)
	defer func() { s.finish(OpUpdate, err) }()

	if s.res.Validate != nil {
		if err = s.res.Validate(item); err != nil {
			return updated, err
		}
	}
	body, err := s.encode(item)
	if err != nil {
		return updated, err
	}
	if err = s.client.Do(ctx, http.MethodPut, s.res.UpdatePath, body, &updated); err != nil {
		s.log.Warn().Err(err).Str("collection", s.res.Name).Msg("update falló")
		return updated, err
	}
	s.mu.Lock()
	for i, existing := range s.items {
		if existing.EntityID() == updated.EntityID() {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete envía el lote de ids y elimina de la colección local exactamente los
// ids que el servidor confirma en response.ids. Nunca asume que todos los ids
// pedidos fueron borrados: la respuesta es la única fuente de verdad, y un
// borrado parcial no es un error.
func (s *Store[T]) Delete(ctx context.Context, ids []int64) (deleted []int64, err error) {
	s.begin(OpDelete)
	defer func() { s.finish(OpDelete, err) }()

	var resp dto.DeleteResponse
	if err = s.client.Do(ctx, http.MethodDelete, s.res.DeletePath, dto.DeleteRequest{IDs: ids}, &resp); err != nil {
		s.log.Warn().Err(err).Str("collection", s.res.Name).Msg("delete falló")
		return nil, err
	}
	confirmed := make(map[int64]bool, len(resp.IDs))
	for _, id := range resp.IDs {
		confirmed[id] = true
	}
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if !confirmed[item.EntityID()] {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()
	return resp.IDs, nil
}

// encode decide el cuerpo de create/update: multipart si EncodeForm aplica,
// JSON en caso contrario.
func (s *Store[T]) encode(item T) (any, error) {
	if s.res.EncodeForm != nil {
		form, err := s.res.EncodeForm(item)
		if err != nil {
			return nil, err
		}
		if form != nil {
			return form, nil
		}
	}
	return item, nil
}
