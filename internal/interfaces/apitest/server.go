// Package apitest implementa un doble del backend REST del backoffice:
// colecciones en memoria, JWT HS256 y el contrato exacto de endpoints
// (auth, users, clients, products incluido multipart). Lo usan los tests de
// integración del SDK y el comando mockapi para desarrollo local.
package apitest

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sermixer/backoffice-sdk/internal/application/dto"
	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
)

const defaultSecret = "apitest-secret"

type userRecord struct {
	entity.User
	password string
}

// Server backend simulado. Todas las colecciones viven en memoria.
type Server struct {
	app    *fiber.App
	ln     net.Listener
	secret string

	mu           sync.Mutex
	users        []userRecord
	clients      []entity.Client
	products     []entity.Product
	nextID       int64
	refuseDelete map[int64]bool
	hits         map[string]int
}

// New construye el servidor con las rutas del contrato.
func New() *Server {
	s := &Server{
		secret:       defaultSecret,
		nextID:       1,
		refuseDelete: map[int64]bool{},
		hits:         map[string]int{},
	}
	app := fiber.New(fiber.Config{
		AppName:               "backoffice-apitest",
		DisableStartupMessage: true,
	})

	app.Use(s.countHits)

	// Auth (público)
	auth := app.Group("/auth")
	auth.Post("/login", s.handleLogin)
	auth.Post("/verify-token", s.handleVerifyToken)
	auth.Post("/signup", s.handleSignup)

	// Rutas protegidas (requieren Bearer Token)
	users := app.Group("/users", s.requireAuth)
	users.Get("/get-users", s.handleGetUsers)
	users.Post("/create-user", s.handleCreateUser)
	users.Put("/edit-user", s.handleEditUser)
	users.Delete("/delete-users", s.handleDeleteUsers)

	clients := app.Group("/clients", s.requireAuth)
	clients.Get("/get-clients", s.handleGetClients)
	clients.Post("/create-client", s.handleCreateClient)
	clients.Put("/edit-client", s.handleEditClient)
	clients.Delete("/delete-clients", s.handleDeleteClients)

	products := app.Group("/products", s.requireAuth)
	products.Get("/get-products", s.handleGetProducts)
	products.Post("/create-product", s.handleCreateProduct)
	products.Put("/edit-product", s.handleEditProduct)
	products.Delete("/delete-products", s.handleDeleteProducts)

	s.app = app
	return s
}

// Start escucha en un puerto libre de loopback y devuelve la URL base.
func (s *Server) Start() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	s.ln = ln
	go func() {
		_ = s.app.Listener(ln)
	}()
	return "http://" + ln.Addr().String(), nil
}

// Listen sirve en la dirección indicada y bloquea (para cmd/mockapi).
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Stop apaga el servidor.
func (s *Server) Stop() error {
	return s.app.ShutdownWithTimeout(2 * time.Second)
}

// Hits devuelve cuántas peticiones recibió una ruta. Para tests.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// RefuseDelete marca ids que el servidor se negará a borrar aunque se pidan.
// Permite probar la reconciliación de borrados parciales.
func (s *Server) RefuseDelete(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.refuseDelete[id] = true
	}
}

// SeedUser registra un usuario con su contraseña y devuelve la copia con id.
func (s *Server) SeedUser(u entity.User, password string) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignServerFields(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	s.users = append(s.users, userRecord{User: u, password: password})
	return u
}

// SeedClient registra un cliente y devuelve la copia con id.
func (s *Server) SeedClient(c entity.Client) entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignServerFields(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	s.clients = append(s.clients, c)
	return c
}

// SeedProduct registra un producto y devuelve la copia con id.
func (s *Server) SeedProduct(p entity.Product) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignServerFields(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	s.products = append(s.products, p)
	return p
}

// assignServerFields asigna id y timestamps como haría el servidor real.
// Llamar con mu tomado.
func (s *Server) assignServerFields(id *int64, createdAt, updatedAt *time.Time) {
	*id = s.nextID
	s.nextID++
	now := time.Now().UTC().Truncate(time.Second)
	*createdAt = now
	*updatedAt = now
}

// countHits cuenta peticiones por ruta.
func (s *Server) countHits(c *fiber.Ctx) error {
	s.mu.Lock()
	s.hits[c.Path()]++
	s.mu.Unlock()
	return c.Next()
}

// requireAuth exige un Bearer token HS256 válido.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token requerido"})
	}
	if _, err := s.parseToken(strings.TrimPrefix(header, "Bearer ")); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
	}
	return c.Next()
}
