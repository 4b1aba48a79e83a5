package apitest

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/sermixer/backoffice-sdk/internal/application/dto"
	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
)

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *Server) handleGetUsers(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.User, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, sanitize(rec.User))
	}
	return c.JSON(out)
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var in entity.User
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	password := in.Password
	s.assignServerFields(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	s.users = append(s.users, userRecord{User: in, password: password})
	return c.Status(fiber.StatusCreated).JSON(sanitize(in))
}

func (s *Server) handleEditUser(c *fiber.Ctx) error {
	var in entity.User
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.users {
		if rec.ID == in.ID {
			in.CreatedAt = rec.CreatedAt
			in.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			password := rec.password
			if in.Password != "" {
				password = in.Password
			}
			s.users[i] = userRecord{User: in, password: password}
			return c.JSON(sanitize(in))
		}
	}
	return notFound(c)
}

func (s *Server) handleDeleteUsers(c *fiber.Ctx) error {
	return s.handleDelete(c, func(id int64) bool {
		for i, rec := range s.users {
			if rec.ID == id {
				s.users = append(s.users[:i], s.users[i+1:]...)
				return true
			}
		}
		return false
	})
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (s *Server) handleGetClients(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]entity.Client(nil), s.clients...)
	return c.JSON(out)
}

func (s *Server) handleCreateClient(c *fiber.Ctx) error {
	var in entity.Client
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignServerFields(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	s.clients = append(s.clients, in)
	return c.Status(fiber.StatusCreated).JSON(in)
}

func (s *Server) handleEditClient(c *fiber.Ctx) error {
	var in entity.Client
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.clients {
		if existing.ID == in.ID {
			in.CreatedAt = existing.CreatedAt
			in.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			s.clients[i] = in
			return c.JSON(in)
		}
	}
	return notFound(c)
}

func (s *Server) handleDeleteClients(c *fiber.Ctx) error {
	return s.handleDelete(c, func(id int64) bool {
		for i, existing := range s.clients {
			if existing.ID == id {
				s.clients = append(s.clients[:i], s.clients[i+1:]...)
				return true
			}
		}
		return false
	})
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *Server) handleGetProducts(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]entity.Product(nil), s.products...)
	return c.JSON(out)
}

func (s *Server) handleCreateProduct(c *fiber.Ctx) error {
	in, err := s.parseProduct(c)
	if err != nil {
		return badBody(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignServerFields(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	s.products = append(s.products, in)
	return c.Status(fiber.StatusCreated).JSON(in)
}

func (s *Server) handleEditProduct(c *fiber.Ctx) error {
	in, err := s.parseProduct(c)
	if err != nil {
		return badBody(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.products {
		if existing.ID == in.ID {
			in.CreatedAt = existing.CreatedAt
			in.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			if in.ImgURL == "" {
				in.ImgURL = existing.ImgURL
			}
			s.products[i] = in
			return c.JSON(in)
		}
	}
	return notFound(c)
}

func (s *Server) handleDeleteProducts(c *fiber.Ctx) error {
	return s.handleDelete(c, func(id int64) bool {
		for i, existing := range s.products {
			if existing.ID == id {
				s.products = append(s.products[:i], s.products[i+1:]...)
				return true
			}
		}
		return false
	})
}

// parseProduct acepta JSON o multipart/form-data. En multipart los campos
// llegan como texto (price y components JSON-codificados) y la imagen como
// archivo binario; el "servidor" la convierte en una URL de uploads.
func (s *Server) parseProduct(c *fiber.Ctx) (entity.Product, error) {
	var p entity.Product
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return p, c.BodyParser(&p)
	}

	if raw := c.FormValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, err
		}
		p.ID = id
	}
	p.Name = c.FormValue("name")
	p.Description = c.FormValue("description")
	p.Category = c.FormValue("category")
	p.Company = c.FormValue("company")
	if raw := c.FormValue("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return p, err
		}
		p.Price = price
	}
	if raw := c.FormValue("discount"); raw != "" {
		discount, err := decimal.NewFromString(raw)
		if err != nil {
			return p, err
		}
		p.Discount = &discount
	}
	if raw := c.FormValue("components"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.Components); err != nil {
			return p, err
		}
	}
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return p, err
		}
		defer f.Close()
		if _, err := io.Copy(io.Discard, f); err != nil {
			return p, err
		}
		p.ImgURL = "/uploads/" + fh.Filename
	}
	return p, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// handleDelete borra el lote pedido y responde únicamente los ids borrados de
// verdad: ids inexistentes o marcados con RefuseDelete no aparecen en la
// respuesta, igual que en el backend real ante un borrado parcial.
func (s *Server) handleDelete(c *fiber.Ctx, remove func(id int64) bool) error {
	var in dto.DeleteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := []int64{}
	for _, id := range in.IDs {
		if s.refuseDelete[id] {
			continue
		}
		if remove(id) {
			deleted = append(deleted, id)
		}
	}
	return c.JSON(dto.DeleteResponse{IDs: deleted})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
}
