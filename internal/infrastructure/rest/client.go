package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sermixer/backoffice-sdk/pkg/logger"
)

// TransportError respuesta no-2xx del backend. Body es el cuerpo crudo
// de la respuesta, tal cual lo envió el servidor.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("respuesta no OK (%d): %s", e.StatusCode, e.Body)
}

// AsTransportError extrae el *TransportError de una cadena de errores, si lo hay.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	ok := errors.As(err, &te)
	return te, ok
}

// TokenSource provee el bearer token persistido. Si ok es false no se envía
// header Authorization.
type TokenSource interface {
	Token() (token string, ok bool)
}

// Client cliente REST del backend de backoffice. Un único punto de salida:
// serialización JSON o multipart automática, inyección del bearer token y
// errores uniformes. Seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *logger.Logger
}

// NewClient construye el cliente. tokens puede ser nil (sin Authorization).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
}

// BaseURL devuelve la URL base configurada.
func (c *Client) BaseURL() string { return c.baseURL }

// Do ejecuta una petición contra path (relativo a la URL base) y decodifica la
// respuesta JSON en out (si out no es nil).
//
//   - body *Form  -> multipart, con el boundary que genera el writer
//   - body otro   -> JSON con Content-Type/Accept application/json
//   - GET y HEAD nunca llevan cuerpo, se pase lo que se pase
//   - no-2xx      -> *TransportError con el texto crudo de la respuesta
//
// Si hay token persistido se adjunta Authorization: Bearer incondicionalmente
// (también en login/signup; es inofensivo).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	isJSON := false

	if body != nil && method != http.MethodGet && method != http.MethodHead {
		switch b := body.(type) {
		case *Form:
			reader = b.Reader()
			contentType = b.ContentType()
		default:
			raw, err := json.Marshal(body)
			if err != nil {
				return errors.Wrap(err, "rest: serializar cuerpo")
			}
			reader = bytes.NewReader(raw)
			isJSON = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "rest: construir petición")
	}
	if isJSON {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Error de transporte puro (DNS, timeout, conexión): se loguea y propaga tal cual.
		c.log.Error().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("fallo de transporte")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		te := &TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
		c.log.Warn().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("respuesta no OK")
		return te
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "rest: decodificar respuesta")
	}
	return nil
}
