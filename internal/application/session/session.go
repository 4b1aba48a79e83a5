// Package session gestiona el ciclo de vida del token de autenticación, la
// identidad del usuario actual y las banderas de autorización por rol.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/sermixer/backoffice-sdk/internal/application/dto"
	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/rest"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/storage"
	"github.com/sermixer/backoffice-sdk/pkg/logger"
	"github.com/sermixer/backoffice-sdk/pkg/token"
)

// State estado de la máquina de sesión.
type State string

const (
	// StateUnknown estado inicial: aún no se comprobó si hay token persistido.
	StateUnknown State = "unknown"
	// StateVerifying hay token persistido y se está validando contra el backend.
	StateVerifying State = "verifying"
	// StateAuthenticated token válido, user cargado.
	StateAuthenticated State = "authenticated"
	// StateAnonymous sin sesión.
	StateAnonymous State = "anonymous"
)

// Route destino de navegación que la sesión señala a la capa de UI.
type Route string

const (
	RouteHome  Route = "/"
	RouteLogin Route = "/login"
)

// Option opción de construcción de Session.
type Option func(*Session)

// WithNavigator registra el callback de navegación que la UI conecta a su router.
func WithNavigator(navigate func(Route)) Option {
	return func(s *Session) { s.navigate = navigate }
}

// Session máquina de estados de autenticación:
//
//	Unknown -> Verifying -> Authenticated(user) | Anonymous
//
// El token persiste en storage bajo KeyAuthToken y solo se escribe tras un
// login exitoso. Seguro para uso concurrente.
type Session struct {
	mu       sync.RWMutex
	client   *rest.Client
	storage  *storage.Store
	log      *logger.Logger
	navigate func(Route)

	state State
	user  *entity.User

	loginLoading  bool
	loginErr      error
	signupLoading bool
	signupErr     error
	signupMessage string
}

// New construye la sesión en estado Unknown. Llamar Bootstrap para resolverla.
func New(client *rest.Client, store *storage.Store, log *logger.Logger, opts ...Option) *Session {
	if log == nil {
		log = logger.Nop()
	}
	s := &Session{
		client:  client,
		storage: store,
		log:     log,
		state:   StateUnknown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap resuelve el estado inicial. Sin token persistido pasa a Anonymous
// sin tocar la red. Con token hace exactamente una llamada a verify-token:
// éxito -> Authenticated(user); fallo -> borra el token y Anonymous.
// El fallo de verificación no es un error de la aplicación.
func (s *Session) Bootstrap(ctx context.Context) error {
	stored, ok := s.storage.Token()
	if !ok || stored == "" {
		s.setState(StateAnonymous, nil)
		return nil
	}

	s.setState(StateVerifying, nil)
	var resp dto.VerifyTokenResponse
	err := s.client.Do(ctx, http.MethodPost, "/auth/verify-token", dto.VerifyTokenRequest{Token: stored}, &resp)
	if err != nil {
		s.log.Info().Err(err).Msg("token persistido inválido, limpiando sesión")
		if rmErr := s.storage.Remove(storage.KeyAuthToken); rmErr != nil {
			return rmErr
		}
		s.setState(StateAnonymous, nil)
		return nil
	}
	s.setState(StateAuthenticated, &resp.User)
	return nil
}

// Login autentica con credenciales. En éxito persiste el token, pasa a
// Authenticated y señala navegación a la página inicial. En fallo permanece
// Anonymous, registra el error y nunca persiste token.
func (s *Session) Login(ctx context.Context, in dto.LoginRequest) (err error) {
	s.mu.Lock()
	s.loginLoading = true
	s.loginErr = nil
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loginLoading = false
		s.loginErr = err
		s.mu.Unlock()
	}()

	if err = in.Validate(); err != nil {
		return err
	}

	var resp dto.LoginResponse
	if err = s.client.Do(ctx, http.MethodPost, "/auth/login", in, &resp); err != nil {
		s.setState(StateAnonymous, nil)
		return err
	}
	if err = s.storage.Set(storage.KeyAuthToken, resp.Token); err != nil {
		s.setState(StateAnonymous, nil)
		return err
	}
	s.setState(StateAuthenticated, &resp.User)
	s.signalNavigate(RouteHome)
	return nil
}

// Logout borra el token persistido, pasa a Anonymous y señala navegación al
// login. Es síncrono y no puede fallar (un error de disco solo se loguea).
func (s *Session) Logout() {
	if err := s.storage.Remove(storage.KeyAuthToken); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo borrar el token persistido")
	}
	s.setState(StateAnonymous, nil)
	s.signalNavigate(RouteLogin)
}

// Signup registra un usuario nuevo. En éxito guarda el mensaje de confirmación
// sin autenticar automáticamente; en fallo registra el error.
func (s *Session) Signup(ctx context.Context, in dto.SignupRequest) (err error) {
	s.mu.Lock()
	s.signupLoading = true
	s.signupErr = nil
	s.signupMessage = ""
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.signupLoading = false
		s.signupErr = err
		s.mu.Unlock()
	}()

	if err = in.Validate(); err != nil {
		return err
	}

	var resp dto.SignupResponse
	if err = s.client.Do(ctx, http.MethodPost, "/auth/signup", in, &resp); err != nil {
		return err
	}
	message := resp.Message
	if message == "" {
		message = "registro completado"
	}
	s.mu.Lock()
	s.signupMessage = message + ". Inicia sesión con tus nuevas credenciales."
	s.mu.Unlock()
	return nil
}

// State devuelve el estado actual de la sesión.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser devuelve el usuario autenticado, o nil.
func (s *Session) CurrentUser() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated indica si hay sesión activa.
func (s *Session) IsAuthenticated() bool { return s.State() == StateAuthenticated }

// IsAdmin derivación pura: autenticado y con rol admin.
func (s *Session) IsAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.Role == entity.RoleAdmin
}

// IsUser derivación pura: autenticado y con rol user.
func (s *Session) IsUser() bool {
	u := s.CurrentUser()
	return u != nil && u.Role == entity.RoleUser
}

// LoginLoading indica si hay un login en vuelo.
func (s *Session) LoginLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginLoading
}

// LoginErr devuelve el error del último login (nil si fue exitoso).
func (s *Session) LoginErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loginErr
}

// SignupLoading indica si hay un registro en vuelo.
func (s *Session) SignupLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signupLoading
}

// SignupErr devuelve el error del último registro.
func (s *Session) SignupErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signupErr
}

// SignupMessage devuelve el mensaje de éxito del último registro.
func (s *Session) SignupMessage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signupMessage
}

// Claims inspecciona localmente los claims del token persistido (sin verificar
// firma; solo informativo). Devuelve false si no hay token o está malformado.
func (s *Session) Claims() (*token.Claims, bool) {
	stored, ok := s.storage.Token()
	if !ok || stored == "" {
		return nil, false
	}
	claims, err := token.Inspect(stored)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (s *Session) setState(state State, user *entity.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	s.mu.Unlock()
}

func (s *Session) signalNavigate(route Route) {
	if s.navigate != nil {
		s.navigate(route)
	}
}
