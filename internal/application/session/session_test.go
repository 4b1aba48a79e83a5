package session_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sermixer/backoffice-sdk/internal/application/dto"
	"github.com/sermixer/backoffice-sdk/internal/application/session"
	"github.com/sermixer/backoffice-sdk/internal/domain"
	"github.com/sermixer/backoffice-sdk/internal/domain/entity"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/rest"
	"github.com/sermixer/backoffice-sdk/internal/infrastructure/storage"
	"github.com/sermixer/backoffice-sdk/internal/interfaces/apitest"
	"github.com/sermixer/backoffice-sdk/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type entornoSesion struct {
	srv   *apitest.Server
	local *storage.Store
	sess  *session.Session
	rutas []session.Route
	admin entity.User
}

func entorno(t *testing.T) *entornoSesion {
	t.Helper()
	srv := apitest.New()
	admin := srv.SeedUser(entity.User{
		Username: "admin", FirstName: "Ada", LastName: "Marchetti",
		CompanyName: entity.CompanySermixer,
		Email:       "admin@sermixer.example", Role: entity.RoleAdmin,
	}, "admin1234")

	baseURL, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop() })

	local, err := storage.Open(filepath.Join(t.TempDir(), "estado.json"))
	require.NoError(t, err)

	env := &entornoSesion{srv: srv, local: local, admin: admin}
	client := rest.NewClient(baseURL, 5*time.Second, local, logger.Nop())
	env.sess = session.New(client, local, logger.Nop(),
		session.WithNavigator(func(r session.Route) { env.rutas = append(env.rutas, r) }),
	)
	return env
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Bootstrap
// ──────────────────────────────────────────────────────────────────────────────

// Sin token persistido: Anonymous directo, sin ninguna llamada de red.
func TestBootstrap_SinTokenEsAnonimoSinRed(t *testing.T) {
	env := entorno(t)
	assert.Equal(t, session.StateUnknown, env.sess.State(), "estado inicial")

	require.NoError(t, env.sess.Bootstrap(context.Background()))
	assert.Equal(t, session.StateAnonymous, env.sess.State())
	assert.Equal(t, 0, env.srv.Hits("/auth/verify-token"), "no debe tocar la red")
}

// Token persistido inválido: exactamente una verificación, acaba Anonymous y
// el token desaparece del almacenamiento.
func TestBootstrap_TokenInvalidoVerificaUnaVezYLimpia(t *testing.T) {
	env := entorno(t)
	require.NoError(t, env.local.Set(storage.KeyAuthToken, "token.basura.xyz"))

	require.NoError(t, env.sess.Bootstrap(context.Background()))
	assert.Equal(t, session.StateAnonymous, env.sess.State())
	assert.Equal(t, 1, env.srv.Hits("/auth/verify-token"), "exactamente una verificación")

	_, ok := env.local.Get(storage.KeyAuthToken)
	assert.False(t, ok, "el token inválido se borra del almacenamiento")
}

// Token persistido válido: Authenticated con el usuario del servidor.
func TestBootstrap_TokenValidoAutentica(t *testing.T) {
	env := entorno(t)
	tok, err := env.srv.IssueToken(env.admin)
	require.NoError(t, err)
	require.NoError(t, env.local.Set(storage.KeyAuthToken, tok))

	require.NoError(t, env.sess.Bootstrap(context.Background()))
	assert.Equal(t, session.StateAuthenticated, env.sess.State())

	user := env.sess.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, env.admin.Email, user.Email)
	assert.True(t, env.sess.IsAdmin())
	assert.False(t, env.sess.IsUser())

	claims, ok := env.sess.Claims()
	require.True(t, ok)
	assert.Equal(t, env.admin.ID, claims.UserID)
	assert.False(t, claims.Expired())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ExitosoPersisteTokenYNavegaAlInicio(t *testing.T) {
	env := entorno(t)
	require.NoError(t, env.sess.Bootstrap(context.Background()))

	err := env.sess.Login(context.Background(), dto.LoginRequest{
		Email: "admin@sermixer.example", Password: "admin1234",
	})
	require.NoError(t, err)

	assert.True(t, env.sess.IsAuthenticated())
	assert.NoError(t, env.sess.LoginErr())
	assert.False(t, env.sess.LoginLoading())

	tok, ok := env.local.Token()
	require.True(t, ok)
	assert.NotEmpty(t, tok, "el token queda persistido")
	assert.Equal(t, []session.Route{session.RouteHome}, env.rutas)
}

func TestLogin_FallidoNoPersisteYRegistraError(t *testing.T) {
	env := entorno(t)
	require.NoError(t, env.sess.Bootstrap(context.Background()))

	err := env.sess.Login(context.Background(), dto.LoginRequest{
		Email: "admin@sermixer.example", Password: "equivocada",
	})
	require.Error(t, err)

	te, ok := rest.AsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, 401, te.StatusCode)

	assert.Equal(t, session.StateAnonymous, env.sess.State())
	assert.Error(t, env.sess.LoginErr(), "el error queda en el estado")
	_, ok = env.local.Token()
	assert.False(t, ok, "nunca se persiste token en un login fallido")
	assert.Empty(t, env.rutas, "sin navegación en fallo")
}

// Credenciales sintácticamente inválidas ni siquiera tocan la red.
func TestLogin_ValidacionLocal(t *testing.T) {
	env := entorno(t)
	err := env.sess.Login(context.Background(), dto.LoginRequest{Email: "no-es-email", Password: ""})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, env.srv.Hits("/auth/login"))
}

func TestLogout_LimpiaYNavegaAlLogin(t *testing.T) {
	env := entorno(t)
	require.NoError(t, env.sess.Bootstrap(context.Background()))
	require.NoError(t, env.sess.Login(context.Background(), dto.LoginRequest{
		Email: "admin@sermixer.example", Password: "admin1234",
	}))
	env.rutas = nil

	env.sess.Logout()
	assert.Equal(t, session.StateAnonymous, env.sess.State())
	assert.Nil(t, env.sess.CurrentUser())
	assert.False(t, env.sess.IsAdmin())
	_, ok := env.local.Token()
	assert.False(t, ok)
	assert.Equal(t, []session.Route{session.RouteLogin}, env.rutas)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Signup
// ──────────────────────────────────────────────────────────────────────────────

func TestSignup_ExitosoGuardaMensajeSinAutenticar(t *testing.T) {
	env := entorno(t)
	require.NoError(t, env.sess.Bootstrap(context.Background()))

	err := env.sess.Signup(context.Background(), dto.SignupRequest{
		Username: "mrossi", FirstName: "Mario", LastName: "Rossi",
		CompanyName: entity.CompanyS2TruckService,
		Email:       "mario@s2.example",
		Password:    "segreto99", ConfirmPassword: "segreto99",
	})
	require.NoError(t, err)

	assert.Contains(t, env.sess.SignupMessage(), "Inicia sesión")
	assert.Equal(t, session.StateAnonymous, env.sess.State(), "el registro no autentica")
	assert.NoError(t, env.sess.SignupErr())

	// Las credenciales nuevas funcionan
	require.NoError(t, env.sess.Login(context.Background(), dto.LoginRequest{
		Email: "mario@s2.example", Password: "segreto99",
	}))
	assert.True(t, env.sess.IsUser(), "el rol por defecto es user")
}

// La confirmación de contraseña se valida localmente: error de código, no alert.
func TestSignup_ConfirmacionNoCoincide(t *testing.T) {
	env := entorno(t)
	err := env.sess.Signup(context.Background(), dto.SignupRequest{
		Username: "mrossi", FirstName: "Mario", LastName: "Rossi",
		CompanyName: entity.CompanySermixer,
		Email:       "mario@s2.example",
		Password:    "segreto99", ConfirmPassword: "otra-cosa",
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Error(t, env.sess.SignupErr())
	assert.Equal(t, 0, env.srv.Hits("/auth/signup"), "no debe llegar al servidor")
}

func TestSignup_EmailDuplicado(t *testing.T) {
	env := entorno(t)
	err := env.sess.Signup(context.Background(), dto.SignupRequest{
		Username: "admin2", FirstName: "Ada", LastName: "Bis",
		CompanyName: entity.CompanySermixer,
		Email:       "admin@sermixer.example", // ya registrado
		Password:    "segreto99", ConfirmPassword: "segreto99",
	})
	require.Error(t, err)
	te, ok := rest.AsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, 409, te.StatusCode)
	assert.Empty(t, env.sess.SignupMessage())
}
