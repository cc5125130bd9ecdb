package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/segurosdelplata/backoffice/internal/auth"
	"github.com/segurosdelplata/backoffice/internal/usuario"
)

type stubCuentas struct {
	cuentas []usuario.Usuario
}

func (s *stubCuentas) Get(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error) {
	for _, u := range s.cuentas {
		if u.ID == id {
			copia := u
			return &copia, nil
		}
	}
	return nil, usuario.ErrNotFound
}

func (s *stubCuentas) GetByCorreo(ctx context.Context, correo string) (*usuario.Usuario, error) {
	for _, u := range s.cuentas {
		if u.Correo == correo {
			copia := u
			return &copia, nil
		}
	}
	return nil, usuario.ErrNotFound
}

type stubRedis struct {
	datos map[string][]byte
}

func newStubRedis() *stubRedis {
	return &stubRedis{datos: make(map[string][]byte)}
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		s.datos[key] = v
	case string:
		s.datos[key] = []byte(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := s.datos[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := s.datos[key]; ok {
			delete(s.datos, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func cuentaDePrueba(t *testing.T) usuario.Usuario {
	t.Helper()
	hash, err := auth.Hash("secreta123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return usuario.Usuario{
		ID:             uuid.New(),
		NombreUsuario:  "operador1",
		Correo:         "operador@seguros.example",
		ContrasenaHash: hash,
		Rol:            usuario.RolAdministrador,
	}
}

func servicioDePrueba(t *testing.T) (*AuthService, *stubCuentas, *stubRedis, *auth.JWTManager) {
	t.Helper()
	cuentas := &stubCuentas{cuentas: []usuario.Usuario{cuentaDePrueba(t)}}
	rdb := newStubRedis()
	jwtMgr := auth.NewJWTManager("clave-de-prueba-con-largo-suficiente", 15*time.Minute)
	svc := NewAuthService(cuentas, rdb, jwtMgr, 24*time.Hour)
	return svc, cuentas, rdb, jwtMgr
}

func TestLoginEmiteSesion(t *testing.T) {
	svc, cuentas, rdb, jwtMgr := servicioDePrueba(t)

	result, err := svc.Login(context.Background(), " Operador@Seguros.example ", "secreta123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := jwtMgr.ParseAndValidate(result.AccessToken)
	if err != nil {
		t.Fatalf("token inválido: %v", err)
	}
	if claims.Subject != cuentas.cuentas[0].ID.String() {
		t.Fatalf("subject inesperado: %s", claims.Subject)
	}
	if claims.Rol != usuario.RolAdministrador {
		t.Fatalf("rol inesperado en claims: %s", claims.Rol)
	}

	if result.RefreshToken == "" {
		t.Fatal("refresh token vacío")
	}
	if len(rdb.datos) != 1 {
		t.Fatalf("refresh no persistido: %d claves", len(rdb.datos))
	}
	if result.Profile == nil || result.Profile.Correo != "operador@seguros.example" {
		t.Fatalf("perfil inesperado: %+v", result.Profile)
	}
}

func TestLoginRechazaCredenciales(t *testing.T) {
	svc, _, _, _ := servicioDePrueba(t)

	if _, err := svc.Login(context.Background(), "operador@seguros.example", "incorrecta"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nadie@seguros.example", "secreta123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials got %v", err)
	}
}

func TestRefreshRotaTokens(t *testing.T) {
	svc, _, _, _ := servicioDePrueba(t)

	login, err := svc.Login(context.Background(), "operador@seguros.example", "secreta123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	renovada, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if renovada.RefreshToken == login.RefreshToken {
		t.Fatal("el refresh no rotó")
	}

	// el token usado queda revocado
	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected ErrRefreshInvalid got %v", err)
	}

	// el nuevo sigue vigente
	if _, err := svc.Refresh(context.Background(), renovada.RefreshToken); err != nil {
		t.Fatalf("refresh rotado: %v", err)
	}
}

func TestLogoutRevoca(t *testing.T) {
	svc, _, rdb, _ := servicioDePrueba(t)

	login, err := svc.Login(context.Background(), "operador@seguros.example", "secreta123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), login.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(rdb.datos) != 0 {
		t.Fatal("el refresh sigue almacenado")
	}
	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("expected ErrRefreshInvalid got %v", err)
	}
}

func TestGetMeNoExponeCredenciales(t *testing.T) {
	svc, cuentas, _, _ := servicioDePrueba(t)

	perfil, err := svc.GetMe(context.Background(), cuentas.cuentas[0].ID)
	if err != nil {
		t.Fatalf("getme: %v", err)
	}
	if perfil.Correo != "operador@seguros.example" || perfil.Rol != usuario.RolAdministrador {
		t.Fatalf("perfil inesperado: %+v", perfil)
	}
}
