package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/segurosdelplata/backoffice/internal/auth"
	"github.com/segurosdelplata/backoffice/internal/usuario"
)

// Audiencia única de este backoffice; queda en los claims y en las claves
// de refresh por si alguna vez conviven más superficies.
const audienciaBackoffice = "backoffice"

var (
	// ErrInvalidCredentials indica fallo de autenticación.
	ErrInvalidCredentials = errors.New("credenciales incorrectas")
	// ErrRefreshInvalid indica refresh token inválido o expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
)

type cuentaRepositorio interface {
	Get(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error)
	GetByCorreo(ctx context.Context, correo string) (*usuario.Usuario, error)
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra autenticación y ciclo de vida de sesiones: se crean
// en el login, rotan en el refresh y se destruyen en el logout.
type AuthService struct {
	repo       cuentaRepositorio
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService crea el servicio.
func NewAuthService(repo cuentaRepositorio, redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT expone el gestor de JWT (útil en middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// Perfil describe la identidad autenticada. No carga material de
// credenciales: el hash jamás viaja en la sesión.
type Perfil struct {
	ID            string `json:"id"`
	NombreUsuario string `json:"nombre_usuario"`
	Correo        string `json:"correo"`
	Rol           string `json:"rol"`
}

// LoginResult representa el retorno estándar de las autenticaciones.
type LoginResult struct {
	Audience      string
	AccessToken   string
	RefreshToken  string
	Subject       uuid.UUID
	Rol           string
	Profile       *Perfil
	RefreshExpiry time.Time
}

type refreshEnvelope struct {
	Subject string    `json:"subject"`
	Expira  time.Time `json:"expira"`
}

// Login autentica personal del backoffice con correo y contraseña. La
// comparación es siempre contra el hash Argon2id, nunca contra un secreto
// recuperable.
func (s *AuthService) Login(ctx context.Context, correo, contrasena string) (*LoginResult, error) {
	cuenta, err := s.repo.GetByCorreo(ctx, strings.ToLower(strings.TrimSpace(correo)))
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			log.Warn().Msg("login: usuario no encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(contrasena, cuenta.ContrasenaHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verificación de contraseña falló")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Msg("login: contraseña incorrecta")
		return nil, ErrInvalidCredentials
	}

	return s.emitirSesion(ctx, cuenta)
}

// Refresh rota el refresh token por tokens nuevos. El token usado queda
// revocado aunque la emisión posterior falle.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	if rawToken == "" {
		return nil, ErrRefreshInvalid
	}

	hash := auth.HashRefreshToken(rawToken)
	key := auth.RefreshRedisKey(audienciaBackoffice, hash)

	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if err := s.redis.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	var envelope refreshEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, ErrRefreshInvalid
	}
	if time.Now().UTC().After(envelope.Expira) {
		return nil, ErrRefreshInvalid
	}

	subject, err := uuid.Parse(envelope.Subject)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	cuenta, err := s.repo.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, usuario.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	return s.emitirSesion(ctx, cuenta)
}

// Logout revoca el refresh token actual.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	hash := auth.HashRefreshToken(rawToken)
	key := auth.RefreshRedisKey(audienciaBackoffice, hash)
	if err := s.redis.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// GetMe devuelve el perfil del subject autenticado.
func (s *AuthService) GetMe(ctx context.Context, subject uuid.UUID) (*Perfil, error) {
	cuenta, err := s.repo.Get(ctx, subject)
	if err != nil {
		return nil, err
	}
	return perfilDe(cuenta), nil
}

func (s *AuthService) emitirSesion(ctx context.Context, cuenta *usuario.Usuario) (*LoginResult, error) {
	token, _, err := s.jwt.GenerateAccessToken(cuenta.ID.String(), audienciaBackoffice, cuenta.Rol)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expira := time.Now().UTC().Add(s.refreshTTL)
	envelope, err := json.Marshal(refreshEnvelope{Subject: cuenta.ID.String(), Expira: expira})
	if err != nil {
		return nil, err
	}
	key := auth.RefreshRedisKey(audienciaBackoffice, refreshHash)
	if err := s.redis.Set(ctx, key, envelope, s.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &LoginResult{
		Audience:      audienciaBackoffice,
		AccessToken:   token,
		RefreshToken:  rawRefresh,
		Subject:       cuenta.ID,
		Rol:           cuenta.Rol,
		Profile:       perfilDe(cuenta),
		RefreshExpiry: expira,
	}, nil
}

func perfilDe(cuenta *usuario.Usuario) *Perfil {
	return &Perfil{
		ID:            cuenta.ID.String(),
		NombreUsuario: cuenta.NombreUsuario,
		Correo:        cuenta.Correo,
		Rol:           cuenta.Rol,
	}
}
