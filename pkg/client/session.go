package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gesafe-api/internal/application/dto"
)

// TokenStore almacén seguro del token de sesión.
type TokenStore interface {
	Load(ctx context.Context) (string, error) // "" sin token guardado
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryTokenStore TokenStore en memoria.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Notifier muestra avisos al usuario.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// AlertTitle título del aviso de vencimientos.
const AlertTitle = "Atenção!"

// AlertMessage texto del aviso de vencimientos.
func AlertMessage(s dto.AlertSummary) string {
	return fmt.Sprintf("Você possui %d produto(s) próximo(s) do vencimento e %d vencido(s).", s.Upcoming, s.Expired)
}

// Session estado de autenticación del cliente: token persistido, nombre del usuario
// y aviso de vencimientos al iniciar sesión.
type Session struct {
	base     *Client
	store    TokenStore
	notifier Notifier
	log      zerolog.Logger

	mu       sync.RWMutex
	client   *Client
	userName string
}

// NewSession construye la sesión. notifier puede ser nil.
func NewSession(base *Client, store TokenStore, notifier Notifier, log zerolog.Logger) *Session {
	return &Session{base: base, store: store, notifier: notifier, log: log, client: base}
}

// SignIn login, guarda el token, carga el perfil y avisa de los vencimientos.
// Los fallos de perfil o alertas se registran pero no anulan el login.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	out, err := s.base.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, out.Token); err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	authed := s.base.WithToken(out.Token)
	s.mu.Lock()
	s.client = authed
	s.userName = out.User.Name
	s.mu.Unlock()

	s.refreshProfile(ctx)
	s.checkExpiring(ctx)
	return nil
}

// Restore recupera el token guardado. Devuelve false si no hay sesión.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, err := s.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("leer token: %w", err)
	}
	if token == "" {
		return false, nil
	}
	s.mu.Lock()
	s.client = s.base.WithToken(token)
	s.mu.Unlock()
	s.refreshProfile(ctx)
	return true, nil
}

// SignOut borra el token guardado.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.client = s.base
	s.userName = ""
	s.mu.Unlock()
	return s.store.Clear(ctx)
}

// Authenticated indica si hay token activo.
func (s *Session) Authenticated() bool {
	return s.Client().Token() != ""
}

// UserName nombre del usuario de la sesión.
func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

// Client cliente de la sesión actual.
func (s *Session) Client() *Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Do ejecuta fn con el cliente autenticado. Con ErrAuthExpired cierra la sesión
// sin reintentar el login.
func (s *Session) Do(ctx context.Context, fn func(*Client) error) error {
	err := fn(s.Client())
	if errors.Is(err, ErrAuthExpired) {
		if serr := s.SignOut(ctx); serr != nil {
			s.log.Error().Err(serr).Msg("cerrar sesión expirada")
		}
	}
	return err
}

func (s *Session) refreshProfile(ctx context.Context) {
	err := s.Do(ctx, func(c *Client) error {
		u, err := c.Profile(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.userName = u.Name
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("actualizar perfil")
	}
}

func (s *Session) checkExpiring(ctx context.Context) {
	var alerts *dto.AlertsResponse
	err := s.Do(ctx, func(c *Client) error {
		var err error
		alerts, err = c.Alerts(ctx)
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("verificar produtos a vencer")
		return
	}
	if alerts.Summary.Total == 0 || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, AlertTitle, AlertMessage(alerts.Summary)); err != nil {
		s.log.Warn().Err(err).Msg("notificar vencimentos")
	}
}
