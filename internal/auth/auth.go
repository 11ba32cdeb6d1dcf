// Package auth implements account registration and login. Per the system's
// scope this is deliberately un-hardened: plain credential comparison and an
// email token, exactly like the handlers it replaces.
package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/utec-cloud/incident-hub/internal/errs"
)

// Account kinds, stored in separate tables.
const (
	KindAdmin   = "admin"
	KindUsuario = "usuario"
)

const (
	emailDomain       = "@utec.edu.pe"
	minPasswordLength = 6
)

// Account is one stored credential record.
type Account struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nombre   string `json:"nombre"`
}

// Store is the durable account backend. Get reports unknown emails via an
// errs.CodeNotFound error.
type Store interface {
	Put(ctx context.Context, kind string, acc Account) error
	Get(ctx context.Context, kind, email string) (Account, error)
}

// Service handles admin registration and admin/user login.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// RegisterAdmin creates an admin account after the original's domain checks.
func (s *Service) RegisterAdmin(ctx context.Context, email, password, nombre string) (Account, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	nombre = strings.TrimSpace(nombre)

	if email == "" || password == "" || nombre == "" {
		return Account{}, errs.Validation("faltan campos: email, password, nombre")
	}
	if !strings.HasSuffix(email, emailDomain) {
		return Account{}, errs.Validation("solo se aceptan emails " + emailDomain)
	}
	if len(password) < minPasswordLength {
		return Account{}, errs.Validation("la contraseña debe tener al menos 6 caracteres")
	}

	if _, err := s.store.Get(ctx, KindAdmin, email); err == nil {
		return Account{}, errs.Conflict("el email ya está registrado")
	} else if errs.CodeOf(err) != errs.CodeNotFound {
		return Account{}, errs.Storage("no se pudo verificar el email", err)
	}

	acc := Account{Email: email, Password: password, Nombre: nombre}
	if err := s.store.Put(ctx, KindAdmin, acc); err != nil {
		return Account{}, errs.Storage("no se pudo registrar el admin", err)
	}
	slog.Info("admin registrado", "email", email)
	return acc, nil
}

// LoginAdmin checks admin credentials.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (Account, error) {
	return s.login(ctx, KindAdmin, email, password)
}

// LoginUsuario checks user credentials.
func (s *Service) LoginUsuario(ctx context.Context, email, password string) (Account, error) {
	return s.login(ctx, KindUsuario, email, password)
}

func (s *Service) login(ctx context.Context, kind, email, password string) (Account, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return Account{}, errs.Validation("faltan campos: email, password")
	}

	acc, err := s.store.Get(ctx, kind, email)
	if err != nil {
		if errs.CodeOf(err) == errs.CodeNotFound {
			return Account{}, errs.Unauthorized("email o contraseña incorrectos")
		}
		return Account{}, errs.Storage("no se pudo consultar la cuenta", err)
	}
	if acc.Password != password {
		return Account{}, errs.Unauthorized("email o contraseña incorrectos")
	}
	return acc, nil
}

// Token derives the session token handed back after login. The original
// used the bare email; kept until a real session scheme lands.
func Token(acc Account) string { return acc.Email }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
