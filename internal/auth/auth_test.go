package auth

import (
	"context"
	"testing"

	"github.com/utec-cloud/incident-hub/internal/errs"
)

type fakeStore struct {
	accounts map[string]Account // keyed by kind/email
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]Account)}
}

func (s *fakeStore) Put(_ context.Context, kind string, acc Account) error {
	s.accounts[kind+"/"+acc.Email] = acc
	return nil
}

func (s *fakeStore) Get(_ context.Context, kind, email string) (Account, error) {
	acc, ok := s.accounts[kind+"/"+email]
	if !ok {
		return Account{}, errs.NotFound("cuenta no encontrada")
	}
	return acc, nil
}

func TestRegisterAdmin(t *testing.T) {
	svc := NewService(newFakeStore())

	acc, err := svc.RegisterAdmin(context.Background(), " Ana@UTEC.edu.pe ", "secret1", "Ana")
	if err != nil {
		t.Fatalf("RegisterAdmin() error = %v", err)
	}
	if got, want := acc.Email, "ana@utec.edu.pe"; got != want {
		t.Fatalf("email = %q, want %q", got, want)
	}
}

func TestRegisterAdminRejectsForeignDomain(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.RegisterAdmin(context.Background(), "ana@gmail.com", "secret1", "Ana")
	if got, want := errs.CodeOf(err), errs.CodeValidation; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
}

func TestRegisterAdminRejectsShortPassword(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.RegisterAdmin(context.Background(), "ana@utec.edu.pe", "abc", "Ana")
	if got, want := errs.CodeOf(err), errs.CodeValidation; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
}

func TestRegisterAdminDuplicate(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.RegisterAdmin(context.Background(), "ana@utec.edu.pe", "secret1", "Ana"); err != nil {
		t.Fatalf("first RegisterAdmin() error = %v", err)
	}
	_, err := svc.RegisterAdmin(context.Background(), "ana@utec.edu.pe", "secret2", "Ana")
	if got, want := errs.CodeOf(err), errs.CodeConflict; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
}

func TestLoginAdmin(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	if _, err := svc.RegisterAdmin(context.Background(), "ana@utec.edu.pe", "secret1", "Ana"); err != nil {
		t.Fatalf("RegisterAdmin() error = %v", err)
	}

	acc, err := svc.LoginAdmin(context.Background(), "ANA@utec.edu.pe", "secret1")
	if err != nil {
		t.Fatalf("LoginAdmin() error = %v", err)
	}
	if got, want := Token(acc), "ana@utec.edu.pe"; got != want {
		t.Fatalf("token = %q, want %q", got, want)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	if _, err := svc.RegisterAdmin(context.Background(), "ana@utec.edu.pe", "secret1", "Ana"); err != nil {
		t.Fatalf("RegisterAdmin() error = %v", err)
	}

	_, err := svc.LoginAdmin(context.Background(), "ana@utec.edu.pe", "wrong")
	if got, want := errs.CodeOf(err), errs.CodeUnauthorized; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewService(newFakeStore())
	_, err := svc.LoginUsuario(context.Background(), "nadie@utec.edu.pe", "secret1")
	if got, want := errs.CodeOf(err), errs.CodeUnauthorized; got != want {
		t.Fatalf("error code = %q, want %q", got, want)
	}
}
