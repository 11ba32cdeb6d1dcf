package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/utec-cloud/incident-hub/internal/auth"
)

type accountInfo struct {
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
}

func registerAuthHandlers(api huma.API, svc AuthService) {
	type registerInput struct {
		Body struct {
			Email    string `json:"email,omitempty"`
			Password string `json:"password,omitempty"`
			Nombre   string `json:"nombre,omitempty"`
		}
	}
	type registerOutput struct {
		Body struct {
			Mensaje string      `json:"mensaje"`
			Admin   accountInfo `json:"admin"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "register-admin", Method: http.MethodPost, Path: "/api/v1/auth/admin/registro", Summary: "Register an administrator", Tags: []string{"Auth"}, DefaultStatus: http.StatusCreated},
		func(ctx context.Context, input *registerInput) (*registerOutput, error) {
			acc, err := svc.RegisterAdmin(ctx, input.Body.Email, input.Body.Password, input.Body.Nombre)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &registerOutput{}
			out.Body.Mensaje = "Admin registrado exitosamente"
			out.Body.Admin = accountInfo{Email: acc.Email, Nombre: acc.Nombre}
			return out, nil
		})

	type loginInput struct {
		Body struct {
			Email    string `json:"email,omitempty"`
			Password string `json:"password,omitempty"`
		}
	}
	type adminLoginOutput struct {
		Body struct {
			Mensaje string      `json:"mensaje"`
			Admin   accountInfo `json:"admin"`
			Token   string      `json:"token"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "login-admin", Method: http.MethodPost, Path: "/api/v1/auth/admin/login", Summary: "Administrator login", Tags: []string{"Auth"}},
		func(ctx context.Context, input *loginInput) (*adminLoginOutput, error) {
			acc, err := svc.LoginAdmin(ctx, input.Body.Email, input.Body.Password)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &adminLoginOutput{}
			out.Body.Mensaje = "Login exitoso"
			out.Body.Admin = accountInfo{Email: acc.Email, Nombre: acc.Nombre}
			out.Body.Token = auth.Token(acc)
			return out, nil
		})

	type userLoginOutput struct {
		Body struct {
			Mensaje string      `json:"mensaje"`
			Usuario accountInfo `json:"usuario"`
			Token   string      `json:"token"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "login-usuario", Method: http.MethodPost, Path: "/api/v1/auth/usuario/login", Summary: "User login", Tags: []string{"Auth"}},
		func(ctx context.Context, input *loginInput) (*userLoginOutput, error) {
			acc, err := svc.LoginUsuario(ctx, input.Body.Email, input.Body.Password)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &userLoginOutput{}
			out.Body.Mensaje = "Login exitoso"
			out.Body.Usuario = accountInfo{Email: acc.Email, Nombre: acc.Nombre}
			out.Body.Token = auth.Token(acc)
			return out, nil
		})
}
