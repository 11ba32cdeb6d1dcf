package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/utec-cloud/incident-hub/internal/reports"
)

func registerReportHandlers(api huma.API, svc ReportService) {
	type createReportInput struct {
		Body reports.Submission
	}
	type createReportOutput struct {
		Body struct {
			Mensaje string         `json:"mensaje"`
			Reporte reports.Report `json:"reporte"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "create-report", Method: http.MethodPost, Path: "/api/v1/reportes", Summary: "File a new incident report", Tags: []string{"Reportes"}, DefaultStatus: http.StatusCreated},
		func(ctx context.Context, input *createReportInput) (*createReportOutput, error) {
			r, err := svc.Submit(ctx, input.Body)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &createReportOutput{}
			out.Body.Mensaje = "Reporte creado"
			out.Body.Reporte = r
			return out, nil
		})

	type listReportsInput struct {
		TenantID string `query:"tenant_id" doc:"Tenant that owns the reports."`
	}
	type listReportsOutput struct {
		Body struct {
			Mensaje string           `json:"mensaje"`
			Items   []reports.Report `json:"items"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-reports", Method: http.MethodGet, Path: "/api/v1/reportes", Summary: "List a tenant's incident reports", Tags: []string{"Reportes"}},
		func(ctx context.Context, input *listReportsInput) (*listReportsOutput, error) {
			items, err := svc.List(ctx, input.TenantID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &listReportsOutput{}
			out.Body.Mensaje = "Reportes obtenidos correctamente"
			out.Body.Items = items
			return out, nil
		})

	type reportIDInput struct {
		UUID     string `path:"uuid"`
		TenantID string `query:"tenant_id" doc:"Tenant that owns the report."`
	}
	type getReportOutput struct {
		Body struct {
			Mensaje string         `json:"mensaje"`
			Item    reports.Report `json:"item"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-report", Method: http.MethodGet, Path: "/api/v1/reportes/{uuid}", Summary: "Get one incident report", Tags: []string{"Reportes"}},
		func(ctx context.Context, input *reportIDInput) (*getReportOutput, error) {
			r, err := svc.Get(ctx, input.TenantID, input.UUID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &getReportOutput{}
			out.Body.Mensaje = "Reporte encontrado"
			out.Body.Item = r
			return out, nil
		})

	type deleteReportOutput struct {
		Body struct {
			Mensaje string `json:"mensaje"`
			UUID    string `json:"uuid"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "delete-report", Method: http.MethodDelete, Path: "/api/v1/reportes/{uuid}", Summary: "Delete one incident report", Tags: []string{"Reportes"}},
		func(ctx context.Context, input *reportIDInput) (*deleteReportOutput, error) {
			if err := svc.Delete(ctx, input.TenantID, input.UUID); err != nil {
				return nil, mapErr(err)
			}
			out := &deleteReportOutput{}
			out.Body.Mensaje = "Reporte eliminado correctamente"
			out.Body.UUID = input.UUID
			return out, nil
		})
}
