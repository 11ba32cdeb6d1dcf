// Package reports holds the incident report model and the intake pipeline.
package reports

import (
	"fmt"
	"strings"

	"github.com/utec-cloud/incident-hub/internal/errs"
)

const (
	DefaultTenant  = "utec"
	DefaultUrgency = "media"

	EstadoPendiente = "pendiente"
)

// Report is one incident record. tenant_id + uuid form the store key.
type Report struct {
	TenantID      string `json:"tenant_id"`
	UUID          string `json:"uuid"`
	TipoIncidente string `json:"tipo_incidente"`
	NivelUrgencia string `json:"nivel_urgencia"`
	Ubicacion     string `json:"ubicacion"`
	TipoUsuario   string `json:"tipo_usuario"`
	Descripcion   string `json:"descripcion"`
	Estado        string `json:"estado"`
}

// Submission carries the fields a client may send when filing a report.
type Submission struct {
	TenantID      string `json:"tenant_id,omitempty"`
	TipoIncidente string `json:"tipo_incidente,omitempty"`
	NivelUrgencia string `json:"nivel_urgencia,omitempty"`
	Ubicacion     string `json:"ubicacion,omitempty"`
	TipoUsuario   string `json:"tipo_usuario,omitempty"`
	Descripcion   string `json:"descripcion,omitempty"`
}

// validate checks the required submission fields and names every missing one.
func (s Submission) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"tipo_incidente", s.TipoIncidente},
		{"ubicacion", s.Ubicacion},
		{"tipo_usuario", s.TipoUsuario},
		{"descripcion", s.Descripcion},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errs.Validation(fmt.Sprintf("faltan campos obligatorios: %s", strings.Join(missing, ", ")))
	}
	return nil
}
