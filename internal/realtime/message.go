package realtime

import "encoding/json"

// Message type discriminators on the observer wire.
const (
	TypeIncidentsList = "incidentsList"
	TypeNewIncident   = "newIncident"
	TypeNuevoReporte  = "nuevoReporte"
	TypeNotification  = "notification"
	TypeUserList      = "userList"
	TypeError         = "error"
)

// IncidentsListMessage carries the current report snapshot.
type IncidentsListMessage struct {
	Type      string `json:"type"`
	Incidents any    `json:"incidents"`
}

func NewIncidentsList(incidents any) IncidentsListMessage {
	return IncidentsListMessage{Type: TypeIncidentsList, Incidents: incidents}
}

// NewIncidentMessage announces a freshly persisted report.
type NewIncidentMessage struct {
	Type     string `json:"type"`
	Incident any    `json:"incident"`
}

func NewNewIncident(incident any) NewIncidentMessage {
	return NewIncidentMessage{Type: TypeNewIncident, Incident: incident}
}

// NuevoReporteMessage relays a client-submitted report payload untouched.
type NuevoReporteMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewNuevoReporte(data json.RawMessage) NuevoReporteMessage {
	return NuevoReporteMessage{Type: TypeNuevoReporte, Data: data}
}

// NotificationMessage is a human-readable presence note.
type NotificationMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewNotification(message string) NotificationMessage {
	return NotificationMessage{Type: TypeNotification, Message: message}
}

// UserListMessage lists the display names of every registered connection.
type UserListMessage struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

func NewUserList(users []string) UserListMessage {
	return UserListMessage{Type: TypeUserList, Users: users}
}

// ErrorMessage is sent to a single connection that issued a bad request.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}
