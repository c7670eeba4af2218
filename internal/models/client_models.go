package models

import "time"

// ClientStatus is the membership state shown at the door.
type ClientStatus string

const (
	ClientStatusActive    ClientStatus = "activo"
	ClientStatusVIP       ClientStatus = "vip"
	ClientStatusSuspended ClientStatus = "suspendido"
)

// Valid reports whether s is one of the known statuses.
func (s ClientStatus) Valid() bool {
	switch s {
	case ClientStatusActive, ClientStatusVIP, ClientStatusSuspended:
		return true
	}
	return false
}

// Client represents a club patron registered for fingerprint check-in.
type Client struct {
	ID            int64        `json:"id" db:"id"`
	Names         *string      `json:"nombres" db:"nombres"`
	Surnames      *string      `json:"apellidos" db:"apellidos"`
	Email         string       `json:"correo" db:"correo"`
	Phone         string       `json:"telefono" db:"telefono"`
	DateOfBirth   time.Time    `json:"fechaNacimiento" db:"fecha_nacimiento"`
	Sex           *string      `json:"sexo" db:"sexo"`
	Status        ClientStatus `json:"estatus" db:"estatus"`
	BiometricHash *string      `json:"huellaBiometrica" db:"huella_biometrica"`
	RegisteredAt  time.Time    `json:"fechaRegistro" db:"fecha_registro"`
	LastVisitAt   *time.Time   `json:"ultimaVisita" db:"ultima_visita"`
}

// Identification is the result of a successful fingerprint check-in.
type Identification struct {
	ID          int64        `json:"id"`
	Email       string       `json:"correo"`
	Status      ClientStatus `json:"estatus"`
	LastVisitAt time.Time    `json:"ultimaVisita"`
}
