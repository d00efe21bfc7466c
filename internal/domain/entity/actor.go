package entity

// Role rol del usuario que invoca una operación del motor.
type Role string

// Roles reconocidos por el motor. El resto de la gestión de usuarios
// (contraseñas, sesiones) vive fuera de este núcleo.
const (
	RoleAdmin     Role = "admin"
	RoleWarehouse Role = "warehouse"
	RoleSales     Role = "sales"
)

// Valid indica si el rol es uno de los reconocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWarehouse, RoleSales:
		return true
	}
	return false
}

// Actor identidad actuante adjunta a cada llamada que escribe bitácora
// o aplica reglas de autorización. La capa de rutas la construye desde el JWT.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin indica si el actor tiene privilegios administrativos.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
