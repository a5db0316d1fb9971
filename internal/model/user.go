package model

// Role is a staff role; only admin gates anything today.
type Role string

const (
	RoleDoctor     Role = "doctor"
	RoleNurse      Role = "nurse"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// Roles lists every valid role, used by the request validators.
var Roles = []Role{RoleDoctor, RoleNurse, RoleTechnician, RoleAdmin}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// User is a staff member. PasswordHash never leaves the process.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	Department   string `json:"department"`
}

// Identity is the caller resolved from a credential.
type Identity struct {
	UserID     string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Profile is the public view of a user.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Role: u.Role, Department: u.Department}
}

// UserPatch carries the fields an admin may change. Nil means unchanged.
type UserPatch struct {
	Name       *string
	Role       *Role
	Department *string
}

// CreateStaffRequest is the admin "add staff" payload.
type CreateStaffRequest struct {
	ID         string `json:"id" binding:"required,max=32"`
	Name       string `json:"name" binding:"required,max=64"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Role       Role   `json:"role" binding:"required,role"`
	Department string `json:"department" binding:"required,max=64"`
}

// UpdateStaffRequest is the admin "edit staff" payload; absent fields are
// left untouched.
type UpdateStaffRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=64"`
	Role       *Role   `json:"role" binding:"omitempty,role"`
	Department *string `json:"department" binding:"omitempty,min=1,max=64"`
}

func (r UpdateStaffRequest) Patch() UserPatch {
	return UserPatch{Name: r.Name, Role: r.Role, Department: r.Department}
}
