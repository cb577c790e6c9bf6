package domain

// Role enumerates account roles.
type Role string

const (
	RoleCitizen         Role = "citizen"
	RoleDepartmentAdmin Role = "department-admin"
	RoleSuperAdmin      Role = "super-admin"
)

// User is the domain model for citizens and department staff.
// Department and DepartmentID are set only when Role is department-admin.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Department   string `json:"department,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
}

// IsDepartmentAdmin reports whether the user belongs to department staff.
func (u User) IsDepartmentAdmin() bool {
	return u.Role == RoleDepartmentAdmin
}
