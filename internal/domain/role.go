package domain

// User role constants.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// IsValidRole checks if a role string is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}
