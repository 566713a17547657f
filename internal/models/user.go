package models

import (
	"time"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSiteManager Role = "site_manager"
	RoleSupervisor  Role = "supervisor"
	RoleViewer      Role = "viewer"
)

// Actions checked by HasPermission.
const (
	ActionManageUsers    = "manage_users"
	ActionDeleteUser     = "delete_user"
	ActionViewVehicles   = "view_vehicles"
	ActionManageVehicles = "manage_vehicles"
	ActionViewLogs       = "view_logs"
	ActionWriteLogs      = "write_logs"
	ActionDeleteLogs     = "delete_logs"
	ActionViewReports    = "view_reports"
	ActionExportReports  = "export_reports"
)

// User represents a user in the system
type User struct {
	ID           string     `bson:"_id,omitempty" json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string     `bson:"username" json:"username" gorm:"uniqueIndex;not null"`
	Email        string     `bson:"email" json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `bson:"password_hash" json:"-"`
	Role         Role       `bson:"role" json:"role"`
	FirstName    string     `bson:"first_name" json:"first_name"`
	LastName     string     `bson:"last_name" json:"last_name"`
	IsActive     bool       `bson:"is_active" json:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Exp      int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleSiteManager, RoleSupervisor, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if a user has permission for a specific action
func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleSiteManager:
		return action != ActionDeleteUser && action != ActionManageUsers
	case RoleSupervisor:
		return action == ActionViewVehicles || action == ActionViewLogs ||
			action == ActionWriteLogs || action == ActionViewReports
	case RoleViewer:
		return action == ActionViewVehicles || action == ActionViewLogs ||
			action == ActionViewReports
	default:
		return false
	}
}
