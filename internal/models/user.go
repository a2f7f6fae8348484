package models

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAnalyst  Role = "analyst"
	RoleNormal   Role = "normal"
	RoleOperator Role = "operator"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleAnalyst, RoleNormal, RoleOperator:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is an account that can authenticate against the API. OperatorID is set
// only for operator accounts and carries the operator's own short code.
type User struct {
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password" json:"-"`
	Role         Role      `db:"type" json:"role"`
	OperatorID   string    `db:"operatorid" json:"operator_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
