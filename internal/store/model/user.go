package model

import (
	"fmt"

	"github.com/google/uuid"
)

// UserRole is the closed set of roles known to the service.
type UserRole string

const (
	RoleRequester UserRole = "requester"
	RoleOperator  UserRole = "operator"
)

func (r UserRole) Validate() error {
	switch r {
	case RoleRequester, RoleOperator:
		return nil
	default:
		return fmt.Errorf("unknown user role: %q", string(r))
	}
}

type User struct {
	ID          uuid.UUID `gorm:"primaryKey;"`
	Username    string    `gorm:"uniqueIndex;not null;type:VARCHAR(255)"`
	DisplayName string    `gorm:"type:VARCHAR(255)"`
	Role        UserRole  `gorm:"not null;type:VARCHAR(32);default:requester"`
}
