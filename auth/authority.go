package auth

import (
	"context"
	"errors"
	"fmt"

	"summercamp/models"

	"gorm.io/gorm"
)

// Authority resolves roles from the users table. Nothing is cached: a role
// change is visible to the very next request.
type Authority struct {
	db *gorm.DB
}

func NewAuthority(db *gorm.DB) *Authority {
	return &Authority{db: db}
}

// ResolveRole returns the stored role for email, RoleNone when the account is unknown.
func (a *Authority) ResolveRole(ctx context.Context, email string) (Role, error) {
	if email == "" {
		return RoleNone, nil
	}

	var user models.User
	err := a.db.WithContext(ctx).Select("role").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RoleNone, nil
	}
	if err != nil {
		return RoleNone, fmt.Errorf("resolve role: %w", err)
	}

	role, _ := ParseRole(user.Role)
	return role, nil
}

// Require resolves the role for email and fails with ErrForbidden when it is
// outside allowed.
func (a *Authority) Require(ctx context.Context, email string, allowed RoleSet) (Role, error) {
	role, err := a.ResolveRole(ctx, email)
	if err != nil {
		return RoleNone, err
	}
	if !allowed.Allows(role) {
		return role, ErrForbidden
	}
	return role, nil
}
