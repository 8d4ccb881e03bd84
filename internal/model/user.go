package model

import (
	"sort"

	"golang.org/x/crypto/bcrypt"
)

// User is an operator of the point of sale.
type User struct {
	BaseModel
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string      `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string      `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber  string      `gorm:"type:varchar(20)" json:"phone_number"`
	RoleID       *uint       `gorm:"index" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool        `gorm:"not null" json:"is_active"`
	Privileges   []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion string      `gorm:"type:varchar(255);default:''" json:"-"` // single session enforcement
}

// SetPassword stores the bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// GetPrivilegeCodes returns the union of role and user privileges, sorted.
func (u *User) GetPrivilegeCodes() []string {
	seen := make(map[string]struct{})
	if u.Role != nil {
		for _, p := range u.Role.Privileges {
			seen[p.Code] = struct{}{}
		}
	}
	for _, p := range u.Privileges {
		seen[p.Code] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Operator is the public view of a user returned by the auth endpoints.
type Operator struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone_number,omitempty"`
	RoleID   *uint  `json:"role_id,omitempty"`
	Active   bool   `json:"is_active"`
}

func (u *User) Operator() Operator {
	return Operator{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.PhoneNumber,
		RoleID:   u.RoleID,
		Active:   u.IsActive,
	}
}

// Actor is the audit identity for writes made by this user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.FullName, Email: u.Email}
}
