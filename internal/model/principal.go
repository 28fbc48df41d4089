package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleAccountant Role = "ACCOUNTANT"
	RoleAgent      Role = "AGENT"
	RoleCustomer   Role = "CUSTOMER"
)

// Principal is the authenticated identity attached to every request.
// AgentID/CustomerID are set only for the corresponding roles and scope
// which contracts the principal may see.
type Principal struct {
	UserID     uuid.UUID
	FullName   string
	Role       Role
	CompanyID  uuid.UUID
	AgentID    *uuid.UUID
	CustomerID *uuid.UUID
}

func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
func (p Principal) IsAccountant() bool { return p.Role == RoleAccountant }
func (p Principal) IsAgent() bool      { return p.Role == RoleAgent }
func (p Principal) IsCustomer() bool   { return p.Role == RoleCustomer }

// IsStaff reports whether the principal may operate on records beyond its
// own contracts.
func (p Principal) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleAccountant
}
