package service

import (
	"github.com/nurpe/estate-accounting/internal/model"
)

// canViewContract is the capability predicate for role-scoped reads:
// staff see every contract of their company, an agent only their own
// sales, a customer only their own purchases.
func canViewContract(principal model.Principal, contract *model.Contract) bool {
	if contract.CompanyID != principal.CompanyID {
		return false
	}
	switch {
	case principal.IsStaff():
		return true
	case principal.IsAgent():
		return principal.AgentID != nil && *principal.AgentID == contract.AgentID
	case principal.IsCustomer():
		return principal.CustomerID != nil && *principal.CustomerID == contract.CustomerID
	default:
		return false
	}
}
