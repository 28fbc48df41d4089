package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/estate-accounting/internal/model"
)

// Parser validates access tokens issued by the identity provider and
// extracts the request principal from their claims.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

type claims struct {
	jwt.RegisteredClaims
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	CompanyID  string `json:"company_id"`
	AgentID    string `json:"agent_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}

	userID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid subject claim: %w", err)
	}
	companyID, err := uuid.Parse(parsed.CompanyID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("invalid company claim: %w", err)
	}

	role := model.Role(parsed.Role)
	switch role {
	case model.RoleAdmin, model.RoleAccountant, model.RoleAgent, model.RoleCustomer:
	default:
		return model.Principal{}, fmt.Errorf("unknown role %q", parsed.Role)
	}

	principal := model.Principal{
		UserID:    userID,
		FullName:  parsed.FullName,
		Role:      role,
		CompanyID: companyID,
	}
	if parsed.AgentID != "" {
		agentID, err := uuid.Parse(parsed.AgentID)
		if err != nil {
			return model.Principal{}, fmt.Errorf("invalid agent claim: %w", err)
		}
		principal.AgentID = &agentID
	}
	if parsed.CustomerID != "" {
		customerID, err := uuid.Parse(parsed.CustomerID)
		if err != nil {
			return model.Principal{}, fmt.Errorf("invalid customer claim: %w", err)
		}
		principal.CustomerID = &customerID
	}
	return principal, nil
}
