package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/estate-accounting/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claimsMap jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsMap)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParserParse(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()
	agentID := uuid.New()

	parser := NewParser(testSecret)
	principal, err := parser.Parse(signToken(t, testSecret, jwt.MapClaims{
		"sub":        userID.String(),
		"exp":        time.Now().Add(time.Hour).Unix(),
		"full_name":  "Test Agent",
		"role":       "AGENT",
		"company_id": companyID.String(),
		"agent_id":   agentID.String(),
	}))
	require.NoError(t, err)

	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, companyID, principal.CompanyID)
	assert.Equal(t, model.RoleAgent, principal.Role)
	assert.Equal(t, "Test Agent", principal.FullName)
	require.NotNil(t, principal.AgentID)
	assert.Equal(t, agentID, *principal.AgentID)
	assert.Nil(t, principal.CustomerID)
}

func TestParserRejectsBadTokens(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()
	parser := NewParser(testSecret)

	valid := jwt.MapClaims{
		"sub":        userID.String(),
		"exp":        time.Now().Add(time.Hour).Unix(),
		"role":       "ADMIN",
		"company_id": companyID.String(),
	}

	t.Run("wrong secret", func(t *testing.T) {
		_, err := parser.Parse(signToken(t, "other-secret", valid))
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := jwt.MapClaims{
			"sub":        userID.String(),
			"exp":        time.Now().Add(-time.Hour).Unix(),
			"role":       "ADMIN",
			"company_id": companyID.String(),
		}
		_, err := parser.Parse(signToken(t, testSecret, expired))
		require.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		bad := jwt.MapClaims{
			"sub":        userID.String(),
			"exp":        time.Now().Add(time.Hour).Unix(),
			"role":       "SUPERUSER",
			"company_id": companyID.String(),
		}
		_, err := parser.Parse(signToken(t, testSecret, bad))
		require.Error(t, err)
	})

	t.Run("missing company", func(t *testing.T) {
		bad := jwt.MapClaims{
			"sub":  userID.String(),
			"exp":  time.Now().Add(time.Hour).Unix(),
			"role": "ADMIN",
		}
		_, err := parser.Parse(signToken(t, testSecret, bad))
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parser.Parse("not-a-token")
		require.Error(t, err)
	})
}
