package auth

import (
	"testing"

	"github.com/rcampos/diapredict-be/internal/models"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	user := models.User{ID: "user-123", Username: "mdiaz"}

	tok, err := GenerateJWT(user, secret)
	require.NoError(t, err)

	claims, err := ValidateJWT(tok, secret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Username, claims.Username)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	tok, err := GenerateJWT(models.User{ID: "u1", Username: "alex"}, []byte("right"))
	require.NoError(t, err)

	_, err = ValidateJWT(tok, []byte("wrong"))
	require.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token", []byte("secret"))
	require.Error(t, err)
}
