package services

import (
	"path/filepath"
	"testing"

	"github.com/rcampos/diapredict-be/internal/database"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *testDeps {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return &testDeps{users: NewUserService(db), events: NewEventService(db, nil)}
}

type testDeps struct {
	users  *UserService
	events *EventService
}

func TestRegisterThenAuthenticate(t *testing.T) {
	deps := newTestDB(t)

	user, err := deps.users.Register("mdiaz", "s3cret-pass", "mdiaz@example.com", "Maria Diaz")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Empty(t, user.PasswordHash, "hash must never leave the service")

	got, err := deps.users.Authenticate("mdiaz", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "Maria Diaz", got.FullName)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	deps := newTestDB(t)

	_, err := deps.users.Register("mdiaz", "s3cret-pass", "mdiaz@example.com", "Maria Diaz")
	require.NoError(t, err)

	_, wrongPass := deps.users.Authenticate("mdiaz", "not-the-password")
	_, unknownUser := deps.users.Authenticate("nobody", "s3cret-pass")

	require.ErrorIs(t, wrongPass, ErrAuthenticationFailed)
	require.ErrorIs(t, unknownUser, ErrAuthenticationFailed)
	require.Equal(t, wrongPass.Error(), unknownUser.Error())
}

func TestRegister_RuleViolations(t *testing.T) {
	deps := newTestDB(t)

	cases := []struct {
		name     string
		username string
		password string
		email    string
		fullName string
		rule     string
	}{
		{"missing field", "mdiaz", "s3cret-pass", "", "Maria Diaz", RuleMissingField},
		{"short username", "md", "s3cret-pass", "md@example.com", "Maria Diaz", RuleUsernameTooShort},
		{"short password", "mdiaz", "short", "mdiaz@example.com", "Maria Diaz", RulePasswordTooShort},
		{"bad email", "mdiaz", "s3cret-pass", "not-an-email", "Maria Diaz", RuleInvalidEmail},
		{"bad email no tld", "mdiaz", "s3cret-pass", "a@b", "Maria Diaz", RuleInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := deps.users.Register(tc.username, tc.password, tc.email, tc.fullName)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.rule, verr.Rule)

			// No account may exist after a rejected registration.
			_, authErr := deps.users.Authenticate(tc.username, tc.password)
			require.ErrorIs(t, authErr, ErrAuthenticationFailed)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	deps := newTestDB(t)

	_, err := deps.users.Register("mdiaz", "s3cret-pass", "mdiaz@example.com", "Maria Diaz")
	require.NoError(t, err)

	_, err = deps.users.Register("mdiaz", "other-secret", "other@example.com", "Other Person")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, RuleUsernameTaken, verr.Rule)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	deps := newTestDB(t)

	_, err := deps.users.Register("mdiaz", "s3cret-pass", "mdiaz@example.com", "Maria Diaz")
	require.NoError(t, err)

	_, err = deps.users.Register("other", "other-secret", "mdiaz@example.com", "Other Person")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, RuleEmailTaken, verr.Rule)
}

func TestGetUserByID(t *testing.T) {
	deps := newTestDB(t)

	user, err := deps.users.Register("mdiaz", "s3cret-pass", "mdiaz@example.com", "Maria Diaz")
	require.NoError(t, err)

	got, err := deps.users.GetUserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, "mdiaz", got.Username)

	_, err = deps.users.GetUserByID("no-such-id")
	require.Error(t, err)
}
