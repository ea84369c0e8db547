package models

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerhub/db"
	"volunteerhub/utils"
)

func init() { utils.PasswordCost = 4 }

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	sqldb, err := db.Open(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })
	require.NoError(t, db.InitSchema(ctx, sqldb))
	// idempotent
	require.NoError(t, db.InitSchema(ctx, sqldb))
	return sqldb
}

func TestSQLUserRepository(t *testing.T) {
	ctx := context.Background()
	users := NewSQLUserRepository(openTestDB(t))

	u := User{Email: "a@example.org", Password: "secret", UserType: UserTypeIndividual, Name: "Ann"}
	require.NoError(t, users.Create(ctx, &u))
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret", u.Password, "password must be stored hashed")

	dup := User{Email: "a@example.org", Password: "x", UserType: UserTypeIndividual}
	assert.ErrorIs(t, users.Create(ctx, &dup), ErrDuplicateEmail)

	got, err := users.ValidateCredentials(ctx, "a@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, UserTypeIndividual, got.UserType)

	_, err = users.ValidateCredentials(ctx, "a@example.org", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.ValidateCredentials(ctx, "nobody@example.org", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", byID.Name)
	assert.Empty(t, byID.Password)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLRegistrationRepository(t *testing.T) {
	ctx := context.Background()
	regs := NewSQLRegistrationRepository(openTestDB(t))

	require.NoError(t, regs.Register(ctx, "u1", "e1"))
	require.NoError(t, regs.Register(ctx, "u2", "e1"))
	require.NoError(t, regs.Register(ctx, "u1", "e2"))
	assert.ErrorIs(t, regs.Register(ctx, "u1", "e1"), ErrAlreadyRegistered)

	ids, err := regs.EventIDsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, ids)

	who, err := regs.Registrants(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, who)

	none, err := regs.Registrants(ctx, "e9")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)

	all, err := regs.RegistrantsByEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"e1": {"u1", "u2"}, "e2": {"u1"}}, all)

	require.NoError(t, regs.Cancel(ctx, "u1", "e1"))
	assert.ErrorIs(t, regs.Cancel(ctx, "u1", "e1"), ErrNotFound)
	// re-registering after a cancel is allowed
	require.NoError(t, regs.Register(ctx, "u1", "e1"))
}

func TestSQLApplicationRepository(t *testing.T) {
	ctx := context.Background()
	apps := NewSQLApplicationRepository(openTestDB(t))

	a := Application{UserID: "u1", OpportunityID: "o1"}
	require.NoError(t, apps.Create(ctx, &a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, ApplicationPending, a.Status)
	assert.False(t, a.CreatedAt.IsZero())

	again := Application{UserID: "u1", OpportunityID: "o1"}
	err := apps.Create(ctx, &again)
	assert.True(t, errors.Is(err, ErrAlreadyApplied), "got %v", err)

	require.NoError(t, apps.Create(ctx, &Application{UserID: "u2", OpportunityID: "o1"}))
	require.NoError(t, apps.Create(ctx, &Application{UserID: "u1", OpportunityID: "o2"}))

	mine, err := apps.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o1", mine[0].OpportunityID)
	assert.Equal(t, "o2", mine[1].OpportunityID)

	who, err := apps.Applicants(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, who)

	all, err := apps.ApplicantsByOpportunity(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"o1": {"u1", "u2"}, "o2": {"u1"}}, all)
}

func TestMembershipHelpers(t *testing.T) {
	e := Event{RegisteredUsers: []string{"u1"}}
	assert.True(t, e.HasRegistrant("u1"))
	assert.False(t, e.HasRegistrant("u2"))
	assert.False(t, e.HasRegistrant(""))

	o := Opportunity{Applicants: []string{"u1"}}
	assert.True(t, o.HasApplicant("u1"))
	assert.False(t, o.HasApplicant(""))
}

func TestViewer(t *testing.T) {
	var anon *Viewer
	assert.False(t, anon.IsIndividual())
	assert.False(t, anon.IsOrganization())
	assert.True(t, (&Viewer{UserType: UserTypeIndividual}).IsIndividual())
	assert.True(t, (&Viewer{UserType: UserTypeOrganization}).IsOrganization())
	assert.True(t, ValidUserType("organization"))
	assert.False(t, ValidUserType("admin"))
}
