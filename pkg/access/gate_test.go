package access_test

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernhub/platform/pkg/access"
	"github.com/lernhub/platform/pkg/capability"
	"github.com/lernhub/platform/pkg/directory"
	"github.com/lernhub/platform/pkg/hierarchy"
	"github.com/lernhub/platform/pkg/ratelimit"
	"github.com/lernhub/platform/pkg/roles"
	"github.com/lernhub/platform/pkg/session"
)

// flakySessionStore fails a configured number of Get calls before
// delegating, to exercise the single-retry policy.
type flakySessionStore struct {
	session.Store
	failures int
}

func (f *flakySessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	if f.failures > 0 {
		f.failures--
		return nil, session.ErrStoreUnavailable
	}
	return f.Store.Get(ctx, token)
}

type gateFixture struct {
	gate     *access.Gate
	manager  *session.Manager
	users    *directory.MemoryStore
	clk      *clock.Mock
	district uuid.UUID
	school   uuid.UUID
}

func rateConfig() ratelimit.Config {
	return ratelimit.Config{
		Window:        time.Minute,
		GeneralLimit:  100,
		LoginLimit:    5,
		ExchangeLimit: 5,
	}
}

func newGateFixture(t *testing.T, sessionStore session.Store) *gateFixture {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	district := uuid.New()
	school := uuid.New()
	resolver, err := hierarchy.NewResolver([]hierarchy.Group{
		{ID: district, Name: "District"},
		{ID: school, Name: "School", ParentID: &district},
	})
	require.NoError(t, err)
	tree := hierarchy.NewTree(resolver)

	users := directory.NewMemoryStore()

	if sessionStore == nil {
		sessionStore = session.NewMemoryStore()
	}
	manager, err := session.NewManager(sessionStore, session.Config{
		IdleTTL:     30 * time.Minute,
		AbsoluteTTL: 12 * time.Hour,
	}, session.WithClock(clk))
	require.NoError(t, err)

	limiter, err := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), rateConfig(), ratelimit.WithClock(clk))
	require.NoError(t, err)

	gate := access.NewGate(
		limiter,
		manager,
		roles.NewResolver(tree, users),
		capability.NewCompiler(capability.DefaultPolicy()),
	)

	return &gateFixture{
		gate:     gate,
		manager:  manager,
		users:    users,
		clk:      clk,
		district: district,
		school:   school,
	}
}

// login gives the user a membership and an active session.
func (fx *gateFixture) login(t *testing.T, role roles.Role, groupID uuid.UUID) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	require.NoError(t, fx.users.Upsert(context.Background(), roles.Membership{
		UserID:  userID,
		GroupID: groupID,
		Role:    role,
	}))
	s, err := fx.manager.Create(context.Background(), userID)
	require.NoError(t, err)
	return userID, s.Token
}

func TestGate_Permitted(t *testing.T) {
	t.Parallel()

	fx := newGateFixture(t, nil)
	_, tok := fx.login(t, roles.RoleTeacher, fx.district)

	// Teacher at the district acts inside the school below it.
	d, err := fx.gate.Check(context.Background(), access.CheckRequest{
		ClientKey: "203.0.113.7",
		Class:     ratelimit.RouteClassGeneral,
		Token:     tok,
		Action:    capability.ActionCreateAssignment,
		GroupID:   &fx.school,
	})
	require.NoError(t, err)
	assert.Equal(t, access.OutcomePermitted, d.Outcome)
	assert.Equal(t, roles.RoleTeacher, d.Role)
	assert.Equal(t, session.StateActive, d.SessionState)
}

func TestGate_Unauthenticated(t *testing.T) {
	t.Parallel()

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Action:    capability.ActionUseTool,
			GroupID:   &fx.school,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeUnauthenticated, d.Outcome)
		assert.Equal(t, session.StateAbsent, d.SessionState)
	})

	t.Run("revoked session", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		_, tok := fx.login(t, roles.RoleTeacher, fx.school)
		require.NoError(t, fx.manager.Revoke(context.Background(), tok))

		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionUseTool,
			GroupID:   &fx.school,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeUnauthenticated, d.Outcome)
		assert.Equal(t, session.StateRevoked, d.SessionState)
	})

	t.Run("idle-expired session", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		_, tok := fx.login(t, roles.RoleTeacher, fx.school)
		fx.clk.Add(31 * time.Minute)

		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionUseTool,
			GroupID:   &fx.school,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeUnauthenticated, d.Outcome)
		assert.Equal(t, session.StateIdleExpired, d.SessionState)
	})
}

func TestGate_Forbidden(t *testing.T) {
	t.Parallel()

	t.Run("role below requirement", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		_, tok := fx.login(t, roles.RoleStudent, fx.school)

		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionCreateTool,
			GroupID:   &fx.school,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeForbidden, d.Outcome)
		assert.Equal(t, session.StateActive, d.SessionState)
	})

	t.Run("membership below the target does not apply", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		_, tok := fx.login(t, roles.RoleGroupAdmin, fx.school)

		// School admin acting at the district above: no upward inheritance.
		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionManageMembers,
			GroupID:   &fx.district,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeForbidden, d.Outcome)
		assert.Equal(t, roles.RoleNone, d.Role)
	})

	t.Run("unknown action fails closed", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		_, tok := fx.login(t, roles.RoleSystemAdmin, fx.district)

		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.Action("tools.delete_everything"),
			GroupID:   &fx.school,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeForbidden, d.Outcome)
	})

	t.Run("group-scoped action without a target", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		_, tok := fx.login(t, roles.RoleTeacher, fx.district)

		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionCreateAssignment,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeForbidden, d.Outcome)
	})

	t.Run("vanished target group", func(t *testing.T) {
		t.Parallel()

		fx := newGateFixture(t, nil)
		_, tok := fx.login(t, roles.RoleTeacher, fx.district)

		missing := uuid.New()
		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionCreateAssignment,
			GroupID:   &missing,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomeForbidden, d.Outcome)
	})
}

func TestGate_PlatformScope(t *testing.T) {
	t.Parallel()

	fx := newGateFixture(t, nil)
	_, adminTok := fx.login(t, roles.RoleSystemAdmin, fx.district)
	_, teacherTok := fx.login(t, roles.RoleTeacher, fx.district)

	d, err := fx.gate.Check(context.Background(), access.CheckRequest{
		ClientKey: "203.0.113.7",
		Class:     ratelimit.RouteClassGeneral,
		Token:     adminTok,
		Action:    capability.ActionAdministerPlatform,
	})
	require.NoError(t, err)
	assert.Equal(t, access.OutcomePermitted, d.Outcome)

	d, err = fx.gate.Check(context.Background(), access.CheckRequest{
		ClientKey: "203.0.113.8",
		Class:     ratelimit.RouteClassGeneral,
		Token:     teacherTok,
		Action:    capability.ActionAdministerPlatform,
	})
	require.NoError(t, err)
	assert.Equal(t, access.OutcomeForbidden, d.Outcome)
}

func TestGate_RateLimitShortCircuits(t *testing.T) {
	t.Parallel()

	fx := newGateFixture(t, nil)

	// Exhaust the login bucket for this client.
	req := access.CheckRequest{ClientKey: "203.0.113.7", Class: ratelimit.RouteClassLogin}
	for i := 0; i < rateConfig().LoginLimit; i++ {
		d, err := fx.gate.Check(context.Background(), req)
		require.NoError(t, err)
		require.Equal(t, access.OutcomePermitted, d.Outcome)
	}

	d, err := fx.gate.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, access.OutcomeRateLimited, d.Outcome)
	assert.Nil(t, d.Session)
	assert.Zero(t, d.Rate.Remaining)

	// Another client's bucket is unaffected.
	d, err = fx.gate.Check(context.Background(), access.CheckRequest{
		ClientKey: "203.0.113.8",
		Class:     ratelimit.RouteClassLogin,
	})
	require.NoError(t, err)
	assert.Equal(t, access.OutcomePermitted, d.Outcome)
}

func TestGate_StoreFailureRetry(t *testing.T) {
	t.Parallel()

	t.Run("single failure recovers", func(t *testing.T) {
		t.Parallel()

		flaky := &flakySessionStore{Store: session.NewMemoryStore(), failures: 1}
		fx := newGateFixture(t, flaky)
		_, tok := fx.login(t, roles.RoleTeacher, fx.school)

		d, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionCreateAssignment,
			GroupID:   &fx.school,
		})
		require.NoError(t, err)
		assert.Equal(t, access.OutcomePermitted, d.Outcome)
	})

	t.Run("persistent failure is an error, not a denial", func(t *testing.T) {
		t.Parallel()

		flaky := &flakySessionStore{Store: session.NewMemoryStore(), failures: 2}
		fx := newGateFixture(t, flaky)
		_, tok := fx.login(t, roles.RoleTeacher, fx.school)

		_, err := fx.gate.Check(context.Background(), access.CheckRequest{
			ClientKey: "203.0.113.7",
			Class:     ratelimit.RouteClassGeneral,
			Token:     tok,
			Action:    capability.ActionCreateAssignment,
			GroupID:   &fx.school,
		})
		require.ErrorIs(t, err, session.ErrStoreUnavailable)
	})
}
