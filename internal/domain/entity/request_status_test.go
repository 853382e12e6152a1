package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestKind(t *testing.T) {
	cases := map[string]RequestKind{
		"hospital-session":         KindHospitalSession,
		"hospital-sessions":        KindHospitalSession,
		"home-care":                KindHomeCare,
		"home-care-requests":       KindHomeCare,
		"health-supplies":          KindHealthSupplies,
		"health-supplies-requests": KindHealthSupplies,
	}
	for in, want := range cases {
		got, err := ParseRequestKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRequestKind("pharmacy")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCanonicalMapping(t *testing.T) {
	c, ok := KindHealthSupplies.Canonical(StatusOutForDelivery)
	require.True(t, ok)
	assert.Equal(t, CanonicalInProgress, c)

	_, ok = KindHomeCare.Canonical(StatusDeclined)
	assert.False(t, ok, "home-care has no declined status")

	assert.True(t, KindHospitalSession.IsTerminal(StatusDeclined))
	assert.True(t, KindHealthSupplies.IsTerminal(StatusDelivered))
	assert.False(t, KindHealthSupplies.IsTerminal(StatusAssigned))
}

func TestPlanTransition_StampsAcceptOnce(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	change, err := PlanTransition(KindHospitalSession, Timeline{Status: StatusPending}, StatusAccepted, true, now)
	require.NoError(t, err)
	assert.True(t, change.StampAccepted)
	assert.False(t, change.StampClosed)

	earlier := now.Add(-time.Hour)
	change, err = PlanTransition(KindHospitalSession, Timeline{Status: StatusPending, AcceptedAt: &earlier}, StatusAccepted, true, now)
	require.NoError(t, err)
	assert.False(t, change.StampAccepted)
}

func TestPlanTransition_TerminalStampsClosed(t *testing.T) {
	now := time.Now().UTC()
	change, err := PlanTransition(KindHospitalSession, Timeline{Status: StatusPending}, StatusDeclined, true, now)
	require.NoError(t, err)
	assert.True(t, change.StampClosed)

	change, err = PlanTransition(KindHealthSupplies, Timeline{Status: StatusOutForDelivery}, StatusDelivered, true, now)
	require.NoError(t, err)
	assert.True(t, change.StampClosed)
	assert.Equal(t, now, change.At)
}

func TestPlanTransition_StrictRejectsTerminal(t *testing.T) {
	terminal := map[RequestKind]RequestStatus{
		KindHospitalSession: StatusCompleted,
		KindHomeCare:        StatusCompleted,
		KindHealthSupplies:  StatusDelivered,
	}
	for kind, status := range terminal {
		_, err := PlanTransition(kind, Timeline{Status: status}, StatusPending, true, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, kind)
	}
}

func TestPlanTransition_PermissiveOverwrites(t *testing.T) {
	closed := time.Now().Add(-time.Hour)
	change, err := PlanTransition(KindHomeCare, Timeline{Status: StatusCompleted, ClosedAt: &closed}, StatusPending, false, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, change.To)
	assert.False(t, change.StampAccepted)
	assert.False(t, change.StampClosed)
}

func TestPlanTransition_UnknownStatusAlwaysRejected(t *testing.T) {
	for _, strict := range []bool{true, false} {
		_, err := PlanTransition(KindHomeCare, Timeline{Status: StatusPending}, StatusOutForDelivery, strict, time.Now())
		assert.ErrorIs(t, err, ErrUnknownStatus)
	}
}

func TestPlanTransition_StrictRejectsSkips(t *testing.T) {
	_, err := PlanTransition(KindHealthSupplies, Timeline{Status: StatusPending}, StatusDelivered, true, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = PlanTransition(KindHospitalSession, Timeline{Status: StatusAccepted}, StatusCompleted, true, time.Now())
	assert.NoError(t, err)
}

func TestApplyStatusChange_SuppliesUsesAssignedAndDelivered(t *testing.T) {
	req := &HealthSuppliesRequest{Status: StatusPending}
	now := time.Now().UTC()

	change, err := PlanTransition(req.RequestKind(), req.Timeline(), StatusAssigned, true, now)
	require.NoError(t, err)
	req.ApplyStatusChange(change)

	assert.Equal(t, StatusAssigned, req.Status)
	require.NotNil(t, req.AssignedAt)
	assert.Equal(t, now, *req.AssignedAt)
	assert.Nil(t, req.DeliveredAt)
}

func TestActors(t *testing.T) {
	assert.True(t, KindHealthSupplies.AllowsActor(RoleFulfillment))
	assert.False(t, KindHomeCare.AllowsActor(RoleFulfillment))
	assert.False(t, KindHospitalSession.AllowsActor(RolePatient))
}
