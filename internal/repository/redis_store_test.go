package repository

import (
	"context"
	"testing"
	"time"

	"health-concierge/internal/converter"
	"health-concierge/internal/domain/entity"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceStore_LoadEmptyDevice(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	store := NewDeviceStore(db)

	mock.ExpectMGet("device:d1:role", "device:d1:assistant_id", "device:d1:patient_id").
		SetVal([]interface{}{nil, nil, nil})

	ids, err := store.Load(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleNone, ids.Role)
	assert.Nil(t, ids.AssistantID)
	assert.Nil(t, ids.PatientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceStore_LoadAssistant(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	store := NewDeviceStore(db)
	id := uuid.New()

	mock.ExpectMGet("device:d2:role", "device:d2:assistant_id", "device:d2:patient_id").
		SetVal([]interface{}{"assistant", id.String(), nil})

	ids, err := store.Load(context.Background(), "d2")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAssistant, ids.Role)
	require.NotNil(t, ids.AssistantID)
	assert.Equal(t, id, *ids.AssistantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceStore_SaveDropsUnsetIdentifiers(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	store := NewDeviceStore(db)
	patientID := uuid.New()

	mock.ExpectSet("device:d3:role", "patient", 0).SetVal("OK")
	mock.ExpectDel("device:d3:assistant_id").SetVal(0)
	mock.ExpectSet("device:d3:patient_id", patientID.String(), 0).SetVal("OK")

	err := store.Save(context.Background(), "d3", &entity.DeviceIdentifiers{
		Role:      entity.RolePatient,
		PatientID: &patientID,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftStore_MissingDraftIsNil(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	store := NewDraftStore(db)

	mock.ExpectGet("device:d4:onboarding_draft").RedisNil()

	draft, err := store.Get(context.Background(), "d4")
	require.NoError(t, err)
	assert.Nil(t, draft)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftStore_GetDecodes(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	store := NewDraftStore(db)

	mock.ExpectGet("device:d5:onboarding_draft").SetVal(`{"name":"Akua","services":["Maternity"]}`)

	draft, err := store.Get(context.Background(), "d5")
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, "Akua", *draft.Name)
	assert.Equal(t, []string{"Maternity"}, draft.Services)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRequestCache_DisabledWithZeroTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	cache := NewOpenRequestCache(db, converter.NewMapper(true))

	// no command may reach redis
	require.NoError(t, cache.Set(context.Background(), []entity.OpenRequest{}, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRequestCache_GetDecodesSummaries(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	cache := NewOpenRequestCache(db, converter.NewMapper(true))
	id := uuid.New()
	items := []entity.OpenRequest{{
		ID:              id,
		Kind:            entity.KindHealthSupplies,
		KindLabel:       "Health Supplies",
		Title:           "Kwesi",
		Subtitle:        "Prescription order",
		Location:        "Spintex Road",
		Status:          entity.StatusPending,
		CanonicalStatus: entity.CanonicalSubmitted,
		CreatedAt:       time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
		RequesterName:   "Kwesi",
	}}
	data, err := converter.MarshalRecords(converter.OpenRequestsToRecords(items))
	require.NoError(t, err)

	mock.ExpectGet(openRequestsKey).SetVal(string(data))

	got, hit, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, items, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenRequestCache_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	cache := NewOpenRequestCache(db, converter.NewMapper(false))

	mock.ExpectGet(openRequestsKey).RedisNil()

	got, hit, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_RevokeAll(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	store := NewTokenStore(db)

	mock.ExpectKeys("access_token:abc:*").SetVal([]string{"access_token:abc:1", "access_token:abc:2"})
	mock.ExpectDel("access_token:abc:1", "access_token:abc:2").SetVal(2)

	require.NoError(t, store.RevokeAll(context.Background(), "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStore_Exists(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()
	store := NewTokenStore(db)

	mock.ExpectExists("access_token:abc:t1").SetVal(1)

	ok, err := store.Exists(context.Background(), "abc", "t1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
