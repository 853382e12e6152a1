package repository

import (
	"context"
	"errors"
	"fmt"

	"health-concierge/internal/domain/entity"
	domainRepo "health-concierge/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type deviceStore struct {
	client redis.Cmdable
}

func NewDeviceStore(client redis.Cmdable) domainRepo.DeviceStore {
	return &deviceStore{client: client}
}

func deviceKey(deviceID, field string) string {
	return fmt.Sprintf("device:%s:%s", deviceID, field)
}

// Load returns empty identifiers for a device never seen before.
func (s *deviceStore) Load(ctx context.Context, deviceID string) (*entity.DeviceIdentifiers, error) {
	vals, err := s.client.MGet(ctx,
		deviceKey(deviceID, "role"),
		deviceKey(deviceID, "assistant_id"),
		deviceKey(deviceID, "patient_id"),
	).Result()
	if err != nil {
		return nil, err
	}

	ids := &entity.DeviceIdentifiers{}
	if role, ok := vals[0].(string); ok {
		ids.Role = entity.UserRole(role)
	}
	if ids.AssistantID, err = parseStoredID(vals[1]); err != nil {
		return nil, fmt.Errorf("device %s assistant id: %w", deviceID, err)
	}
	if ids.PatientID, err = parseStoredID(vals[2]); err != nil {
		return nil, fmt.Errorf("device %s patient id: %w", deviceID, err)
	}
	return ids, nil
}

func parseStoredID(v interface{}) (*uuid.UUID, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (s *deviceStore) Save(ctx context.Context, deviceID string, ids *entity.DeviceIdentifiers) error {
	if ids == nil {
		return errors.New("device identifiers are required")
	}
	if err := s.setOrDel(ctx, deviceKey(deviceID, "role"), string(ids.Role)); err != nil {
		return err
	}
	var assistantID, patientID string
	if ids.AssistantID != nil {
		assistantID = ids.AssistantID.String()
	}
	if ids.PatientID != nil {
		patientID = ids.PatientID.String()
	}
	if err := s.setOrDel(ctx, deviceKey(deviceID, "assistant_id"), assistantID); err != nil {
		return err
	}
	return s.setOrDel(ctx, deviceKey(deviceID, "patient_id"), patientID)
}

func (s *deviceStore) setOrDel(ctx context.Context, key, value string) error {
	if value == "" {
		return s.client.Del(ctx, key).Err()
	}
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *deviceStore) Clear(ctx context.Context, deviceID string) error {
	return s.client.Del(ctx,
		deviceKey(deviceID, "role"),
		deviceKey(deviceID, "assistant_id"),
		deviceKey(deviceID, "patient_id"),
	).Err()
}
