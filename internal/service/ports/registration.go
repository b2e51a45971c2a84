package ports

import (
	"context"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
)

type RegistrationRepo interface {
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	// GetByEvent returns the event's registrations in creation order.
	GetByEvent(ctx context.Context, eventID string) ([]*model.Registration, error)
}
