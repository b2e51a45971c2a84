package ports

import (
	"context"
	"time"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/model"
)

type EventRepo interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	// Save writes lifecycle fields. The confirmed count is owned by Admissions
	// and is not written here.
	Save(ctx context.Context, e *model.Event) error
	// ClaimRefundRun marks the event's refund run as started. It returns false
	// when another run already claimed it.
	ClaimRefundRun(ctx context.Context, eventID string, at time.Time) (bool, error)
	ListUnclaimedCancelled(ctx context.Context) ([]string, error)
}
