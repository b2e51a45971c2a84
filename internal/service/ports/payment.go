package ports

import (
	"context"
	"time"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
)

// RefundRequest is one refund against a captured payment. AmountMinor is in
// integer minor units of Currency.
type RefundRequest struct {
	PaymentReference string
	AmountMinor      int64
	Currency         money.Currency
	ReasonCode       string
	IdempotencyKey   string
	Metadata         map[string]string
}

type RefundResult struct {
	RefundID    string
	Status      string
	AmountMinor int64
	ProcessedAt time.Time
}

type PaymentGateway interface {
	CreateRefund(ctx context.Context, req RefundRequest) (RefundResult, error)
}
