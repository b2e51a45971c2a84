// Package payment adapts payment providers to ports.PaymentGateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/money"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
)

var (
	ErrGatewayDisabled     = errors.New("payment gateway is not configured")
	ErrUnsupportedCurrency = errors.New("currency not supported by gateway")
	ErrInvalidRefund       = errors.New("invalid refund request")
	ErrRefundRejected      = errors.New("refund rejected by gateway")
)

// MidtransCurrency is the only currency Midtrans settles refunds in.
const MidtransCurrency = money.IDR

// refunder is the part of coreapi.Client the gateway uses.
type refunder interface {
	RefundTransaction(orderID string, req *coreapi.RefundReq) (*coreapi.RefundResponse, *midtrans.Error)
}

// MidtransGateway issues refunds through the Midtrans Core API. The payment
// reference is the Midtrans order id of the captured charge.
type MidtransGateway struct {
	client refunder
	log    *slog.Logger
	now    func() time.Time
}

// NewMidtransGateway builds a gateway for the sandbox or production
// environment.
func NewMidtransGateway(serverKey string, production bool, log *slog.Logger) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	var c coreapi.Client
	c.New(serverKey, env)
	return newMidtransGateway(&c, log)
}

func newMidtransGateway(client refunder, log *slog.Logger) *MidtransGateway {
	return &MidtransGateway{client: client, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Supports reports whether refunds in c can be issued through Midtrans.
func (g *MidtransGateway) Supports(c money.Currency) bool { return c == MidtransCurrency }

func (g *MidtransGateway) CreateRefund(ctx context.Context, req ports.RefundRequest) (ports.RefundResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.RefundResult{}, err
	}
	if req.PaymentReference == "" {
		return ports.RefundResult{}, fmt.Errorf("%w: payment reference is required", ErrInvalidRefund)
	}
	if req.AmountMinor <= 0 {
		return ports.RefundResult{}, fmt.Errorf("%w: amount must be positive", ErrInvalidRefund)
	}
	if !g.Supports(req.Currency) {
		return ports.RefundResult{}, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, req.Currency)
	}

	resp, merr := g.client.RefundTransaction(req.PaymentReference, &coreapi.RefundReq{
		RefundKey: req.IdempotencyKey,
		Amount:    req.AmountMinor,
		Reason:    req.ReasonCode,
	})
	if merr != nil {
		return ports.RefundResult{}, fmt.Errorf("midtrans refund %s: %w", req.PaymentReference, merr)
	}
	if resp == nil {
		return ports.RefundResult{}, fmt.Errorf("midtrans refund %s: empty response", req.PaymentReference)
	}
	if resp.StatusCode != "200" && resp.StatusCode != "201" {
		return ports.RefundResult{}, fmt.Errorf("%w: %s %s", ErrRefundRejected, resp.StatusCode, resp.StatusMessage)
	}

	refundID := resp.RefundKey
	if refundID == "" {
		refundID = req.IdempotencyKey
	}
	g.log.Info("refund issued",
		slog.String("payment_reference", req.PaymentReference),
		slog.String("refund_id", refundID),
		slog.String("registration_id", req.Metadata["registration_id"]),
		slog.Int64("amount_minor", req.AmountMinor),
		slog.String("status", resp.TransactionStatus),
	)
	return ports.RefundResult{
		RefundID:    refundID,
		Status:      resp.TransactionStatus,
		AmountMinor: req.AmountMinor,
		ProcessedAt: g.now(),
	}, nil
}

// DisabledGateway fails every refund. It stands in when no provider key is
// configured, so cancelled events still get bookkeeping and notifications
// while paid registrations stay for manual follow-up.
type DisabledGateway struct{}

func (DisabledGateway) CreateRefund(_ context.Context, req ports.RefundRequest) (ports.RefundResult, error) {
	return ports.RefundResult{}, fmt.Errorf("refund %s: %w", req.PaymentReference, ErrGatewayDisabled)
}

var (
	_ ports.PaymentGateway = (*MidtransGateway)(nil)
	_ ports.PaymentGateway = DisabledGateway{}
)
