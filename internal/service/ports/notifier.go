package ports

import "context"

type Notifier interface {
	SendTemplatedMessage(ctx context.Context, templateID, recipient string, vars map[string]string) error
}
