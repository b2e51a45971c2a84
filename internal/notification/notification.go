// Package notification delivers templated messages. Rendering and transport
// belong to an external messaging service; LogNotifier records each send so
// operators can replay them.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
)

var ErrInvalidRecipient = errors.New("invalid recipient")

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendTemplatedMessage(ctx context.Context, templateID, recipient string, vars map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.Contains(recipient, "@") {
		return ErrInvalidRecipient
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, vars[k]))
	}

	n.log.LogAttrs(ctx, slog.LevelInfo, "notification sent",
		slog.String("template", templateID),
		slog.String("recipient", recipient),
		slog.Group("vars", attrs...),
	)
	return nil
}

var _ ports.Notifier = (*LogNotifier)(nil)
