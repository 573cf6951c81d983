package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/angelmondragon/furiarock-backend/api/responses"
	wompiwebhook "github.com/angelmondragon/furiarock-backend/internal/webhooks/wompi"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
)

const maxEventBytes = 1 << 20

type eventHandler interface {
	HandleEvent(ctx context.Context, raw []byte) wompiwebhook.Outcome
}

// WompiWebhook acknowledges every delivery with 200 so the gateway does not
// retry events that were rejected or ignored on purpose. The outcome is only
// visible in logs and metrics.
func WompiWebhook(svc eventHandler, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "read webhook body", err)
			}
			responses.WriteSuccess(w, map[string]bool{"received": true})
			return
		}

		if svc != nil {
			outcome := svc.HandleEvent(ctx, payload)
			if logg != nil {
				logg.Debug(logg.WithField(ctx, "outcome", string(outcome)), "webhook acknowledged")
			}
		} else if logg != nil {
			logg.Warn(ctx, "webhook service unavailable; acknowledging delivery")
		}
		responses.WriteSuccess(w, map[string]bool{"received": true})
	}
}
