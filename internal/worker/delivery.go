package worker

import (
	"context"
	"time"

	"github.com/tegami/tegami-backend/internal/service"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
)

// DeliveryTaskName identifies the in-transit letter reconciler
const DeliveryTaskName = "penpal-letter-delivery"

// RegisterDelivery schedules DeliverDue every interval
func RegisterDelivery(s *Scheduler, letters service.PenpalLetterService, interval time.Duration) {
	s.Register(DeliveryTaskName, interval, func(ctx context.Context) error {
		n, err := letters.DeliverDue(ctx)
		if n > 0 {
			pkglogger.Ctx(ctx).Info().Int("delivered", n).Msg("penpal letters delivered")
		}
		return err
	})
}
