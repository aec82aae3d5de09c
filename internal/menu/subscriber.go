package menu

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	selfevents "github.com/thewinery/selforder/internal/events"
)

// UpdateSubscriber listens for menu change announcements and refreshes the
// catalog so connected tablets see backend edits without a restart.
type UpdateSubscriber struct {
	subscriber events.Subscriber
	catalog    *Catalog
	logger     apt.Logger
}

func NewUpdateSubscriber(sub events.Subscriber, catalog *Catalog, logger apt.Logger) *UpdateSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &UpdateSubscriber{
		subscriber: sub,
		catalog:    catalog,
		logger:     logger,
	}
}

func (s *UpdateSubscriber) Start(ctx context.Context) error {
	s.logger.Info("starting menu update subscriber", "topic", selfevents.MenuUpdatedTopic)
	if s.catalog != nil {
		if err := s.catalog.Warm(ctx); err != nil {
			s.logger.Info("menu catalog warmup failed", "error", err)
		}
	}
	if s.subscriber == nil {
		return fmt.Errorf("menu update subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, selfevents.MenuUpdatedTopic, s.handleEvent)
}

func (s *UpdateSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Info("menu refresh after update event failed", "error", err)
	}
	return nil
}
