package notify

import (
	"context"
	"fmt"

	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/metrics"
)

type emailSender interface {
	Send(ctx context.Context, templateID string, params map[string]any) error
	OrderTemplateID() string
	SellerTemplateID() string
}

// Service turns order events into confirmation emails.
type Service interface {
	HandleOrderPlaced(ctx context.Context, event OrderPlaced) error
}

type service struct {
	sender      emailSender
	emailCfg    config.EmailJSConfig
	pricing     config.PricingConfig
	sellerEmail string
	siteOrigin  string
	logg        *logger.Logger
	jobMetrics  *metrics.EmailJobMetrics
}

// NewService wires the email handler.
func NewService(sender emailSender, cfg *config.Config, logg *logger.Logger, jobMetrics *metrics.EmailJobMetrics) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("email sender is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		sender:      sender,
		emailCfg:    cfg.EmailJS,
		pricing:     cfg.Pricing,
		sellerEmail: cfg.Seller.Email,
		siteOrigin:  cfg.App.SiteOrigin,
		logg:        logg,
		jobMetrics:  jobMetrics,
	}, nil
}

// HandleOrderPlaced sends the customer confirmation and the seller alert.
// The customer email is the one that matters; a seller alert failure is
// logged and swallowed so the event is not redelivered forever.
func (s *service) HandleOrderPlaced(ctx context.Context, event OrderPlaced) error {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": event.OrderID,
		"event_id": event.EventID,
	})

	customerTemplate := s.sender.OrderTemplateID()
	params := customerParams(event, s.emailCfg, s.pricing, s.siteOrigin)
	if err := s.sender.Send(ctx, customerTemplate, params); err != nil {
		s.jobMetrics.IncFailure(customerTemplate)
		return fmt.Errorf("sending order confirmation: %w", err)
	}
	s.jobMetrics.IncSent(customerTemplate)
	s.logg.Info(logCtx, "order confirmation sent")

	sellerTemplate := s.sender.SellerTemplateID()
	alert := sellerParams(event, s.sellerEmail, s.pricing, s.siteOrigin)
	if err := s.sender.Send(ctx, sellerTemplate, alert); err != nil {
		s.jobMetrics.IncFailure(sellerTemplate)
		s.logg.Error(logCtx, "seller alert failed", err)
		return nil
	}
	s.jobMetrics.IncSent(sellerTemplate)
	s.logg.Info(logCtx, "seller alert sent")
	return nil
}
