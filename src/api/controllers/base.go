package controllers

import (
	"time"

	"portfolio/src/clients/backend"
	"portfolio/src/config"
	"portfolio/src/services"
	"portfolio/src/services/balance"
	"portfolio/src/services/catalog"
	"portfolio/src/services/pricing"
	"portfolio/src/services/workflow"
	"portfolio/src/session"

	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators shared by every controller.
type Dependencies struct {
	Backend    backend.BackendClientI
	Sessions   *session.Registry
	Catalog    catalog.ServiceI
	Pricing    pricing.ServiceI
	Balances   balance.GatewayI
	Workflows  *workflow.Registry
	Reports    services.ReportServiceI
	Categories map[string]string
	Now        func() time.Time
}

// NewDependencies builds the services around client. Closing or evicting a session drops its
// order workflow and its last confirmed balance.
func NewDependencies(cfg *config.Config, client backend.BackendClientI, pins workflow.PINVerifier, prices pricing.PriceCache, logger *logrus.Logger) Dependencies {
	sessions := session.NewRegistry(cfg.Service.SessionTTL)
	gateway := balance.NewGateway(client)
	workflows := workflow.NewRegistry(workflow.Dependencies{
		Orders:   client,
		Balances: gateway,
		PINs:     pins,
		Units:    workflow.NewUnits(cfg.Workflow.WholeUnitTypes),
		Logger:   logger,
	})
	sessions.OnClose(workflows.Close)
	sessions.OnClose(gateway.Forget)

	return Dependencies{
		Backend:   client,
		Sessions:  sessions,
		Catalog:   catalog.NewService(client, cfg.Catalog.CacheTTL),
		Pricing:   pricing.NewService(client, prices, cfg.Pricing.CacheTTL, cfg.Pricing.MaxConcurrency, logger),
		Balances:  gateway,
		Workflows: workflows,
		Reports:   services.NewReportService(),
	}
}

func (d Dependencies) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
