// Package bootstrap assembles the application services and HTTP handlers
// from infrastructure built by the caller.
package bootstrap

import (
	"time"

	"github.com/tms/backend/internal/application/dashboard"
	dispatchapp "github.com/tms/backend/internal/application/dispatch"
	"github.com/tms/backend/internal/application/document"
	fleetapp "github.com/tms/backend/internal/application/fleet"
	freightapp "github.com/tms/backend/internal/application/freight"
	identityapp "github.com/tms/backend/internal/application/identity"
	stockapp "github.com/tms/backend/internal/application/stock"
	warehouseapp "github.com/tms/backend/internal/application/warehouse"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/event"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/internal/interfaces/http/handler"
	"github.com/tms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ handler.Pinger = (*persistence.Database)(nil)

// Infrastructure is what the services run on
type Infrastructure struct {
	DB          *gorm.DB
	Bus         *event.InMemoryEventBus
	JWT         *auth.JWTService
	Blacklist   auth.TokenBlacklist
	TenantCache identity.TenantCache
	Storage     document.ObjectStorage
	HTML        document.HTMLRenderer
	// PDF is nil when delivery notes are served as HTML
	PDF    document.PDFRenderer
	Logger *zap.Logger
}

// Settings are the configuration values the services read
type Settings struct {
	SessionTTL        time.Duration
	TenantCacheTTL    time.Duration
	ReservedSubdomain []string
	CompanyName       string
}

// SettingsFromConfig extracts Settings from the loaded configuration
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		SessionTTL:        cfg.JWT.Expiration,
		TenantCacheTTL:    cfg.Tenancy.CacheTTL,
		ReservedSubdomain: cfg.Tenancy.ReservedDomains,
		CompanyName:       cfg.Documents.CompanyName,
	}
}

// Services holds every application service
type Services struct {
	Repos *persistence.Repositories

	Auth    *identityapp.AuthService
	Tenant  *identityapp.TenantService
	User    *identityapp.UserService
	Role    *identityapp.RoleService
	History *freightapp.StatusHistoryHandler

	Warehouse   *warehouseapp.WarehouseService
	Driver      *fleetapp.DriverService
	Vehicle     *fleetapp.VehicleService
	Booking     *freightapp.BookingService
	Container   *freightapp.ContainerService
	ProductLine *freightapp.ProductLineService
	PutAway     *stockapp.PutAwayService
	Allocation  *stockapp.AllocationService
	Pickup      *stockapp.PickupService
	Dispatch    *dispatchapp.DispatchService
	Notes       *dispatchapp.DeliveryNoteService
	Dashboard   *dashboard.Service
}

// NewServices builds the services and subscribes the status history
// projection to the event bus
func NewServices(infra Infrastructure, settings Settings) *Services {
	log := infra.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := persistence.NewRepositories(infra.DB)
	tx := persistence.NewGormTransactionScope(infra.DB, infra.Bus)

	s := &Services{
		Repos: r,
		Auth:  identityapp.NewAuthService(r.User, r.Role, infra.JWT, infra.Blacklist, identityapp.DefaultAuthServiceConfig(), log),
		Tenant: identityapp.NewTenantService(r.Tenant, infra.TenantCache, tx, identityapp.TenantServiceConfig{
			CacheTTL:          settings.TenantCacheTTL,
			ReservedSubdomain: settings.ReservedSubdomain,
		}, log),
		User:    identityapp.NewUserService(r.User, r.Role, infra.Blacklist, settings.SessionTTL, log),
		Role:    identityapp.NewRoleService(r.Role, r.User, log),
		History: freightapp.NewStatusHistoryHandler(r.StatusHistory, log),

		Warehouse:   warehouseapp.NewWarehouseService(r.Warehouse, r.PutAway, r.Booking, tx, log),
		Driver:      fleetapp.NewDriverService(r.Driver, log),
		Vehicle:     fleetapp.NewVehicleService(r.Vehicle, log),
		Booking:     freightapp.NewBookingService(r.Booking, r.Container, r.Warehouse, infra.Storage, tx, log),
		Container:   freightapp.NewContainerService(r.Container, r.Booking, r.ProductLine, r.StatusHistory, r.PutAway, r.Allocation, tx, log),
		ProductLine: freightapp.NewProductLineService(r.ProductLine, r.Container, r.PutAway, tx, log),
		PutAway:     stockapp.NewPutAwayService(r.PutAway, tx, log),
		Allocation:  stockapp.NewAllocationService(r.Allocation, tx, log),
		Pickup:      stockapp.NewPickupService(r.Pickup, tx, log),
		Dispatch:    dispatchapp.NewDispatchService(r.Dispatch, tx, log),
		Dashboard:   dashboard.NewService(r.Container, r.Booking, r.Dispatch, r.PutAway),
	}
	s.Notes = dispatchapp.NewDeliveryNoteService(dispatchapp.DeliveryNoteRepositories{
		Tenants:     r.Tenant,
		Dispatches:  r.Dispatch,
		Containers:  r.Container,
		Bookings:    r.Booking,
		Warehouses:  r.Warehouse,
		Drivers:     r.Driver,
		Vehicles:    r.Vehicle,
		Allocations: r.Allocation,
		PutAways:    r.PutAway,
	}, infra.HTML, infra.PDF, infra.Storage, settings.CompanyName, log)

	if infra.Bus != nil {
		infra.Bus.Subscribe(s.History)
	}
	return s
}

// HandlerOptions are the HTTP-level values handlers need
type HandlerOptions struct {
	Cookie  config.CookieConfig
	AppName string
	Version string
	DB      handler.Pinger
}

// Handlers builds the HTTP handlers over the services
func (s *Services) Handlers(opts HandlerOptions) router.Handlers {
	return router.Handlers{
		Auth:        handler.NewAuthHandler(s.Auth, opts.Cookie),
		Tenant:      handler.NewTenantHandler(s.Tenant),
		User:        handler.NewUserHandler(s.User),
		Role:        handler.NewRoleHandler(s.Role),
		Warehouse:   handler.NewWarehouseHandler(s.Warehouse),
		Driver:      handler.NewDriverHandler(s.Driver),
		Vehicle:     handler.NewVehicleHandler(s.Vehicle),
		Booking:     handler.NewBookingHandler(s.Booking),
		Container:   handler.NewContainerHandler(s.Container),
		ProductLine: handler.NewProductLineHandler(s.ProductLine),
		PutAway:     handler.NewPutAwayHandler(s.PutAway),
		Allocation:  handler.NewAllocationHandler(s.Allocation),
		Pickup:      handler.NewPickupHandler(s.Pickup),
		Dispatch:    handler.NewDispatchHandler(s.Dispatch, s.Notes),
		Dashboard:   handler.NewDashboardHandler(s.Dashboard),
		System:      handler.NewSystemHandler(opts.AppName, opts.Version, opts.DB),
	}
}
