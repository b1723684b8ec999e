package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/interfaces/http/handler"
	"github.com/tms/backend/internal/interfaces/http/middleware"
)

// Handlers holds every HTTP handler served under the API prefix
type Handlers struct {
	Auth        *handler.AuthHandler
	Tenant      *handler.TenantHandler
	User        *handler.UserHandler
	Role        *handler.RoleHandler
	Warehouse   *handler.WarehouseHandler
	Driver      *handler.DriverHandler
	Vehicle     *handler.VehicleHandler
	Booking     *handler.BookingHandler
	Container   *handler.ContainerHandler
	ProductLine *handler.ProductLineHandler
	PutAway     *handler.PutAwayHandler
	Allocation  *handler.AllocationHandler
	Pickup      *handler.PickupHandler
	Dispatch    *handler.DispatchHandler
	Dashboard   *handler.DashboardHandler
	System      *handler.SystemHandler
}

// Public API paths, relative to the API base path
const (
	OnboardPath  = "/tenants/onboard"
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"
)

// TenantlessPaths are served without tenant resolution
func TenantlessPaths(base string) []string {
	return []string{base + OnboardPath, base + "/system/info"}
}

// SessionlessPaths are served without a session
func SessionlessPaths(base string) []string {
	return append(TenantlessPaths(base), base+LoginPath, base+RegisterPath)
}

func perm(permission string) gin.HandlerFunc {
	return middleware.RequirePermission(permission)
}

// crudRoutes registers list, create, get, update and delete under a group.
// A nil update leaves the resource without PUT.
type crudRoutes struct {
	List, Create, Get, Update, Delete gin.HandlerFunc
}

func (r crudRoutes) register(g *DomainGroup, resource string) {
	g.GET("", perm(resource+":read"), r.List)
	g.POST("", perm(resource+":create"), r.Create)
	g.GET("/:id", perm(resource+":read"), r.Get)
	if r.Update != nil {
		g.PUT("/:id", perm(resource+":update"), r.Update)
	}
	g.DELETE("/:id", perm(resource+":delete"), r.Delete)
}

// DomainGroups builds the API route groups. Every route except the public
// ones requires a resource:action permission.
func DomainGroups(h Handlers) []*DomainGroup {
	tenants := NewDomainGroup("tenants", "/tenants")
	tenants.POST("/onboard", h.Tenant.Onboard)
	tenants.GET("/current", perm("tenant:read"), h.Tenant.GetCurrent)
	tenants.PUT("/current", perm("tenant:update"), h.Tenant.UpdateCurrent)

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/me", h.Auth.Me)
	authRoutes.PUT("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("users", "/tenant-users")
	crudRoutes{h.User.List, h.User.Create, h.User.Get, h.User.Update, h.User.Delete}.register(users, "users")
	users.POST("/:id/approve", perm("users:update"), h.User.Approve)
	users.POST("/:id/suspend", perm("users:update"), h.User.Suspend)
	users.POST("/:id/reactivate", perm("users:update"), h.User.Reactivate)

	roles := NewDomainGroup("roles", "/tenant-roles")
	crudRoutes{h.Role.List, h.Role.Create, h.Role.Get, h.Role.Update, h.Role.Delete}.register(roles, "roles")

	warehouses := NewDomainGroup("warehouses", "/warehouses")
	crudRoutes{h.Warehouse.List, h.Warehouse.Create, h.Warehouse.Get, h.Warehouse.Update, h.Warehouse.Delete}.register(warehouses, "warehouses")
	warehouses.POST("/:id/activate", perm("warehouses:update"), h.Warehouse.Activate)
	warehouses.POST("/:id/deactivate", perm("warehouses:update"), h.Warehouse.Deactivate)

	drivers := NewDomainGroup("drivers", "/drivers")
	crudRoutes{h.Driver.List, h.Driver.Create, h.Driver.Get, h.Driver.Update, h.Driver.Delete}.register(drivers, "fleet")
	drivers.POST("/:id/status", perm("fleet:update"), h.Driver.SetStatus)

	vehicles := NewDomainGroup("vehicles", "/vehicles")
	crudRoutes{h.Vehicle.List, h.Vehicle.Create, h.Vehicle.Get, h.Vehicle.Update, h.Vehicle.Delete}.register(vehicles, "fleet")
	vehicles.POST("/:id/status", perm("fleet:update"), h.Vehicle.SetStatus)

	bookings := NewDomainGroup("bookings", "/container-bookings")
	crudRoutes{h.Booking.List, h.Booking.Create, h.Booking.Get, h.Booking.Update, h.Booking.Delete}.register(bookings, "bookings")
	bookings.POST("/:id/confirm", perm("bookings:update"), h.Booking.Confirm)
	bookings.POST("/:id/cancel", perm("bookings:update"), h.Booking.Cancel)
	bookings.POST("/:id/complete", perm("bookings:update"), h.Booking.Complete)
	bookings.POST("/:id/attachments", perm("bookings:update"), h.Booking.UploadAttachment)
	bookings.GET("/:id/attachments", perm("bookings:read"), h.Booking.ListAttachments)

	containers := NewDomainGroup("containers", "/container-details")
	crudRoutes{h.Container.List, h.Container.Create, h.Container.Get, h.Container.Update, h.Container.Delete}.register(containers, "containers")
	containers.POST("/:id/status", perm("containers:update"), h.Container.ChangeStatus)
	containers.GET("/:id/history", perm("containers:read"), h.Container.History)

	productLines := NewDomainGroup("product-lines", "/product-lines")
	crudRoutes{h.ProductLine.List, h.ProductLine.Create, h.ProductLine.Get, h.ProductLine.Update, h.ProductLine.Delete}.register(productLines, "containers")

	putAways := NewDomainGroup("put-away-stock", "/put-away-stock")
	crudRoutes{h.PutAway.List, h.PutAway.Create, h.PutAway.Get, h.PutAway.Update, h.PutAway.Delete}.register(putAways, "stock")

	allocations := NewDomainGroup("allocations", "/container-stock-allocations")
	crudRoutes{h.Allocation.List, h.Allocation.Create, h.Allocation.Get, h.Allocation.Update, h.Allocation.Delete}.register(allocations, "stock")

	pickups := NewDomainGroup("pickups", "/pickup-stock")
	crudRoutes{List: h.Pickup.List, Create: h.Pickup.Create, Get: h.Pickup.Get, Delete: h.Pickup.Delete}.register(pickups, "stock")

	dispatches := NewDomainGroup("dispatches", "/dispatches")
	crudRoutes{h.Dispatch.List, h.Dispatch.Create, h.Dispatch.Get, h.Dispatch.Update, h.Dispatch.Delete}.register(dispatches, "dispatches")
	dispatches.POST("/:id/start", perm("dispatches:update"), h.Dispatch.Start)
	dispatches.POST("/:id/complete", perm("dispatches:update"), h.Dispatch.Complete)
	dispatches.POST("/:id/cancel", perm("dispatches:update"), h.Dispatch.Cancel)
	dispatches.POST("/:id/delivery-note", perm("dispatches:read"), h.Dispatch.DeliveryNote)

	dashboard := NewDomainGroup("dashboard", "/dashboard")
	dashboard.GET("/summary", perm("dashboard:read"), h.Dashboard.Summary)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{
		tenants, authRoutes, users, roles, warehouses, drivers, vehicles,
		bookings, containers, productLines, putAways, allocations, pickups,
		dispatches, dashboard, system,
	}
}
