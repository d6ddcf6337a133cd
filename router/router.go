package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/config"
	"github.com/yeremiapane/restaurant-ops/controllers"
	"github.com/yeremiapane/restaurant-ops/kds"
	"github.com/yeremiapane/restaurant-ops/middlewares"
	"github.com/yeremiapane/restaurant-ops/models"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
	"gorm.io/gorm"
)

// Options carries everything the HTTP layer needs. Hub, Publisher and
// AuthLimiter get defaults when nil.
type Options struct {
	DB                *gorm.DB
	Tokens            *utils.TokenManager
	TokenStore        utils.TokenStore
	Hub               *kds.Hub
	Publisher         services.Publisher
	CORS              config.CORSConfig
	ReservationWindow time.Duration
	AuthLimiter       *middlewares.RateLimiter
}

func SetupRouter(opts Options) *gin.Engine {
	if opts.Hub == nil {
		opts.Hub = kds.NewHub()
	}
	if opts.AuthLimiter == nil {
		opts.AuthLimiter = middlewares.NewStrictRateLimiter()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORS))
	r.Use(middlewares.LoggerMiddleware())

	notifier := services.NewNotifier(opts.Hub, opts.Publisher)
	authSvc := services.NewAuthService(opts.DB, opts.Tokens, opts.TokenStore)
	reservationSvc := services.NewReservationService(opts.DB, opts.ReservationWindow, notifier)
	orderSvc := services.NewOrderService(opts.DB, notifier)
	paymentSvc := services.NewPaymentService(opts.DB, notifier)
	reportSvc := services.NewReportService(opts.DB)

	authCtrl := controllers.NewAuthController(authSvc)
	menuCtrl := controllers.NewMenuController(opts.DB)
	staffCtrl := controllers.NewStaffController(opts.DB)
	inventoryCtrl := controllers.NewInventoryController(opts.DB, reportSvc)
	tableCtrl := controllers.NewTableController(opts.DB, notifier)
	reservationCtrl := controllers.NewReservationController(reservationSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	paymentCtrl := controllers.NewPaymentController(paymentSvc)
	reportCtrl := controllers.NewReportController(reportSvc)
	kdsCtrl := controllers.NewKDSController(opts.Hub, opts.CORS.AllowOrigins)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/auth")
	public.Use(opts.AuthLimiter.RateLimit())
	{
		public.POST("/login", authCtrl.Login)
		public.POST("/register", authCtrl.Register)
		public.POST("/customer-login", authCtrl.CustomerLogin)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.Auth(authSvc))

	auth.POST("/auth/logout", authCtrl.Logout)
	auth.GET("/me", authCtrl.Me)
	auth.GET("/portal", authCtrl.Portal)
	auth.GET("/menu", menuCtrl.GetMenu)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/reservations/availability", reservationCtrl.CheckAvailability)

	// MANAGER
	manager := auth.Group("/manager")
	manager.Use(middlewares.RequireRoles(models.RoleManager))
	{
		manager.GET("/dashboard", reportCtrl.GetDashboard)

		manager.POST("/menu", menuCtrl.CreateMenuItem)
		manager.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)

		manager.GET("/staff", staffCtrl.GetAllStaff)
		manager.POST("/staff", staffCtrl.CreateStaff)
		manager.PATCH("/staff/:staff_id", staffCtrl.UpdateStaff)

		manager.GET("/inventory", inventoryCtrl.GetInventory)
		manager.GET("/inventory/low", inventoryCtrl.GetLowStock)
		manager.POST("/inventory", inventoryCtrl.CreateInventoryItem)
		manager.PATCH("/inventory/:inventory_id", inventoryCtrl.UpdateInventoryItem)

		manager.POST("/tables", tableCtrl.CreateTable)

		manager.GET("/reports/sales", reportCtrl.GetSalesReport)
		manager.GET("/reports/inventory", reportCtrl.GetInventoryReport)
		manager.GET("/reports/staff", reportCtrl.GetStaffReport)
		manager.GET("/reports/revenue", reportCtrl.GetRevenueReport)
		manager.GET("/reports/export.pdf", reportCtrl.ExportPDF)
	}

	// RESERVATIONS (manager front desk and customers)
	auth.GET("/reservations", middlewares.RequireRoles(models.RoleManager), reservationCtrl.GetReservations)
	auth.POST("/reservations", middlewares.RequireRoles(models.RoleManager, models.RoleCustomer), reservationCtrl.CreateReservation)
	auth.DELETE("/reservations/:reservation_id", middlewares.RequireRoles(models.RoleManager, models.RoleCustomer), reservationCtrl.CancelReservation)
	auth.GET("/customer/reservations", middlewares.RequireRoles(models.RoleCustomer), reservationCtrl.GetMyReservations)

	// WAITER
	waiter := auth.Group("/")
	waiter.Use(middlewares.RequireRoles(models.RoleWaiter, models.RoleManager))
	{
		waiter.POST("/orders", orderCtrl.PlaceOrder)
		waiter.GET("/orders/open", orderCtrl.GetOpenOrders)
		waiter.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
	}

	// CHEF
	kitchen := auth.Group("/kitchen")
	kitchen.Use(middlewares.RequireRoles(models.RoleChef))
	{
		kitchen.GET("/orders", orderCtrl.GetKitchenOrders)
		kitchen.POST("/orders/:order_id/ready", orderCtrl.MarkReady)
	}

	// CASHIER
	cashier := auth.Group("/")
	cashier.Use(middlewares.RequireRoles(models.RoleCashier))
	{
		cashier.GET("/cashier/tables", paymentCtrl.GetOccupiedTables)
		cashier.GET("/orders/:order_id/bill", paymentCtrl.GetBill)
		cashier.POST("/orders/:order_id/pay", paymentCtrl.ProcessPayment)
	}

	// Kitchen display websocket, token passed as ?token=
	auth.GET("/ws/kds", middlewares.RequireRoles(models.RoleChef, models.RoleWaiter, models.RoleManager), kdsCtrl.KDSHandler)

	return r
}
