package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/config"
	"github.com/yeremiapane/waffle-wala/controllers"
	"github.com/yeremiapane/waffle-wala/database"
	"github.com/yeremiapane/waffle-wala/kds"
	"github.com/yeremiapane/waffle-wala/middlewares"
	"github.com/yeremiapane/waffle-wala/services"
	"github.com/yeremiapane/waffle-wala/storage"
)

// App holds every service the routes need.
type App struct {
	Config      *config.Config
	Store       database.Store
	Hub         *kds.Hub
	Monitor     *services.ChangeMonitor
	Holds       *services.PaymentHolds
	Stock       *services.StockGateway
	Carts       *services.CartService
	Tracker     *services.OrderTracker
	Orders      *services.OrderService
	Admin       *services.AdminService
	Ops         *services.OperationsService
	Suggestions *services.SuggestionService
	Menu        *services.MenuService
}

// NewApp wires the services over one document store and one session storage.
func NewApp(cfg *config.Config, store database.Store, kv storage.Storage) *App {
	hub := kds.NewHub()
	monitor := services.NewChangeMonitor(store, hub)
	monitor.Interval = cfg.MonitorInterval

	stock := services.NewStockGateway(store)
	carts := services.NewCartService(kv, stock)
	holds := services.NewPaymentHolds(cfg.UPIID, cfg.PaymentHoldTimeout)
	tracker := services.NewOrderTracker(kv, store, monitor)
	ops := services.NewOperationsService(store)

	return &App{
		Config:      cfg,
		Store:       store,
		Hub:         hub,
		Monitor:     monitor,
		Holds:       holds,
		Stock:       stock,
		Carts:       carts,
		Tracker:     tracker,
		Orders:      services.NewOrderService(store, stock, carts, holds, tracker, ops),
		Admin:       services.NewAdminService(store, stock),
		Ops:         ops,
		Suggestions: services.NewSuggestionService(store),
		Menu:        services.NewMenuService(stock),
	}
}

func SetupRouter(app *App) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(app.Config.AllowedOrigin))
	r.Use(middlewares.SessionMiddleware())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	menuCtrl := controllers.NewMenuController(app.Menu, app.Ops)
	cartCtrl := controllers.NewCartController(app.Carts)
	checkoutCtrl := controllers.NewCheckoutController(app.Orders)
	orderCtrl := controllers.NewOrderController(app.Orders, app.Tracker)
	suggestionCtrl := controllers.NewSuggestionController(app.Suggestions)
	kdsCtrl := controllers.NewKDSController(app.Hub, app.Tracker)
	adminCtrl, err := controllers.NewAdminController(app.Admin, app.Ops, app.Config.AdminKey)
	if err != nil {
		return nil, err
	}

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/menu", menuCtrl.GetMenu)
	r.GET("/settings/operations", menuCtrl.GetOperations)

	cart := r.Group("/cart")
	{
		cart.GET("", cartCtrl.GetCart)
		cart.DELETE("", cartCtrl.ClearCart)
		cart.POST("/items", cartCtrl.AddItem)
		cart.POST("/items/:key/increment", cartCtrl.Increment)
		cart.POST("/items/:key/decrement", cartCtrl.Decrement)
		cart.DELETE("/items/:key", cartCtrl.RemoveItem)
	}

	// Checkout dan suggestion dibatasi per IP
	checkoutLimiter := middlewares.NewRateLimiter(time.Second, 10)
	checkout := r.Group("/checkout")
	checkout.Use(checkoutLimiter.RateLimit())
	{
		checkout.POST("", checkoutCtrl.Checkout)
		checkout.POST("/holds/:hold_id/confirm", checkoutCtrl.ConfirmHold)
		checkout.DELETE("/holds/:hold_id", checkoutCtrl.CancelHold)
	}

	r.GET("/orders/track", orderCtrl.TrackOrder)
	r.DELETE("/orders/track", orderCtrl.DismissTracking)
	r.GET("/orders/:order_id/status", orderCtrl.GetOrderStatus)

	suggestionLimiter := middlewares.NewRateLimiter(10*time.Second, 3)
	r.POST("/suggestions", suggestionLimiter.RateLimit(), suggestionCtrl.Submit)

	// Endpoint WebSocket, token admin opsional
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), kdsCtrl.Handler)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	loginLimiter := middlewares.NewStrictRateLimiter()
	r.POST("/admin/login", loginLimiter.RateLimit(), adminCtrl.Login)

	admin := r.Group("/admin")
	admin.Use(middlewares.AdminAuthMiddleware(), middlewares.RoleCheck(middlewares.RoleAdmin))
	{
		admin.POST("/logout", adminCtrl.Logout)

		admin.GET("/orders", adminCtrl.ListOrders)
		admin.GET("/orders/export", adminCtrl.ExportOrders)
		admin.POST("/orders/:order_id/complete", adminCtrl.CompleteOrder)
		admin.POST("/orders/:order_id/cancel", adminCtrl.CancelOrder)
		admin.POST("/orders/:order_id/status", adminCtrl.AdvanceOrder)
		admin.DELETE("/orders/:order_id", adminCtrl.DeleteOrder)

		admin.GET("/inventory", adminCtrl.GetInventory)
		admin.PUT("/inventory/:name", adminCtrl.SetStock)

		admin.GET("/dashboard", adminCtrl.GetDashboard)
		admin.PUT("/settings/operations", adminCtrl.SetOperations)
		admin.POST("/settings/operations/toggle", adminCtrl.ToggleOperations)

		admin.GET("/suggestions", suggestionCtrl.List)
		admin.PATCH("/suggestions/:id", suggestionCtrl.SetRead)
		admin.DELETE("/suggestions/:id", suggestionCtrl.Delete)
	}

	return r, nil
}
