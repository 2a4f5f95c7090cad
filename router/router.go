package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-pos/config"
	"github.com/yeremiapane/canteen-pos/controllers"
	"github.com/yeremiapane/canteen-pos/kds"
	"github.com/yeremiapane/canteen-pos/middlewares"
	"github.com/yeremiapane/canteen-pos/services"
	"github.com/yeremiapane/canteen-pos/utils"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	DB     *gorm.DB
	Hub    *kds.Hub
	Tokens *utils.TokenManager
	Config *config.Config
}

func SetupRouter(d Deps) *gin.Engine {
	utils.UseJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.Config.AllowedOrigins))
	r.Use(middlewares.LoggerMiddleware())

	orderSvc := services.NewOrderService(d.DB, d.Hub)
	catalogSvc := services.NewCatalogService(d.DB)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(d.DB, d.Tokens, d.Config.EmailDomain)
	categoryCtrl := controllers.NewMenuCategoryController(catalogSvc)
	menuCtrl := controllers.NewMenuItemController(catalogSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	kdsCtrl := controllers.NewKDSController(d.Hub, d.Config.AllowedOrigins)

	auth := middlewares.AuthMiddleware(d.Tokens)
	staff := middlewares.StaffOnly()

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// Rate limiter untuk login/register
	limiter := middlewares.NewRateLimiter(d.Config.AuthRateLimit)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", limiter.RateLimit(), userCtrl.Register)
		authGroup.POST("/login", limiter.RateLimit(), userCtrl.Login)
		authGroup.POST("/logout", auth, userCtrl.Logout)
		authGroup.GET("/user", auth, userCtrl.GetProfile)
	}

	categories := api.Group("/menu-categories")
	{
		categories.GET("", categoryCtrl.GetAllCategories)
		categories.GET("/:id", categoryCtrl.GetCategoryByID)
		categories.POST("", auth, staff, categoryCtrl.CreateCategory)
		categories.PUT("/:id", auth, staff, categoryCtrl.ReplaceCategory)
		categories.PATCH("/:id", auth, staff, categoryCtrl.UpdateCategory)
		categories.DELETE("/:id", auth, staff, categoryCtrl.DeleteCategory)
	}

	items := api.Group("/menu-items")
	{
		items.GET("", menuCtrl.GetAllMenuItems)
		items.GET("/:id", menuCtrl.GetMenuItemByID)
		items.POST("", auth, staff, menuCtrl.CreateMenuItem)
		items.PUT("/:id", auth, staff, menuCtrl.ReplaceMenuItem)
		items.PATCH("/:id", auth, staff, menuCtrl.UpdateMenuItem)
		items.DELETE("/:id", auth, staff, menuCtrl.DeleteMenuItem)
	}

	// Membuat order tidak perlu login
	orders := api.Group("/orders")
	{
		orders.GET("", orderCtrl.GetAllOrders)
		orders.GET("/table", orderCtrl.OrdersTable)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.POST("", middlewares.OptionalAuth(d.Tokens), orderCtrl.CreateOrder)
		orders.PUT("/:id", auth, staff, orderCtrl.ReplaceOrder)
		orders.PATCH("/:id", auth, staff, orderCtrl.UpdateOrder)
		orders.DELETE("/:id", auth, staff, orderCtrl.DeleteOrder)
	}

	// Endpoint KDS WebSocket
	// browsers do not follow the trailing slash redirect on upgrade
	wsAuth := middlewares.WebSocketAuthMiddleware(d.Tokens, d.Config.WSRequireStaff)
	r.GET("/ws/orders", wsAuth, kdsCtrl.OrdersSocket)
	r.GET("/ws/orders/", wsAuth, kdsCtrl.OrdersSocket)

	return r
}
