package router

import (
	"net/http"

	"go-storefront/apps/auth"
	cartmodel "go-storefront/apps/cart/model"
	cartrepo "go-storefront/apps/cart/repository"
	cartservice "go-storefront/apps/cart/service"
	categorymodel "go-storefront/apps/category/model"
	categoryrepo "go-storefront/apps/category/repository"
	categoryservice "go-storefront/apps/category/service"
	"go-storefront/apps/gateway/handler"
	"go-storefront/apps/gateway/middleware"
	ordermodel "go-storefront/apps/order/model"
	orderrepo "go-storefront/apps/order/repository"
	orderservice "go-storefront/apps/order/service"
	productmodel "go-storefront/apps/product/model"
	productrepo "go-storefront/apps/product/repository"
	productservice "go-storefront/apps/product/service"
	usermodel "go-storefront/apps/user/model"
	userrepo "go-storefront/apps/user/repository"
	userservice "go-storefront/apps/user/service"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/media"
	"go-storefront/pkg/response"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries the infrastructure the routes depend on. Cache and Events
// are optional. LimitCheckout requires rules loaded with
// middleware.InitRateLimit.
type Options struct {
	ServiceName       string
	DB                *gorm.DB
	Log               *zap.Logger
	Tokens            *jwt.Service
	Images            *media.Store
	Cache             productservice.ListCache
	Events            orderservice.EventPublisher
	ProtectCategories bool
	LimitCheckout     bool
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&usermodel.User{},
		&categorymodel.Category{},
		&productmodel.Product{},
		&cartmodel.CartItem{},
		&ordermodel.Order{},
		&ordermodel.OrderItem{},
	)
}

// New wires repositories, services and handlers into a gin engine.
func New(opts Options) *gin.Engine {
	handler.RegisterValidators()

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	users := userrepo.New(opts.DB)
	categories := categoryrepo.New(opts.DB)
	products := productrepo.New(opts.DB)
	carts := cartrepo.New(opts.DB)
	orders := orderrepo.New(opts.DB)

	policy := auth.NewPolicy(users)

	userSvc := userservice.New(users, opts.Tokens, log)
	categorySvc := categoryservice.New(categories, log)
	var productOpts []productservice.Option
	if opts.Cache != nil {
		productOpts = append(productOpts, productservice.WithCache(opts.Cache))
	}
	var images productservice.ImageStore
	if opts.Images != nil {
		images = opts.Images
	}
	productSvc := productservice.New(products, categorySvc, userSvc, images, log, productOpts...)
	cartSvc := cartservice.New(carts, products)
	var orderOpts []orderservice.Option
	if opts.Events != nil {
		orderOpts = append(orderOpts, orderservice.WithPublisher(opts.Events))
	}
	orderSvc := orderservice.New(orders, productSvc, log, orderOpts...)

	userH := handler.NewUserHandler(userSvc, policy)
	categoryH := handler.NewCategoryHandler(categorySvc, policy, opts.ProtectCategories)
	productH := handler.NewProductHandler(productSvc, policy)
	cartH := handler.NewCartHandler(cartSvc, policy)
	orderH := handler.NewOrderHandler(orderSvc, policy)

	name := opts.ServiceName
	if name == "" {
		name = "gateway"
	}
	r := gin.New()
	r.Use(middleware.Recovery(log), otelgin.Middleware(name), middleware.Logger(log.Named("http")))
	r.MaxMultipartMemory = 8 << 20

	if opts.Images != nil {
		r.Static(opts.Images.URLPrefix(), opts.Images.Root())
	}

	r.GET("/api/health", func(c *gin.Context) {
		sqlDB, err := opts.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "Unavailable", "database unreachable")
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	})

	requireToken := middleware.AuthMiddleware(opts.Tokens)

	usersGroup := r.Group("/users")
	{
		usersGroup.POST("", userH.Register)
		usersGroup.POST("/token", userH.Login)
		usersGroup.POST("/refresh_token", userH.RefreshToken)
		usersGroup.POST("/access_token", userH.AccessToken)
		usersGroup.GET("", requireToken, userH.List)
		usersGroup.GET("/me", requireToken, userH.Me)
		usersGroup.DELETE("/:id", requireToken, userH.Delete)
	}

	categoryToken := middleware.Optional(opts.ProtectCategories, requireToken)
	categoriesGroup := r.Group("/categories")
	{
		categoriesGroup.GET("", categoryH.List)
		categoriesGroup.GET("/:id", categoryH.Get)
		categoriesGroup.POST("", categoryToken, categoryH.Create)
		categoriesGroup.PUT("/:id", categoryToken, categoryH.Update)
		categoriesGroup.DELETE("/:id", categoryToken, categoryH.Delete)
	}

	productsGroup := r.Group("/products")
	{
		productsGroup.GET("", productH.List)
		productsGroup.GET("/:id", productH.Get)
		productsGroup.GET("/category/:id", productH.ListByCategory)
		productsGroup.POST("", requireToken, productH.Create)
		productsGroup.PUT("/:id", requireToken, productH.Update)
		productsGroup.DELETE("/:id", requireToken, productH.Delete)
	}

	cartGroup := r.Group("/cart", requireToken)
	{
		cartGroup.GET("", cartH.Get)
		cartGroup.DELETE("", cartH.Clear)
		cartGroup.POST("/items", cartH.AddItem)
		cartGroup.PUT("/items/:product_id", cartH.UpdateItem)
		cartGroup.DELETE("/items/:product_id", cartH.RemoveItem)
	}

	ordersGroup := r.Group("/orders", requireToken)
	{
		checkout := []gin.HandlerFunc{orderH.Checkout}
		if opts.LimitCheckout {
			checkout = append([]gin.HandlerFunc{middleware.RateLimit(middleware.ResourceCheckout)}, checkout...)
		}
		ordersGroup.POST("/checkout", checkout...)
		ordersGroup.GET("", orderH.List)
		ordersGroup.GET("/:id", orderH.Get)
	}

	return r
}
