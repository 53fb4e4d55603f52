package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/pasarkita/pasar-backend/docs"
	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/auth"
	"github.com/pasarkita/pasar-backend/internal/catalog"
	"github.com/pasarkita/pasar-backend/internal/config"
	"github.com/pasarkita/pasar-backend/internal/httpx"
	"github.com/pasarkita/pasar-backend/internal/market"
	"github.com/pasarkita/pasar-backend/internal/promo"
	"github.com/pasarkita/pasar-backend/internal/trade"
)

type deps struct {
	cfg      config.Config
	accounts account.Repository
	products catalog.Repository
	promos   promo.Repository
	agens    market.Repository
	trades   trade.Repository
	carts    trade.CartManager
	orders   trade.OrderManager
	settler  trade.Settler
	wallets  trade.WalletManager
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	api.POST("/auth/register", registerHandler(d.accounts))
	api.POST("/auth/login", loginHandler(d.accounts, d.cfg.JWTSecret, d.cfg.TokenTTL))

	api.GET("/products", listProductsHandler(d.products))
	api.GET("/products/:id", getProductHandler(d.products))
	api.GET("/categories", listCategoriesHandler(d.products))
	api.GET("/agens", listAgensHandler(d.agens))

	authed := api.Group("", auth.Middleware(d.cfg.JWTSecret))

	authed.GET("/me", meHandler(d.accounts))
	authed.GET("/users/agents", listAgentsHandler(d.accounts))

	merchant := authed.Group("", auth.RequireRole(account.RoleMerchant, account.RoleAgen, account.RoleAdmin))
	merchant.POST("/products", createProductHandler(d.products))
	merchant.PUT("/products/:id", updateProductHandler(d.products))
	merchant.DELETE("/products/:id", deleteProductHandler(d.products))
	merchant.GET("/promotions", listPromotionsHandler(d.promos))
	merchant.POST("/promotions", createPromotionHandler(d.promos))
	merchant.PUT("/promotions/:id", updatePromotionHandler(d.promos))
	merchant.DELETE("/promotions/:id", deletePromotionHandler(d.promos))
	merchant.GET("/cart/incoming", incomingCartsHandler(d.trades))
	merchant.PUT("/orders/:id/status", updateStatusHandler(d.orders))

	consumer := authed.Group("", auth.RequireRole(account.RoleConsumer))
	consumer.GET("/cart", listCartHandler(d.trades))
	consumer.POST("/cart/items", addToCartHandler(d.carts))
	consumer.PUT("/cart/items/:id", updateQuantityHandler(d.carts))
	consumer.DELETE("/cart/items/:productID", removeFromCartHandler(d.carts))
	consumer.POST("/orders/:id/checkout", checkoutHandler(d.orders))
	consumer.PUT("/orders/:id/delivery-location", deliveryLocationHandler(d.orders))
	consumer.POST("/orders/:id/settle", settleHandler(d.settler))
	consumer.POST("/orders/:id/review", reviewHandler(d.orders))

	driver := authed.Group("", auth.RequireRole(account.RoleDriver, account.RoleAdmin))
	driver.POST("/orders/:id/driver", assignDriverHandler(d.orders))
	driver.PUT("/drivers/location", driverLocationHandler(d.orders))

	authed.GET("/orders", listOrdersHandler(d.trades))
	authed.GET("/orders/:id", getOrderHandler(d.trades))
	authed.POST("/wallet/topup", topUpHandler(d.wallets))
	authed.POST("/wallet/withdraw", withdrawHandler(d.wallets))

	admin := authed.Group("", auth.RequireRole(account.RoleAdmin))
	admin.POST("/categories", createCategoryHandler(d.products))
	admin.POST("/agens", createAgenHandler(d.agens))
	admin.PUT("/agens/:id", updateAgenHandler(d.agens))
	admin.PATCH("/agens/:id/open", setAgenOpenHandler(d.agens))
	admin.DELETE("/agens/:id", deleteAgenHandler(d.agens))
	admin.GET("/reports/transactions.xlsx", exportLedgerHandler(d.trades))

	return r
}
