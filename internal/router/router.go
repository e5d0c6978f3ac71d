package router

import (
	"github.com/gin-gonic/gin"

	"scout_dev_v1_202609/internal/controller"
	"scout_dev_v1_202609/internal/middleware"
)

// Controllers 控制器集合
type Controllers struct {
	User    *controller.UserController
	Product *controller.ProductController
	Health  *controller.HealthController
}

// SetupRouter 注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")
	{
		// health 健康检查（公开）
		api.GET("/health", ctls.Health.Check)

		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// POST /api/auth/login
			auth.POST("/login", ctls.User.Login)
			// GET /api/auth/profile
			auth.GET("/profile", middleware.JWTAuth(), ctls.User.GetProfile)
		}

		// product 商品组（需要登录）
		products := api.Group("/products", middleware.JWTAuth())
		{
			// POST /api/products/analyze
			products.POST("/analyze", ctls.Product.Analyze)
			// GET /api/products
			products.GET("", ctls.Product.GetProducts)
			// GET /api/products/:id
			products.GET("/:id", ctls.Product.GetProduct)
			// GET /api/products/:id/recommendations
			products.GET("/:id/recommendations", ctls.Product.GetRecommendations)
		}
	}

	return r
}
