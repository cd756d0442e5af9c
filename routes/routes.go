package routes

import (
	"github.com/gin-gonic/gin"

	"storefront/controllers"
	"storefront/middleware"
)

func RegisterRoutes(r *gin.Engine) {

	api := r.Group("/api")
	api.Use(middleware.GuestIdentity(), middleware.OptionalAuth())
	{
		users := api.Group("/users")
		{
			users.POST("/register", controllers.Register)
			users.POST("/login", controllers.Login)
			users.POST("/logout", controllers.Logout)
			users.POST("/request-otp", controllers.RequestOtp)
			users.POST("/verify-otp", controllers.VerifyOtp)
		}

		api.GET("/products", controllers.GetProducts)
		api.GET("/products/:idOrSlug", controllers.GetProduct)
		api.GET("/categories", controllers.ListCategories)
		api.GET("/collections", controllers.ListCollections)

		cart := api.Group("/cart")
		{
			cart.GET("", controllers.GetCart)
			cart.POST("", controllers.AddToCart)
			cart.PATCH("", controllers.UpdateCartItem)
			cart.DELETE("", controllers.RemoveFromCart)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", controllers.Checkout)
			orders.GET("", controllers.GetOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PATCH("/:id", controllers.UpdateOrder)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/paypal/create", controllers.PayPalCreate)
			payments.POST("/paypal/capture", controllers.PayPalCapture)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			admin.GET("/products", controllers.GetProductsAdmin)
			admin.POST("/products", controllers.CreateProduct)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.PATCH("/products/:id/publish", controllers.PublishProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)

			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)
			admin.DELETE("/categories/:id", controllers.DeleteCategory)
			admin.POST("/collections", controllers.CreateCollection)
			admin.PUT("/collections/:id", controllers.UpdateCollection)
			admin.DELETE("/collections/:id", controllers.DeleteCollection)

			admin.GET("/orders", controllers.GetOrdersAdmin)
		}
	}
}
