package routes

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tailortrack-backend/config"
	"tailortrack-backend/controllers"
	"tailortrack-backend/models"
	"tailortrack-backend/services"
	"tailortrack-backend/utils"
)

func allowedOrigins() []string {
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		return strings.Split(v, ",")
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := allowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Static("/uploads", services.UploadRoot())

	auth := r.Group("/auth")
	{
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/search", controllers.SearchCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)

			customers.POST("/:id/phones", controllers.AddPhone)
			customers.PUT("/:id/phones/:phoneId/primary", controllers.SetPrimaryPhone)
			customers.DELETE("/:id/phones/:phoneId", controllers.DeletePhone)
		}

		// Book routes
		books := api.Group("/books")
		{
			books.POST("", controllers.CreateBook)
			books.GET("", controllers.GetBooks)
			books.GET("/current", controllers.GetCurrentBook)
			books.GET("/:id", controllers.GetBook)
			books.PUT("/:id", controllers.UpdateBook)
			books.DELETE("/:id", controllers.DeleteBook)
			books.GET("/:id/next-folio", controllers.GetNextFolio)
			books.GET("/:id/check-folio", controllers.CheckFolio)
			books.PUT("/:id/set-current", controllers.SetCurrentBook)
		}

		// Bill routes
		bills := api.Group("/bills")
		{
			bills.POST("", controllers.CreateBill)
			bills.GET("", controllers.GetBills)
			bills.GET("/stats", controllers.GetBillStats)
			bills.GET("/due-deliveries", controllers.GetDueDeliveries)
			bills.GET("/upcoming-deliveries", controllers.GetUpcomingDeliveries)
			bills.GET("/pending-payments", controllers.GetPendingPayments)
			bills.GET("/folio/:folio", controllers.SearchByFolio)
			bills.GET("/customer/:customerId", controllers.GetBillsByCustomer)
			bills.GET("/:id", controllers.GetBill)
			bills.PUT("/:id", controllers.UpdateBill)
			bills.DELETE("/:id", controllers.DeleteBill)
			bills.POST("/:id/payments", controllers.RecordPayment)
			bills.POST("/:id/measurements", controllers.AddMeasurement)
			bills.PUT("/:id/measurements/:measurementId/verify", controllers.VerifyMeasurement)
		}

		api.GET("/garment-types", controllers.GetGarmentTypes)

		// User management routes (admin only)
		users := api.Group("/users", utils.RequireRole(models.RoleAdmin))
		{
			users.POST("", controllers.CreateUser)
			users.GET("", controllers.GetUsers)
			users.PUT("/:id", controllers.UpdateUser)
			users.PUT("/:id/pin", controllers.ChangePin)
		}
	}

	return r
}
