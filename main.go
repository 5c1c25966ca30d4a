package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tailortrack-backend/config"
	"tailortrack-backend/models"
	"tailortrack-backend/routes"
	"tailortrack-backend/services"
	"tailortrack-backend/store"
	"tailortrack-backend/utils"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.InitLogger()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Phone{},
		&models.Book{},
		&models.Bill{},
		&models.BillMeasurement{},
		&models.GarmentType{},
		&models.DeliveryReminderLog{},
	)

	seedAdmin()
	seedGarmentTypes()
}

func main() {
	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

// seedAdmin creates a default admin account on a fresh database so the first
// login is possible. The PIN must be changed after setup.
func seedAdmin() {
	var count int64
	config.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	pin := os.Getenv("DEFAULT_ADMIN_PIN")
	if pin == "" {
		pin = "1234"
	}
	pinHash, err := utils.HashPin(pin)
	if err != nil {
		config.Log.Fatal("failed to hash default admin PIN", zap.Error(err))
	}

	admin := models.User{
		Name:     "admin",
		PinHash:  pinHash,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := store.CreateUser(config.DB, &admin); err != nil {
		config.Log.Fatal("failed to seed admin user", zap.Error(err))
	}
	config.Log.Info("Seeded default admin user, change the PIN after first login")
}

// seedGarmentTypes loads the measurement catalog used by the intake form.
func seedGarmentTypes() {
	var count int64
	config.DB.Model(&models.GarmentType{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []struct {
		name string
		keys string
	}{
		{"Shirt", `["length","chest","waist","shoulder","sleeve","collar"]`},
		{"Pant", `["length","waist","hip","thigh","knee","bottom"]`},
		{"Kurta", `["length","chest","waist","shoulder","sleeve","collar"]`},
		{"Blouse", `["length","chest","waist","shoulder","sleeve"]`},
		{"Suit", `["length","chest","waist","shoulder","sleeve","collar"]`},
	}
	for _, d := range defaults {
		gt := models.GarmentType{
			Name:            d.name,
			MeasurementKeys: datatypes.JSON(d.keys),
			IsActive:        true,
		}
		if err := config.DB.Create(&gt).Error; err != nil {
			config.Log.Warn("failed to seed garment type",
				zap.String("name", d.name), zap.Error(err))
		}
	}
	config.Log.Info("Seeded garment type catalog")
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
