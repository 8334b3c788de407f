// main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/clinicbook/clinic-server/config"
	_ "github.com/clinicbook/clinic-server/docs"
	"github.com/clinicbook/clinic-server/endpoint"
	"github.com/clinicbook/clinic-server/middleware"
	"github.com/clinicbook/clinic-server/model"
	"github.com/clinicbook/clinic-server/util"
)

// @title           Clinic Booking API
// @version         1.0
// @description     Patients search doctors and book appointments; doctors manage a weekly schedule; admins manage all entities.
// @BasePath        /
// @securityDefinitions.apikey SessionToken
// @in header
// @name session-token
func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	db, err := config.ConnectMySQL()
	if err != nil {
		log.Fatalf("Error connecting to MySQL: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}

	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, rate limiting and triage sessions disabled: %v", err)
	}
	util.SetAuditLoggerDB(db)
	util.InitUserEmailCache(0)
	if err := util.InitGeoIP(""); err != nil {
		log.Printf("GeoIP disabled: %v", err)
	}

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	// Create a Gin router with default middleware
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.EndpointCallLogger())
	router.Use(middleware.RateLimiter(middleware.RateLimitConfig{}))

	// Basic HTTP handler for root path
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	router.GET("/appointments", endpoint.ListAppointments)
	router.GET("/appointments/unscheduled", endpoint.ListUnscheduledAppointments)
	router.POST("/appointments", endpoint.CreateAppointment)
	router.POST("/appointments/book", endpoint.BookAppointment)
	router.GET("/appointments/:id", endpoint.GetAppointment)
	router.PUT("/appointments/:id", endpoint.UpdateAppointment)
	router.DELETE("/appointments/:id", endpoint.DeleteAppointment)

	router.GET("/patients", endpoint.ListPatients)
	router.POST("/patients", endpoint.CreatePatient)
	router.GET("/patients/:id", endpoint.GetPatient)
	router.PUT("/patients/:id", endpoint.UpdatePatient)
	router.DELETE("/patients/:id", endpoint.DeletePatient)

	router.GET("/doctors", endpoint.ListDoctors)
	router.POST("/doctors", endpoint.CreateDoctor)
	router.GET("/doctors/schedule", middleware.SessionAuth(), endpoint.GetMySchedule)
	router.GET("/doctors/:id", endpoint.GetDoctor)
	router.PUT("/doctors/:id", endpoint.UpdateDoctor)
	router.DELETE("/doctors/:id", endpoint.DeleteDoctor)
	router.GET("/doctors/:id/schedule", endpoint.GetDoctorSchedule)
	router.GET("/doctors/:id/ratings", endpoint.ListDoctorRatings)

	router.GET("/ambulances", endpoint.ListAmbulances)
	router.POST("/ambulances", endpoint.CreateAmbulance)
	router.GET("/ambulances/:id", endpoint.GetAmbulance)
	router.PATCH("/ambulances/:id/location", endpoint.UpdateAmbulanceLocation)
	router.DELETE("/ambulances/:id", endpoint.DeleteAmbulance)

	router.POST("/ratings", endpoint.CreateRating)

	router.POST("/triage/:sessionId", endpoint.PostTriageMessage)
	router.GET("/triage/:sessionId", endpoint.GetTriageSession)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
