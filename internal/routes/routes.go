package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/opencampus/roombook_backend/internal/config"
	"github.com/opencampus/roombook_backend/internal/controllers"
	"github.com/opencampus/roombook_backend/internal/middleware"
	"github.com/opencampus/roombook_backend/internal/models"
	"github.com/opencampus/roombook_backend/internal/service"
	"github.com/opencampus/roombook_backend/internal/ws"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, rooms *service.RoomService, reservations *service.ReservationService, hub *ws.RoomStatusHub) {
	expiresMins, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
	if err != nil || expiresMins == 0 {
		expiresMins = 60 * time.Minute
	}
	authCtrl := &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret, ExpiresIn: expiresMins}
	adminCtrl := &controllers.AdminController{DB: db}
	roomCtrl := &controllers.RoomController{Rooms: rooms}
	reservationCtrl := &controllers.ReservationController{Reservations: reservations}

	// Public
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", authCtrl.Login)
	}

	// Protected
	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{JWTSecret: cfg.JWTSecret})
	api := r.Group("/api/v1", authMW)
	{
		api.GET("/auth/me", authCtrl.Me)

		// Rooms: read for everyone signed in
		api.GET("/rooms", roomCtrl.ListRooms)
		api.GET("/rooms/available", roomCtrl.FindAvailable)
		api.GET("/rooms/:id", roomCtrl.GetRoom)

		// Equipment inventory: technicians (and admin)
		tech := api.Group("", middleware.RequireRoles(models.RoleTechnician))
		{
			tech.PUT("/rooms/:id/equipment", roomCtrl.UpdateEquipment)
		}

		// Reservations: owner-scoped; service enforces ownership
		api.POST("/reservations", reservationCtrl.Create)
		api.GET("/reservations", reservationCtrl.ListMine)
		api.GET("/reservations/:id", reservationCtrl.Get)
		api.PUT("/reservations/:id", reservationCtrl.Update)
		api.DELETE("/reservations/:id", reservationCtrl.Cancel)
		api.POST("/reservations/:id/check-in", reservationCtrl.CheckIn)
		api.POST("/reservations/:id/check-out", reservationCtrl.CheckOut)

		// Live room status feed
		api.GET("/ws/rooms", ws.RoomStatusHandler(hub))

		// Admin-only
		admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/users", adminCtrl.ListUsers)
			admin.POST("/users", authCtrl.Register)
			admin.GET("/users/:id", adminCtrl.GetUser)
			admin.PUT("/users/:id", adminCtrl.UpdateUser)
			admin.DELETE("/users/:id", adminCtrl.DeleteUser)

			admin.POST("/rooms", roomCtrl.CreateRoom)
			admin.PUT("/rooms/:id", roomCtrl.UpdateRoom)
			admin.PUT("/rooms/:id/status", roomCtrl.UpdateRoomStatus)
			admin.DELETE("/rooms/:id", roomCtrl.DeleteRoom)

			admin.GET("/reservations", reservationCtrl.ListAll)
		}
	}
}
