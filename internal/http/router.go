package api

import (
	"database/sql"
	stdhttp "net/http"
	"time"

	intconfig "github.com/WayneCarlG/meet-a-vet/internal/config"
	h "github.com/WayneCarlG/meet-a-vet/internal/http/handlers"
	"github.com/WayneCarlG/meet-a-vet/internal/http/middleware"
	"github.com/WayneCarlG/meet-a-vet/internal/repositories"
	"github.com/WayneCarlG/meet-a-vet/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Deps are the constructed dependencies the router wires into handlers.
// Everything is built once at startup and injected; handlers hold no
// globals.
type Deps struct {
	Env    intconfig.Env
	DB     *sql.DB
	Pusher services.StkPusher
}

func NewRouter(d Deps) *gin.Engine {
	users := repositories.UserRepository{DB: d.DB}
	animals := repositories.AnimalRepository{DB: d.DB}
	appointments := repositories.AppointmentRepository{DB: d.DB}
	payments := repositories.PaymentRepository{DB: d.DB}

	authH := h.AuthHandler{Users: users, JWTSecret: []byte(d.Env.JWTSecret), TokenTTL: d.Env.JWTTTL}
	userH := h.UserHandler{Users: users}
	animalH := h.AnimalHandler{Animals: animals}
	apptH := h.AppointmentHandler{Appointments: appointments, Users: users}
	paymentH := h.PaymentHandler{Payments: payments, Appointments: appointments, Pusher: d.Pusher}
	adminH := h.AdminHandler{Users: users, Appointments: appointments, Payments: payments}
	videoH := h.VideoHandler{
		Appointments: appointments,
		AppID:        d.Env.AgoraAppID,
		Certificate:  d.Env.AgoraCertificate,
		TokenTTL:     time.Hour,
	}
	systemH := h.SystemHandler{DB: d.DB}

	auth := middleware.RequireAuth([]byte(d.Env.JWTSecret))
	adminOnly := middleware.RequireRoles("admin")
	farmerOnly := middleware.RequireRoles("farmer")
	// bcrypt comparison and the provider round-trip are both expensive.
	loginLimit := middleware.RateLimit(rate.Every(2*time.Second), 5)
	stkLimit := middleware.RateLimit(rate.Every(3*time.Second), 3)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(d.Env.CORSAllowedOrigins))

	_ = r.SetTrustedProxies(nil)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// Legacy root aliases used by the original frontend.
	r.POST("/register", authH.Register)
	r.POST("/login", loginLimit, authH.Login)
	r.POST("/admin-login", loginLimit, authH.AdminLogin)

	api := r.Group("/api")
	{
		api.GET("/health", systemH.Health)
		api.GET("/db-check", systemH.DBCheck)

		// Auth
		api.POST("/register", authH.Register)
		api.POST("/login", loginLimit, authH.Login)
		api.POST("/admin-login", loginLimit, authH.AdminLogin)

		// Public vet directory
		api.GET("/vets", userH.ListVets)

		// Users
		usersGrp := api.Group("/users", auth)
		usersGrp.GET("/:id", userH.GetByID)
		usersGrp.PUT("/:id", userH.Update)
		usersGrp.DELETE("/:id", adminOnly, adminH.DeleteUser)

		// Animals (farmer records)
		animalsGrp := api.Group("/animals", auth, farmerOnly)
		animalsGrp.GET("", animalH.List)
		animalsGrp.POST("", animalH.Create)
		animalsGrp.GET("/:id", animalH.GetByID)
		animalsGrp.PUT("/:id", animalH.Update)
		animalsGrp.DELETE("/:id", animalH.Delete)

		// Appointments
		apptsGrp := api.Group("/appointments", auth)
		apptsGrp.POST("", apptH.Create)
		apptsGrp.GET("", apptH.List)
		apptsGrp.GET("/:id", apptH.GetByID)
		apptsGrp.PUT("/:id", apptH.Update)
		apptsGrp.DELETE("/:id", adminOnly, apptH.Delete)

		// Payments. The callback is provider-originated and unauthenticated;
		// the status poll is called by the frontend without auth headers.
		api.POST("/initiate-stk-push", auth, stkLimit, paymentH.InitiateSTKPush)
		api.POST("/payment-callback", paymentH.PaymentCallback)
		api.GET("/payment-status/:checkout_request_id", paymentH.PaymentStatus)
		api.GET("/payments/:checkout_request_id/receipt", auth, paymentH.Receipt)

		// Video calls
		api.POST("/video/token", auth, videoH.IssueToken)

		// Admin
		admin := api.Group("/admin", auth, adminOnly)
		admin.GET("/stats", adminH.Stats)
		admin.GET("/farmers", adminH.ListFarmers)
		admin.GET("/surgeons", adminH.ListSurgeons)
		admin.GET("/transactions", adminH.ListTransactions)
		admin.DELETE("/users/:id", adminH.DeleteUser)
	}

	return r
}
