package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/token"
	ucAccess "github.com/BruksfildServices01/barber-booking/internal/usecase/accessrequest"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucAuth "github.com/BruksfildServices01/barber-booking/internal/usecase/auth"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Geocoder geo.Geocoder
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db := deps.DB
	cfg := deps.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.CORSMiddleware(cfg.AllowedOrigins()),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	identityRepo := infraRepo.NewIdentityGormRepository(db)
	catalogRepo := infraRepo.NewCatalogGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	accessRepo := infraRepo.NewAccessRequestGormRepository(db)

	authorizer := authz.NewAuthorizer(identityRepo)
	tokens := token.NewIssuer(
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationHours)*time.Hour,
		time.Duration(cfg.JWTRefreshHours)*time.Hour,
	)

	var checkDomain ucAuth.DomainChecker
	if cfg.VerifyEmailDomain {
		checkDomain = func(ctx context.Context, email string) bool {
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			return validators.IsEmailDomainValid(ctx, email)
		}
	}

	// ======================================================
	// USE CASES
	// ======================================================
	authService := ucAuth.NewService(identityRepo, tokens, checkDomain)

	shops := ucCatalog.NewBarbershops(catalogRepo, authorizer, deps.Geocoder, deps.Audit)
	services := ucCatalog.NewServices(catalogRepo, authorizer, deps.Audit)

	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, deps.Audit)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(appointmentRepo, authorizer, deps.Audit)
	removeAppointmentUC := ucAppointment.NewRemoveAppointment(appointmentRepo, authorizer, deps.Audit)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo, authorizer)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, authorizer)

	requestAccessUC := ucAccess.NewRequestAccess(accessRepo, deps.Audit)
	decideAccessUC := ucAccess.NewDecideAccessRequest(accessRepo, authorizer, deps.Audit)
	listAccessUC := ucAccess.NewListAccessRequests(accessRepo, authorizer)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(authService)
	meHandler := handlers.NewMeHandler(authService)
	barbershopHandler := handlers.NewBarbershopHandler(shops)
	serviceHandler := handlers.NewServiceHandler(services)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		removeAppointmentUC,
		getAppointmentUC,
		listAppointmentsUC,
	)

	accessHandler := handlers.NewAccessRequestHandler(requestAccessUC, decideAccessUC, listAccessUC)
	customerHandler := handlers.NewCustomerHandler(db, authorizer)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, authorizer)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)

		api.GET("/barbershops", barbershopHandler.List)
		api.GET("/barbershops/nearby", barbershopHandler.Nearby)
		api.GET("/barbershops/:id", barbershopHandler.Get)
		api.GET("/barbershops/:id/services", serviceHandler.ListByShop)
		api.GET("/services/:serviceId", serviceHandler.Get)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("")
		secured.Use(middleware.AuthMiddleware(tokens))
		{
			secured.POST("/auth/logout", authHandler.Logout)

			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)
			secured.DELETE("/me", meHandler.DeleteMe)
			secured.GET("/me/customers", customerHandler.ListMine)
			secured.GET("/me/customers/statistics", customerHandler.MyStatistics)
			secured.GET("/me/appointments", appointmentHandler.ListMine)
			secured.GET("/me/access-requests", accessHandler.ListMine)

			// barbershops
			secured.POST("/barbershops", barbershopHandler.Create)
			secured.PATCH("/barbershops/:id", barbershopHandler.Update)
			secured.DELETE("/barbershops/:id", barbershopHandler.Delete)
			secured.GET("/barbershops/:id/staff", barbershopHandler.Staff)
			secured.GET("/barbershops/:id/customers", customerHandler.ListByShop)
			secured.GET("/barbershops/:id/barbers/:barberId/customers", customerHandler.ListByBarber)
			secured.GET("/barbershops/:id/audit-logs", auditLogsHandler.List)

			// services
			secured.POST("/barbershops/:id/services", serviceHandler.Create)
			secured.GET("/services", serviceHandler.ListAll)
			secured.PATCH("/services/:serviceId", serviceHandler.Update)
			secured.DELETE("/services/:serviceId", serviceHandler.Delete)

			// appointments
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Remove)
			secured.GET("/barbershops/:id/appointments", appointmentHandler.ListByShop)
			secured.GET("/barbershops/:id/barbers/:barberId/appointments", appointmentHandler.ListByBarber)

			// access requests
			secured.POST("/barbershops/:id/access-requests", accessHandler.Request)
			secured.GET("/barbershops/:id/access-requests", accessHandler.ListPending)
			secured.POST("/access-requests/:id/decision", accessHandler.Decide)
		}
	}
}
