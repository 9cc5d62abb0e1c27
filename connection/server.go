package connection

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"civicreport/configs"
	"civicreport/controller/payment"
	"civicreport/controller/report"
	"civicreport/controller/staff"
	"civicreport/controller/user"
	"civicreport/middleware"
	"civicreport/repository"
	"civicreport/scheduler"
	"civicreport/services"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
)

const paymentBurst = 20

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Store    *repository.Store
	Provider services.CheckoutProvider
	Verifier services.TokenVerifier
}

func StartServer() {
	cfg := configs.LoadConfig()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()
	app := sync.OnceValues(func() (*firebase.App, error) {
		return FBConnection(ctx, cfg)
	})

	store, err := OpenStore(ctx, cfg, app)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer store.Close(context.Background())

	verifier, err := NewVerifier(ctx, cfg, app)
	if err != nil {
		log.Fatalf("Failed to initialize identity verifier: %v", err)
	}
	if cfg.StripeSecret == "" {
		slog.Warn("STRIPE_SECRET is empty; checkout calls will fail")
	}

	jobs, err := scheduler.StartScheduler(cfg.SchedulerSpec, services.NewStaffService(store))
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	router := NewRouter(cfg, Deps{
		Store:    store,
		Provider: services.NewStripeProvider(cfg.StripeSecret),
		Verifier: verifier,
	})
	slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "auth", cfg.AuthMode)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func NewRouter(cfg *configs.Config, deps Deps) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(cfg.SiteDomain))
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	users := services.NewUserService(deps.Store)
	report.ReportController(router, services.NewReportService(deps.Store, cfg.AllowStatusRegression))
	staff.StaffController(router, services.NewStaffService(deps.Store), users, deps.Verifier)
	user.UserController(router, users, deps.Verifier)

	payments := services.NewPaymentService(deps.Store, deps.Provider, cfg.PriorityFee, cfg.PriorityFeeCurr, cfg.SiteDomain)
	payment.PaymentController(router, payments, deps.Verifier, middleware.RateLimit(cfg.PaymentRateLimit, paymentBurst))

	return router
}
