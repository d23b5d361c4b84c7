package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"varaamo/internal/config"
	"varaamo/internal/database"
	"varaamo/internal/middleware"
	"varaamo/internal/modules/auth"
	"varaamo/internal/modules/ban"
	"varaamo/internal/modules/booking"
	"varaamo/internal/modules/inventory"
	"varaamo/internal/modules/notify"
	"varaamo/internal/modules/organization"
	"varaamo/internal/modules/permission"
	jwtsvc "varaamo/internal/pkg/jwt"
	"varaamo/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	orgItemRepo := repository.NewOrgItemRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	banRepo := repository.NewBanRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notify.NewHub()
	defer hub.Close()
	sender := notify.NewSender(hub)
	notifyHandler := notify.NewHandler(hub, j)

	authService := auth.NewService(userRepo, roleRepo, j)
	authHandler := auth.NewHandler(authService)

	banService := ban.NewService(banRepo, roleRepo)
	banHandler := ban.NewHandler(banService)

	permService := permission.NewService(banService, roleRepo)

	inventoryService := inventory.NewService(orgItemRepo, bookingRepo, inventory.NewItemLocks())
	inventoryHandler := inventory.NewHandler(inventoryService)

	bookingService := booking.NewService(bookingRepo, inventoryService, orgItemRepo, permService, sender)
	bookingHandler := booking.NewHandler(bookingService)

	orgService := organization.NewService(orgRepo, orgItemRepo, roleRepo, userRepo, permService)
	orgHandler := organization.NewHandler(orgService)

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	notifyHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			inventoryHandler.RegisterRoutes(protected)
			banHandler.RegisterRoutes(protected)
			orgHandler.RegisterRoutes(protected)
		}
	}

	log.Printf("listening addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
