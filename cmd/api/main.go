package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/audit-field-study/pairtrack/internal/config"
	"github.com/audit-field-study/pairtrack/internal/db"
	"github.com/audit-field-study/pairtrack/internal/exporter"
	"github.com/audit-field-study/pairtrack/internal/generator"
	"github.com/audit-field-study/pairtrack/internal/handlers"
	"github.com/audit-field-study/pairtrack/internal/importer"
	"github.com/audit-field-study/pairtrack/internal/middleware"
	"github.com/audit-field-study/pairtrack/internal/models"
	"github.com/audit-field-study/pairtrack/internal/render"
	"github.com/audit-field-study/pairtrack/internal/services/callback"
	"github.com/audit-field-study/pairtrack/internal/services/pairgen"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Pair{},
		&models.Profile{},
		&models.Employer{},
		&models.PairApplication{},
		&models.CallbackLog{},
	); err != nil {
		log.Fatal(err)
	}

	catalog := generator.DefaultCatalog()
	if cfg.CatalogPath != "" {
		catalog, err = generator.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			log.Fatal("load catalog:", err)
		}
		log.Println("Loaded generation catalog from", cfg.CatalogPath)
	}

	// The service starts without a renderer when Chromium is not
	// available; generation still creates records and reports the
	// render failures back to the caller.
	var renderWorker *render.Worker
	renderer, err := render.NewPlaywrightRenderer(cfg.TemplateDir)
	if err != nil {
		log.Println("Renderer unavailable, PDFs disabled:", err)
	} else {
		renderWorker = render.NewWorker(renderer, time.Duration(cfg.RenderTimeoutSec)*time.Second)
		defer renderWorker.Close()
	}

	genLog := exporter.NewGenerationLog(cfg.GenLogPath)
	cbSvc := callback.NewCallbackService(gdb)

	genSvc := pairgen.NewPairGenService(gdb, generator.New(catalog), nil, genLog, cfg.MediaRoot)
	if renderWorker != nil {
		genSvc.Renderer = renderWorker
	}

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	pairH := handlers.NewPairHandler(gdb, genSvc)
	lookupH := handlers.NewLookupHandler(catalog)
	employerH := handlers.NewEmployerHandler(gdb)
	applicationH := handlers.NewApplicationHandler(gdb, cbSvc)
	callbackH := handlers.NewCallbackHandler(gdb, cbSvc)
	exportH := handlers.NewExportHandler(exporter.NewExporter(gdb, genLog))
	importH := handlers.NewImportHandler(importer.NewImporter(gdb))

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length, Content-Disposition, X-Row-Count",
		AllowCredentials: true,
	}))

	app.Static("/media", cfg.MediaRoot)

	api := app.Group("/api")

	// public
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Post("/auth/register",
		middleware.RequireRoles("admin"),
		authH.Register)

	protected.Get("/lookup/occupations", lookupH.Occupations)
	protected.Get("/lookup/locations", lookupH.Locations)
	protected.Get("/lookup/sublocations", lookupH.Sublocations)
	protected.Get("/lookup/archetypes", lookupH.Archetypes)

	protected.Post("/pairs/generate", pairH.Generate)
	protected.Get("/pairs", pairH.List)
	protected.Get("/pairs/:id", pairH.Get)
	protected.Delete("/pairs/:id", pairH.Delete)

	protected.Get("/employers/check", employerH.Check)
	protected.Get("/employers", employerH.List)
	protected.Post("/employers", employerH.Create)
	protected.Get("/employers/:id", employerH.Get)
	protected.Put("/employers/:id", employerH.Update)
	protected.Delete("/employers/:id", employerH.Delete)

	protected.Post("/applications", applicationH.Create)
	protected.Get("/applications", applicationH.List)
	protected.Get("/applications/:id", applicationH.Get)
	protected.Put("/applications/:id", applicationH.Update)
	protected.Post("/applications/:id/submit", applicationH.Submit)

	protected.Get("/callbacks/search", callbackH.Search)
	protected.Post("/callbacks/:application_id", callbackH.Update)

	protected.Get("/export/applications", exportH.Applications)
	protected.Post("/import/pairs",
		middleware.RequireRoles("admin"),
		importH.Pairs)

	log.Println("Listening on :" + cfg.AppPort)
	log.Fatal(app.Listen(":" + cfg.AppPort))
}
