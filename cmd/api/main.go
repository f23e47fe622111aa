package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"notekeep/internal/auth"
	"notekeep/internal/domain/policy"
	handler2 "notekeep/internal/http/handler"
	authmw "notekeep/internal/http/middleware"
	"notekeep/internal/infrastructure/bucket"
	"notekeep/internal/service"
	"notekeep/internal/storage"
	"notekeep/internal/storage/file"
	"notekeep/internal/storage/sqlite"
	"notekeep/internal/utils/uid"
	"notekeep/internal/utils/validators"
)

const envVarsPrefix = "/notekeep/prod/"

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			log.Warnf("no .env file loaded: %v", err)
		}
	}

	uid.Init(1)

	// The backend is chosen exactly once, here; everything downstream only
	// sees the storage.Provider contract.
	store, err := openStorage()
	if err != nil {
		panic(err)
	}

	// Init S3 client for note attachments
	objects, err := bucket.NewS3Client()
	if err != nil {
		panic(err)
	}

	tokens := auth.NewTokenManager(jwtSecret(), 24*time.Hour)
	userPolicy := policy.NewUserPolicy()

	// Getting services
	userService := service.NewUserService(store, tokens, validate)
	noteService := service.NewNoteService(store, objects, validate)
	categoryService := service.NewCategoryService(store, validate)
	adminService := service.NewAdminService(store, validate, userPolicy)

	// Getting handlers
	authRoutes := handler2.NewAuthDefault(userService)
	noteRoutes := handler2.NewNoteDefault(noteService)
	categoryRoutes := handler2.NewCategoryDefault(categoryService)
	adminRoutes := handler2.NewAdminDefault(adminService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("10M"))

	authed := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{
		Tokens: tokens,
		Users:  store.Users(),
	})

	// Auth
	e.POST("/api/auth/register", authRoutes.Register)
	e.POST("/api/auth/login", authRoutes.Login)
	e.GET("/api/auth/profile", authRoutes.Profile, authed)

	// Notes
	e.GET("/api/notes", noteRoutes.GetNotes, authed)
	e.GET("/api/notes/:id", noteRoutes.GetNote, authed)
	e.POST("/api/notes", noteRoutes.CreateNote, authed)
	e.PATCH("/api/notes/:id", noteRoutes.UpdateNote, authed)
	e.PUT("/api/notes/:id/favorite", noteRoutes.SetFlags, authed)
	e.PUT("/api/notes/:id/archive", noteRoutes.SetFlags, authed)
	e.POST("/api/notes/:id/attachments", noteRoutes.UploadAttachment, authed)
	e.DELETE("/api/notes/:id", noteRoutes.DeleteNote, authed)

	// Categories
	e.GET("/api/categories", categoryRoutes.GetCategories, authed)
	e.GET("/api/categories/stats", categoryRoutes.GetStats, authed)
	e.GET("/api/categories/:id", categoryRoutes.GetCategory, authed)
	e.POST("/api/categories", categoryRoutes.CreateCategory, authed)
	e.PUT("/api/categories/:id", categoryRoutes.UpdateCategory, authed)
	e.DELETE("/api/categories/:id", categoryRoutes.DeleteCategory, authed)

	// Admin
	admin := e.Group("/api/admin", authed, authmw.RequireAdmin)
	admin.GET("/dashboard", adminRoutes.Dashboard)
	admin.GET("/users", adminRoutes.GetUsers)
	admin.GET("/users/:id", adminRoutes.GetUserDetails)
	admin.PUT("/users/:id", adminRoutes.UpdateUser)
	admin.DELETE("/users/:id", adminRoutes.DeleteUser)
	admin.GET("/system/health", adminRoutes.Health)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":" + port()); err != nil {
		panic(err)
	}
}

// openStorage picks the persistence backend from STORAGE_BACKEND:
// "sqlite" (default) or "file".
func openStorage() (storage.Provider, error) {
	switch os.Getenv("STORAGE_BACKEND") {
	case "file":
		dir := os.Getenv("DATA_DIR")
		if dir == "" {
			dir = "data"
		}
		log.Infof("using file storage in %s", dir)
		return file.NewProvider(dir)

	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "database.db"
		}
		log.Infof("using sqlite storage at %s", path)
		return sqlite.NewProvider(path)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("hexrgb", validators.HexRGB)
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-2"))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatalf("JWT_SECRET must be set")
	}
	return secret
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "7070"
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
