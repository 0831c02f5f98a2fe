package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/mlaurent/chantier-api/internal/config"
	"github.com/mlaurent/chantier-api/internal/database"
	"github.com/mlaurent/chantier-api/internal/handlers"
	authmw "github.com/mlaurent/chantier-api/internal/middleware"
	"github.com/mlaurent/chantier-api/internal/permissions"
	"github.com/mlaurent/chantier-api/internal/services"
	"github.com/mlaurent/chantier-api/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize file store")
	}

	resolver := permissions.NewResolver(db)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	folderService := services.NewFolderService(db)
	projectService := services.NewProjectService(db, folderService)
	libraryService := services.NewLibraryService(db)
	articleService := services.NewArticleService(db, resolver)
	projectShareService := services.NewProjectShareService(db, userService)
	libraryShareService := services.NewLibraryShareService(db, userService)
	documentService := services.NewDocumentService(db, files)
	importService := services.NewImportService(articleService, projectService)
	emailService := services.NewEmailService(cfg.SMTP)

	authHandler := handlers.NewAuthHandler(cfg, userService, folderService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(userService)
	folderHandler := handlers.NewFolderHandler(folderService)
	projectHandler := handlers.NewProjectHandler(projectService, documentService, resolver)
	libraryHandler := handlers.NewLibraryHandler(libraryService, resolver)
	articleHandler := handlers.NewArticleHandler(articleService, resolver)
	shareHandler := handlers.NewShareHandler(projectShareService, libraryShareService, projectService, userService, emailService, resolver)
	documentHandler := handlers.NewDocumentHandler(documentService, resolver)
	importHandler := handlers.NewImportHandler(importService, resolver)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(driftmw.Recovery())
	app.Use(driftmw.CORSWithConfig(driftmw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(driftmw.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", authHandler.LogoutAll)

	protected.Get("/users/me", userHandler.Me)
	protected.Patch("/users/me", userHandler.UpdateMe)

	admin := protected.Group("/admin")
	admin.Use(authmw.RequireAdmin())
	admin.Get("/users", adminHandler.ListUsers)
	admin.Delete("/users/:id", adminHandler.DeleteUser)

	protected.Get("/folders", folderHandler.List)
	protected.Post("/folders", folderHandler.Create)
	protected.Patch("/folders/:id", folderHandler.Update)
	protected.Delete("/folders/:id", folderHandler.Delete)

	protected.Get("/projects", projectHandler.List)
	protected.Post("/projects", projectHandler.Create)
	protected.Post("/projects/import", importHandler.ImportProjects)
	protected.Get("/projects/:id", projectHandler.Get)
	protected.Patch("/projects/:id", projectHandler.Update)
	protected.Delete("/projects/:id", projectHandler.Delete)

	protected.Get("/projects/:id/libraries", libraryHandler.ListForProject)
	protected.Post("/projects/:id/libraries", libraryHandler.Assign)
	protected.Delete("/projects/:id/libraries/:libraryId", libraryHandler.Unassign)

	protected.Get("/projects/:id/shares", shareHandler.ListProjectShares)
	protected.Post("/projects/:id/shares", shareHandler.CreateProjectShare)
	protected.Patch("/projects/:id/shares/:shareId", shareHandler.UpdateProjectShareRole)
	protected.Delete("/projects/:id/shares/:shareId", shareHandler.DeleteProjectShare)
	protected.Post("/projects/:id/leave", shareHandler.LeaveProject)

	protected.Get("/invites", shareHandler.ListPendingInvites)
	protected.Post("/invites/:id/accept", shareHandler.AcceptInvite)
	protected.Post("/invites/:id/decline", shareHandler.DeclineInvite)

	protected.Get("/projects/:id/documents", documentHandler.List)
	protected.Post("/projects/:id/documents", documentHandler.Upload)
	protected.Get("/projects/:id/documents/:docId", documentHandler.Download)
	protected.Delete("/projects/:id/documents/:docId", documentHandler.Delete)

	protected.Get("/libraries", libraryHandler.List)
	protected.Post("/libraries", libraryHandler.Create)
	protected.Get("/libraries/:id", libraryHandler.Get)
	protected.Patch("/libraries/:id", libraryHandler.Update)
	protected.Delete("/libraries/:id", libraryHandler.Delete)

	protected.Get("/libraries/:id/articles", articleHandler.ListForLibrary)
	protected.Post("/libraries/:id/articles", articleHandler.Create)
	protected.Post("/libraries/:id/import", importHandler.ImportArticles)
	protected.Get("/libraries/:id/export", importHandler.ExportArticles)

	protected.Get("/libraries/:id/shares", shareHandler.ListLibraryShares)
	protected.Post("/libraries/:id/shares", shareHandler.CreateLibraryShare)
	protected.Patch("/libraries/:id/shares/:shareId", shareHandler.UpdateLibraryShareRole)
	protected.Delete("/libraries/:id/shares/:shareId", shareHandler.DeleteLibraryShare)

	protected.Get("/articles/:id", articleHandler.Get)
	protected.Patch("/articles/:id", articleHandler.Update)
	protected.Delete("/articles/:id", articleHandler.Delete)
	protected.Post("/articles/:id/favorite", articleHandler.ToggleFavorite)
	protected.Post("/articles/move", articleHandler.Move)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logrus.WithField("addr", addr).Info("server starting")
		if err := app.Run(addr); err != nil {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")
}
