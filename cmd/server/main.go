package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"taskforce/internal/auth"
	"taskforce/internal/cache"
	"taskforce/internal/config"
	"taskforce/internal/constants"
	"taskforce/internal/database"
	"taskforce/internal/handlers"
	"taskforce/internal/middleware"
	"taskforce/internal/models"
	"taskforce/internal/panel"
	"taskforce/internal/repository"
	"taskforce/internal/services"
	"taskforce/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.SetHTMLTemplate(web.Templates())

	// Setup session middleware with Redis for the panel
	store, err := redisStore.NewStore(
		10,
		"tcp",
		cfg.RedisAddr,
		cfg.RedisPassword,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize token infrastructure for the JSON API
	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	tokenService := auth.NewTokenService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(redisCache)

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())
	authService := services.NewAuthService(userRepo, tokenService, tokenStore)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	panelHandler := panel.New(authService, userService, taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task assignment platform is running",
		})
	})

	// JSON API routes
	api := r.Group("/api")
	{
		apiAuth := api.Group("/auth")
		{
			apiAuth.POST("/token", authHandler.ObtainTokenPair)
			apiAuth.POST("/token/refresh", authHandler.RefreshTokenPair)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAPIAuth(tokenService, userRepo))
		{
			tasks.GET("", taskHandler.ListMyTasks)
			tasks.PATCH("/:id", taskHandler.UpdateMyTask)
			tasks.PUT("/:id", taskHandler.UpdateMyTask)
			tasks.GET("/:id/report", taskHandler.GetTaskReport)
		}
	}

	// Management panel routes
	panelGroup := r.Group("/panel")
	{
		panelGroup.GET("/login", panelHandler.ShowLogin)
		panelGroup.POST("/login", panelHandler.Login)
		panelGroup.GET("/logout", panelHandler.Logout)

		authed := panelGroup.Group("")
		authed.Use(middleware.RequirePanelAuth(userRepo))
		{
			authed.GET("/", panelHandler.Dashboard)

			superadmin := authed.Group("")
			superadmin.Use(middleware.RequireRole(models.RoleSuperAdmin))
			{
				superadmin.GET("/users", panelHandler.UsersList)
				superadmin.GET("/users/create", panelHandler.UserCreateForm)
				superadmin.POST("/users/create", panelHandler.UserCreate)
				superadmin.GET("/users/:id/edit", panelHandler.UserEditForm)
				superadmin.POST("/users/:id/edit", panelHandler.UserEdit)
				superadmin.GET("/users/:id/delete", panelHandler.UserDeleteForm)
				superadmin.POST("/users/:id/delete", panelHandler.UserDelete)
				superadmin.GET("/assign", panelHandler.AssignForm)
				superadmin.POST("/assign", panelHandler.Assign)
			}

			admins := authed.Group("")
			admins.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))
			{
				admins.GET("/tasks", panelHandler.TasksList)
				admins.GET("/tasks/create", panelHandler.TaskCreateForm)
				admins.POST("/tasks/create", panelHandler.TaskCreate)
				admins.GET("/tasks/:id/edit", panelHandler.TaskEditForm)
				admins.POST("/tasks/:id/edit", panelHandler.TaskEdit)
				admins.GET("/tasks/:id/report", panelHandler.TaskReport)
			}
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
