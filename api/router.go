// Package api contains all endpoints available
package api

import (
	"time"

	"wrenlabs/board-api/db"
	"wrenlabs/board-api/middleware"
	"wrenlabs/board-api/model"
	"wrenlabs/board-api/security"
	"wrenlabs/board-api/service"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine

	Tokens      *security.TokenService
	Accounts    *service.Accounts
	Sessions    *service.Sessions
	Todos       *service.Todos
	Posts       *service.Posts
	Attachments *service.Attachments
}

func NewRouter() (*API, error) {
	a := &API{}

	conn, err := db.New()
	if err != nil {
		return nil, err
	}
	a.DB = conn

	makeLogger()

	argon := security.NewArgon()
	a.Tokens = security.NewTokenService()
	a.Attachments = service.NewAttachments(conn)
	a.Accounts = service.NewAccounts(conn, argon, a.Attachments)
	a.Sessions = service.NewSessions(conn, argon, a.Tokens)
	a.Todos = service.NewTodos(conn)
	a.Posts = service.NewPosts(conn, a.Attachments)

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("actorID"); v != "" {
					fields = append(fields, zap.String("actorID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 8 << 20

	auth := middleware.NewAuthMiddleware(conn, a.Tokens)
	admin := middleware.RequireRoles(model.RoleAdmin)

	// Whole batch plus some multipart overhead
	maxUploadBody := viper.GetInt64("upload.max_size")*viper.GetInt64("upload.max_files") + 1<<20

	main := router.Group("/api")
	{
		// GET /api/heartbeat		-> Used to check if the server is alive
		main.GET("/heartbeat", cacheFor(30), a.Heartbeat)

		// GET /api/validate		-> Validates an access token
		main.GET("/validate", auth, a.Validate)
	}

	authGrp := main.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/bootstrap	-> Creates the very first admin account
		authGrp.POST("/bootstrap", a.AuthBootstrap)

		// POST /api/auth/register	-> Registers a new user and logs them in
		authGrp.POST("/register", a.AuthRegister)

		// POST /api/auth/login		-> Logs in and returns a token pair
		authGrp.POST("/login", a.AuthLogin)

		// POST /api/auth/refresh	-> Rotates the refresh token
		authGrp.POST("/refresh", a.AuthRefresh)

		// POST /api/auth/logout	-> Drops the current session
		authGrp.POST("/logout", auth, a.AuthLogout)
	}

	users := main.Group("/users", auth, middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users/me		-> Returns the caller's own account
		users.GET("/me", a.UserMe)

		// PATCH /api/users/me		-> Updates the caller's profile
		users.PATCH("/me", a.UserMeEdit)

		// PUT /api/users/me/password	-> Changes the caller's password
		users.PUT("/me/password", a.UserMePassword)
	}

	adminGrp := main.Group("/admin/users", auth, admin, middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/admin/users	-> Creates an account with explicit role/status
		adminGrp.POST("", a.AdminUserCreate)

		// GET /api/admin/users		-> Lists accounts with pagination and search
		adminGrp.GET("", a.AdminUserFetchBulk)

		// PUT /api/admin/users/:id/role	-> Changes an account's role
		adminGrp.PUT("/:id/role", a.AdminUserRole)

		// PUT /api/admin/users/:id/status	-> Enables/disables an account
		adminGrp.PUT("/:id/status", a.AdminUserStatus)

		// DELETE /api/admin/users/:id	-> Deletes an account and everything it owns
		adminGrp.DELETE("/:id", a.AdminUserDelete)
	}

	todos := main.Group("/todos", auth, middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/todos		-> Lists own todos (admins see all)
		todos.GET("", a.TodoFetchBulk)

		// POST /api/todos		-> Creates a todo owned by the caller
		todos.POST("", a.TodoCreate)

		// GET /api/todos/:id		-> Returns a single todo
		todos.GET("/:id", a.TodoFetch)

		// PUT /api/todos/:id		-> Updates a todo
		todos.PUT("/:id", a.TodoEdit)

		// DELETE /api/todos/:id	-> Deletes a todo
		todos.DELETE("/:id", a.TodoDelete)
	}

	posts := main.Group("/posts", auth)
	{
		// GET /api/posts		-> Lists own posts (admins see all)
		posts.GET("", a.PostFetchBulk)

		// POST /api/posts		-> Creates a post owned by the caller
		posts.POST("", middleware.BodySizeLimiter(1<<20), a.PostCreate)

		// GET /api/posts/:id		-> Returns a single post
		posts.GET("/:id", a.PostFetch)

		// PUT /api/posts/:id		-> Updates a post
		posts.PUT("/:id", middleware.BodySizeLimiter(1<<20), a.PostEdit)

		// DELETE /api/posts/:id	-> Deletes a post and its attachments
		posts.DELETE("/:id", a.PostDelete)

		// POST /api/posts/:id/attachments	-> Uploads a batch of attachments
		posts.POST("/:id/attachments", middleware.BodySizeLimiter(maxUploadBody), a.AttachmentUpload)

		// GET /api/posts/:id/attachments	-> Lists a post's attachments
		posts.GET("/:id/attachments", a.AttachmentFetchBulk)
	}

	atts := main.Group("/attachments", auth)
	{
		// GET /api/attachments/:id/download	-> Serves an attachment payload
		atts.GET("/:id/download", a.AttachmentServe)

		// DELETE /api/attachments/:id	-> Deletes a single attachment
		atts.DELETE("/:id", a.AttachmentDelete)
	}

	// Clear out expired sessions once an hour
	service.SessionCleanup(time.Hour, conn, a.Tokens)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
