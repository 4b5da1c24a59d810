// Package api contains all endpoints available
package api

import (
	"context"
	"fmt"
	"time"

	"imagelens/image-api/db"
	"imagelens/image-api/middleware"
	"imagelens/image-api/security"
	"imagelens/image-api/session"
	"imagelens/image-api/store"
	"imagelens/image-api/vision"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	Store  store.Store
	Router *gin.Engine
	Argon  *security.ArgonHash
	Vision vision.Annotator
}

func NewRouter() (*API, error) {
	a := &API{
		Argon: security.New(),
	}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.Store = store.NewGorm(conn)

	makeLogger()

	annotator, err := vision.NewGoogle(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vision client, %w", err)
	}
	a.Vision = annotator

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://" + viper.GetString("host.domain")},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		// Server-side session store so logout actually kills the
		// session instead of just asking the browser to drop it
		sessions.Sessions(session.CookieName, memstore.NewStore([]byte(viper.GetString("session.secret")))),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("requestID", v))
				}

				if v := c.GetUint("userID"); v != 0 {
					fields = append(fields, zap.Uint("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20

	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	a.registerRoutes()

	return a, nil
}

func (a *API) registerRoutes() {
	router := a.Router
	auth := middleware.NewAuthMiddleware(a.Store)
	maxUploadSize := viper.GetInt64("upload.max_size")

	// GET /			-> Renders the home page with the uploader
	router.GET("/", a.Home)

	// GET|POST /register		-> Shows the form / creates a new account
	router.GET("/register", a.RegisterPage)
	router.POST("/register", middleware.BodySizeLimiter(1<<20), a.UserRegister)

	// GET|POST /login		-> Shows the form / starts a session
	router.GET("/login", a.LoginPage)
	router.POST("/login", middleware.BodySizeLimiter(1<<20), a.UserLogin)

	// GET /logout			-> Ends the current session
	router.GET("/logout", auth, a.UserLogout)

	// POST /upload			-> Annotates and stores an uploaded image
	router.POST("/upload", auth, middleware.BodySizeLimiter(maxUploadSize), a.Upload)

	// GET /history			-> Lists the caller's analyses
	router.GET("/history", auth, a.History)

	// GET /image/:id		-> Streams a stored image back to its owner
	router.GET("/image/:id", auth, a.ImageServe)
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
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(viper.GetString("app.log_level")))

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
