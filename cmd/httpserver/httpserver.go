// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/portfolio-tracker/internal/middleware"
	"github.com/go-petr/portfolio-tracker/internal/quoteclient"
	"github.com/go-petr/portfolio-tracker/internal/stockdelivery"
	"github.com/go-petr/portfolio-tracker/internal/stockrepo"
	"github.com/go-petr/portfolio-tracker/internal/stockservice"
	"github.com/go-petr/portfolio-tracker/internal/userdelivery"
	"github.com/go-petr/portfolio-tracker/internal/userrepo"
	"github.com/go-petr/portfolio-tracker/internal/userservice"
	"github.com/go-petr/portfolio-tracker/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	stockRepo := stockrepo.NewRepoPGS(conn)

	quotes := quoteclient.New(config.QuoteAPIBaseURL, config.QuoteAPIKey, config.QuoteTimeout)

	userService := userservice.New(userRepo)
	stockService := stockservice.New(stockRepo, quotes,
		stockservice.WithMaxInFlightQuotes(config.QuoteMaxInFlight),
		stockservice.WithPartialOnQuoteError(config.LiveValuePartial),
	)

	userHandler := userdelivery.NewHandler(userService)
	stockHandler := stockdelivery.NewHandler(stockService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(config.FrontendOrigin))

	api := engine.Group("/api")

	api.POST("/auth/login", userHandler.Login)

	stocks := api.Group("/users/:userId/stocks")

	stocks.POST("", stockHandler.Add)
	stocks.GET("", stockHandler.List)
	stocks.PUT("/:id", stockHandler.Update)
	stocks.DELETE("/:id", stockHandler.Delete)
	stocks.GET("/portfolio/value", stockHandler.BookValue)
	stocks.GET("/portfolio/value/realtime", stockHandler.LiveValue)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
