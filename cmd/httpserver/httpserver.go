// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vheckthor/bank-api/internal/accountdelivery"
	"github.com/vheckthor/bank-api/internal/accountrepo"
	"github.com/vheckthor/bank-api/internal/accountservice"
	"github.com/vheckthor/bank-api/internal/geoip"
	"github.com/vheckthor/bank-api/internal/middleware"
	"github.com/vheckthor/bank-api/internal/transactiondelivery"
	"github.com/vheckthor/bank-api/internal/transactionrepo"
	"github.com/vheckthor/bank-api/internal/transactionservice"
	"github.com/vheckthor/bank-api/internal/userdelivery"
	"github.com/vheckthor/bank-api/internal/userrepo"
	"github.com/vheckthor/bank-api/internal/userservice"
	"github.com/vheckthor/bank-api/pkg/configpkg"
	"github.com/vheckthor/bank-api/pkg/tokenpkg"
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
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	maxAmount, err := config.MaxTransactionAmount()
	if err != nil {
		return nil, errors.New("cannot parse transaction max amount")
	}

	locator := geoip.New(config.GeoAPIURL, config.GeoAPIKey, config.GeoLookupTimeout)

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo, userService, transactionRepo)
	transactionService := transactionservice.New(transactionRepo, accountService, locator, maxAmount)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.GET("/users/:username", userHandler.Get)
	authRoutes.PUT("/users", userHandler.Update)
	authRoutes.DELETE("/users/:username", userHandler.Delete)

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.GET("/accounts/:number", accountHandler.Get)
	authRoutes.DELETE("/accounts/:number", accountHandler.Delete)

	authRoutes.POST("/accounts/:number/transactions", transactionHandler.Post)
	authRoutes.GET("/accounts/:number/transactions", transactionHandler.List)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accounttype", accountdelivery.ValidAccountType)
		if err != nil {
			return nil, errors.New("cannot register accounttype validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
