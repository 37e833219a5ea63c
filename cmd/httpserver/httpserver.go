// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tinyledger/tinyledger/internal/accountdelivery"
	"github.com/tinyledger/tinyledger/internal/accountservice"
	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/internal/events"
	"github.com/tinyledger/tinyledger/internal/middleware"
	"github.com/tinyledger/tinyledger/internal/transactiondelivery"
	"github.com/tinyledger/tinyledger/internal/transactionservice"
	"github.com/tinyledger/tinyledger/pkg/configpkg"
	"github.com/tinyledger/tinyledger/pkg/decimalpkg"
	"github.com/tinyledger/tinyledger/pkg/lockpkg"
)

// AccountRepo provides the account data access capabilities the server wires
// into the service layers. Both the in-memory and the Postgres repositories
// satisfy it.
type AccountRepo interface {
	Create(ctx context.Context, name string) (domain.Account, error)
	Get(ctx context.Context, id int32) (domain.Account, error)
	UpdateBalance(ctx context.Context, id int32, balance decimal.Decimal) (domain.Account, error)
}

// EntryRepo provides the ledger entry data access capabilities the server
// wires into the service layers.
type EntryRepo interface {
	Create(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error)
	ListByAccount(ctx context.Context, accountID int32) ([]domain.Entry, error)
}

// Server holds the handlers router and configuration.
type Server struct {
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(accountRepo AccountRepo, entryRepo EntryRepo, publisher events.Publisher, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	locks := lockpkg.NewKeyedMutex()

	transactionService := transactionservice.New(accountRepo, entryRepo, locks, publisher)
	accountService := accountservice.New(accountRepo, transactionService)

	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.POST("/accounts/transfer", accountHandler.Transfer)

	engine.POST("/accounts/:id/transactions", transactionHandler.Deposit)
	engine.PATCH("/accounts/:id/transactions", transactionHandler.Withdraw)
	engine.GET("/accounts/:id/transactions", transactionHandler.List)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("amount", decimalpkg.ValidAmount)
		if err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	server := &Server{
		Engine: engine,
		Config: config,
	}

	return server, nil
}
