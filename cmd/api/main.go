package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "github.com/okonpatrick/DefiTrust-Vault/internal/adapter/http"
	ownmw "github.com/okonpatrick/DefiTrust-Vault/internal/adapter/middleware"
	"github.com/okonpatrick/DefiTrust-Vault/internal/adapter/repository/mysql"
	"github.com/okonpatrick/DefiTrust-Vault/internal/config"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/loan"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
	"github.com/okonpatrick/DefiTrust-Vault/internal/infrastructure/cache"
	"github.com/okonpatrick/DefiTrust-Vault/internal/infrastructure/db"
	ucEndorsement "github.com/okonpatrick/DefiTrust-Vault/internal/usecase/endorsement"
	ucLoan "github.com/okonpatrick/DefiTrust-Vault/internal/usecase/loan"
	ucPool "github.com/okonpatrick/DefiTrust-Vault/internal/usecase/pool"
	ucRegistry "github.com/okonpatrick/DefiTrust-Vault/internal/usecase/registry"
	"github.com/okonpatrick/DefiTrust-Vault/pkg/events"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&account.Account{},
		&endorsement.Endorsement{},
		&loan.Loan{},
		&pool.Pool{},
		&ledger.Entry{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	var pub events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewProducer(cfg.AMQPURL)
		if err != nil {
			log.Printf("amqp unavailable, events disabled: %v", err)
		} else {
			defer p.Close()
			pub = p
		}
	}

	accounts := mysql.NewAccountRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	pools := mysql.NewPoolRepository(gdb)
	entries := mysql.NewLedgerRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	registryUC := ucRegistry.NewUsecase(accounts, entries, cfg.InitialTrustScore, pub)
	endorseUC := ucEndorsement.NewUsecase(tx, ucEndorsement.FlatDiminishingCredit(cfg.EndorseCreditBase))
	poolUC := ucPool.NewUsecase(pools, tx)
	loanUC := ucLoan.NewUsecase(loans, accounts, entries, tx, ucLoan.Terms{
		MinTrustScore:       cfg.MinTrustScore,
		InterestRateBps:     cfg.InterestRateBps,
		CollateralFactorPct: cfg.CollateralFactorPct,
		CommissionBps:       cfg.CommissionBps,
		Duration:            cfg.LoanTerm(),
		RepayScoreReward:    cfg.RepayScoreReward,
		DefaultScorePenalty: cfg.DefaultScorePenalty,
	}, pub)

	h := httpadp.NewHandler()
	users := httpadp.NewUserHandler(registryUC)
	endorsements := httpadp.NewEndorsementHandler(endorseUC)
	poolH := httpadp.NewPoolHandler(poolUC)
	loansH := httpadp.NewLoanHandler(loanUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)

	idemp := ownmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	v1 := e.Group("/v1")
	v1.POST("/users", users.Register, idemp)
	v1.GET("/users/:address", users.Get)
	v1.GET("/users/:address/ledger", users.Ledger)
	v1.GET("/users/:address/loans/active", loansH.ActiveForUser)
	v1.POST("/endorsements", endorsements.Endorse, idemp)
	v1.POST("/pool/deposits", poolH.Deposit, idemp)
	v1.GET("/pool", poolH.Snapshot)
	v1.POST("/loans", loansH.RequestLoan, idemp)
	v1.GET("/loans/:loan_id", loansH.GetLoan)
	v1.GET("/loans/:loan_id/ledger", loansH.Ledger)
	v1.POST("/loans/:loan_id/repayment", loansH.Repay, idemp)
	v1.POST("/loans/:loan_id/default-sweep", loansH.DefaultSweep, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
