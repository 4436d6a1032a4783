package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"p2ploans-backend/internal/adapter/events"
	httpadp "p2ploans-backend/internal/adapter/http"
	"p2ploans-backend/internal/adapter/middleware"
	"p2ploans-backend/internal/adapter/repository/mysql"
	"p2ploans-backend/internal/config"
	borrowerDomain "p2ploans-backend/internal/domain/borrower"
	custodyDomain "p2ploans-backend/internal/domain/custody"
	loanDomain "p2ploans-backend/internal/domain/loan"
	poolDomain "p2ploans-backend/internal/domain/pool"
	"p2ploans-backend/internal/infrastructure/cache"
	"p2ploans-backend/internal/infrastructure/db"
	custodyUC "p2ploans-backend/internal/usecase/custody"
	loanUC "p2ploans-backend/internal/usecase/loan"
	poolUC "p2ploans-backend/internal/usecase/pool"
	registryUC "p2ploans-backend/internal/usecase/registry"
	rewardUC "p2ploans-backend/internal/usecase/reward"
)

func main() {
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
		&poolDomain.Pool{},
		&poolDomain.PoolLender{},
		&poolDomain.Contribution{},
		&loanDomain.Loan{},
		&borrowerDomain.Borrower{},
		&custodyDomain.Account{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	pub := events.NewRedisPublisher(rdb)
	guow := mysql.NewGormUoW(gdb)
	pools := mysql.NewPoolRepository(gdb)
	contribs := mysql.NewContributionRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	borrowers := mysql.NewBorrowerRepository(gdb)
	custody := mysql.NewCustodyRepository(gdb)

	poolUsecase := poolUC.NewUsecase(guow, pools, contribs, pub)
	loanUsecase := loanUC.NewUsecase(guow, loans, pub, cfg.MaxLoanDurationDays, cfg.OwnerAddress)
	rewardUsecase := rewardUC.NewUsecase(guow, pub)
	registryUsecase := registryUC.NewUsecase(guow, borrowers, pub)
	custodyUsecase := custodyUC.NewUsecase(guow, custody)

	h := httpadp.NewHandler()
	poolH := httpadp.NewPoolHandler(poolUsecase)
	loanH := httpadp.NewLoanHandler(loanUsecase)
	rewardH := httpadp.NewRewardHandler(rewardUsecase)
	borrowerH := httpadp.NewBorrowerHandler(registryUsecase)
	custodyH := httpadp.NewCustodyHandler(custodyUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)

	e.POST("/borrowers", borrowerH.BecomeBorrower)
	e.GET("/borrowers/:address", borrowerH.GetBorrower)
	e.GET("/borrowers/:address/loans", loanH.BorrowerLoans)

	e.POST("/pools", poolH.CreatePool)
	e.GET("/pools/count", poolH.PoolsAmount)
	e.GET("/pools/:pool_id", poolH.GetPool)
	e.POST("/pools/:pool_id/contributions", poolH.Contribute)
	e.POST("/pools/:pool_id/withdrawals", poolH.Withdraw)
	e.POST("/pools/:pool_id/claims", rewardH.ClaimReward)
	e.GET("/pools/:pool_id/lenders/:address", poolH.LenderPosition)

	e.POST("/loans", loanH.MakeBorrow)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.POST("/loans/:loan_id/repayments", loanH.RepayLoan)
	e.POST("/loans/:loan_id/settlement", loanH.SettleLoan)

	e.POST("/custody/deposits", custodyH.Deposit)
	e.POST("/custody/withdrawals", custodyH.Withdraw)
	e.GET("/custody/:address", custodyH.Balances)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
