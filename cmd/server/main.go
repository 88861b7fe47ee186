package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/hr-sync/internal/adapters/grpc/handler"
	"github.com/ogurasousui/hr-sync/internal/adapters/repository/postgres"
	"github.com/ogurasousui/hr-sync/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	"github.com/ogurasousui/hr-sync/internal/core/saga"
	"github.com/ogurasousui/hr-sync/internal/platform/config"
	pg "github.com/ogurasousui/hr-sync/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/hr-sync/internal/platform/db/sqlite"
	"github.com/ogurasousui/hr-sync/internal/platform/logger"
	"github.com/ogurasousui/hr-sync/internal/platform/password"
	"github.com/ogurasousui/hr-sync/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	hrPool, err := pg.NewPool(ctx, string(saga.StoreHR), cfg.HRDatabase)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize hr database pool")
	}
	defer hrPool.Close()

	payrollPool, err := pg.NewPool(ctx, string(saga.StorePayroll), cfg.PayrollDatabase)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to initialize payroll database pool")
	}
	defer payrollPool.Close()

	identityDB, err := sqlitedb.Open(ctx, cfg.IdentityDatabase)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to open identity database")
	}
	defer identityDB.Close()

	hrTx := pg.NewTransactionManager(string(saga.StoreHR), hrPool)
	payrollTx := pg.NewTransactionManager(string(saga.StorePayroll), payrollPool)
	identityTx := sqlitedb.NewTransactionManager(identityDB)

	dimensionSvc := dimension.NewService(dimension.Dependencies{
		HR:        postgres.NewHRDimensionRepository(hrPool),
		Payroll:   postgres.NewPayrollDimensionRepository(payrollPool),
		HRTx:      hrTx,
		PayrollTx: payrollTx,
		Logger:    lg.With().Str("component", "dimension").Logger(),
	})

	guard := employee.NewGuard(employee.GuardDependencies{
		Dividends:     postgres.NewDividendLedger(hrPool),
		Salaries:      postgres.NewSalaryLedger(payrollPool),
		Shareholdings: sqlite.NewShareholdingLedger(identityDB),
		HRTx:          hrTx,
		PayrollTx:     payrollTx,
		IdentityTx:    identityTx,
	})

	employeeSvc := employee.NewService(employee.Dependencies{
		HR:         postgres.NewEmployeeRepository(hrPool),
		Payroll:    postgres.NewPayrollEmployeeRepository(payrollPool),
		Identity:   sqlite.NewAccountRepository(identityDB),
		HRTx:       hrTx,
		PayrollTx:  payrollTx,
		IdentityTx: identityTx,
		Mirror:     dimensionSvc.Mirror(),
		Guard:      guard,
		Roles:      cfg.Roles.Rules(),
		Hasher:     password.NewBcryptHasher(cfg.Security.BcryptCost),
		Logger:     lg.With().Str("component", "employee").Logger(),
	})

	syncHandler := handler.NewSyncHandler(employeeSvc, dimensionSvc, lg)
	grpcServer := server.New(cfg.Server.ListenAddr, syncHandler, lg)

	if err := grpcServer.Run(ctx); err != nil {
		lg.Fatal().Err(err).Msg("server stopped with error")
	}
	lg.Info().Msg("server stopped")
}
