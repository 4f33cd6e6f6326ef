// Command harmonize runs portfolio harmonization once from the command line
// and optionally writes the outcome to an Excel report.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/dto"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/usecase"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/service"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/config"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/lock"
	pgRepo "github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/postgres"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/report"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/observability"
	pkgpostgres "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "harmonize:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "harmonize",
		Usage: "reconcile loan schedules, balances and arrears against recorded payments",
		Commands: []*cli.Command{
			{
				Name:  "portfolio",
				Usage: "harmonize every loan of a tenant, or only the given loans",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tenant", Usage: "tenant ID", Required: true, EnvVars: []string{"TENANT_ID"}},
					&cli.StringSliceFlag{Name: "loan", Usage: "loan ID to harmonize (repeatable)"},
					&cli.StringFlag{Name: "report", Usage: "write an .xlsx report to this path"},
					&cli.DurationFlag{Name: "timeout", Usage: "abort the run after this long", Value: 30 * time.Minute},
				},
				Action: runPortfolio,
			},
			{
				Name:  "preview",
				Usage: "print the schedule generated for the given terms without touching storage",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "disbursed", Usage: "disbursement date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "principal", Required: true},
					&cli.StringFlag{Name: "rate", Usage: "annual interest rate, percent or fraction", Value: "0"},
					&cli.StringFlag{Name: "frequency", Value: "monthly"},
					&cli.StringFlag{Name: "method", Usage: "reducing_balance or flat"},
					&cli.IntFlag{Name: "term", Usage: "term in months", Required: true},
				},
				Action: runPreview,
			},
		},
	}
}

func runPortfolio(c *cli.Context) error {
	cfg := config.Load()
	logger := observability.InitLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	pool, err := pkgpostgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	locker, closeLocker, err := lock.New(ctx, cfg.Redis, cfg.LockTTL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeLocker() }()

	transactor := pgRepo.NewTransactor(pool)
	harmonizer := usecase.NewHarmonizeLoanUseCase(transactor, locker, service.NewEngine(), nil, logger)
	portfolio := usecase.NewHarmonizePortfolioUseCase(transactor, harmonizer, logger)

	resp, runErr := portfolio.Execute(ctx, dto.HarmonizePortfolioRequest{
		TenantID: c.String("tenant"),
		LoanIDs:  c.StringSlice("loan"),
	})
	interrupted := errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded)
	if runErr != nil && !interrupted {
		return runErr
	}

	fmt.Fprintf(c.App.Writer, "tenant %s: %d loans, %d harmonized, %d regenerated, %d failed\n",
		resp.TenantID, resp.Total, len(resp.Results), resp.Regenerated, len(resp.Failures))
	for _, f := range resp.Failures {
		fmt.Fprintf(c.App.Writer, "  %s: %s\n", f.LoanID, f.Error)
	}

	if path := c.String("report"); path != "" {
		if err := writeReport(path, resp); err != nil {
			return err
		}
		logger.Info("report written", "path", path)
	}
	return runErr
}

func writeReport(path string, resp dto.PortfolioResponse) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WritePortfolioXLSX(f, resp); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func runPreview(c *cli.Context) error {
	disbursed, err := time.Parse("2006-01-02", c.String("disbursed"))
	if err != nil {
		return fmt.Errorf("invalid --disbursed: %w", err)
	}
	principal, err := decimal.NewFromString(c.String("principal"))
	if err != nil {
		return fmt.Errorf("invalid --principal: %w", err)
	}
	rate, err := decimal.NewFromString(c.String("rate"))
	if err != nil {
		return fmt.Errorf("invalid --rate: %w", err)
	}

	resp, err := usecase.NewPreviewScheduleUseCase(service.NewEngine()).Execute(c.Context, dto.PreviewScheduleRequest{
		DisbursementDate:  disbursed,
		Principal:         principal,
		InterestRate:      rate,
		Frequency:         c.String("frequency"),
		CalculationMethod: c.String("method"),
		TermMonths:        c.Int("term"),
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
