// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/config"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/database"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/handler"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/logging"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/metrics"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/notification"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/payment"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/repository"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/repository/memory"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/scheduler"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service"
	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/service/ports"
)

type stores struct {
	events     ports.EventRepo
	regs       ports.RegistrationRepo
	admissions ports.Admissions
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Storage ────────────────────────────────────────────────────────
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	gateway := newGateway(cfg.Midtrans, log)
	notifier := notification.NewLogNotifier(log)

	pricer := service.NewPricer(cfg.Fees.Rates())
	refunds := service.NewRefundOrchestrator(st.events, st.admissions, gateway, notifier, m, log)
	sched := scheduler.New(refunds, st.events, scheduler.Config{
		SweepSchedule: cfg.Refunds.SweepSchedule,
		QueueSize:     cfg.Refunds.QueueSize,
		RunTimeout:    cfg.Refunds.RunTimeout,
	}, m, log)

	regSvc := service.NewRegistrationService(st.admissions, st.regs, pricer, notifier, m, log)
	eventSvc := service.NewEventService(st.events, st.regs, st.admissions, pricer, cfg.Fees.DefaultTaxRate, sched, log)
	waitSvc := service.NewWaitlistService(st.admissions, regSvc, log)

	router := handler.NewRouter(
		handler.NewEventHandler(eventSvc, refunds, log),
		handler.NewRegistrationHandler(regSvc, waitSvc, log),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		log,
	)

	// ── 3. Background refunds ─────────────────────────────────────────────
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	if err := sched.Start(workerCtx); err != nil {
		cancelWorker()
		return err
	}
	defer func() {
		cancelWorker()
		sched.Stop()
	}()

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", srv.Addr), slog.String("storage", cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// newGateway picks the refund provider and warns about refunds it cannot
// settle.
func newGateway(cfg config.MidtransConfig, log *slog.Logger) ports.PaymentGateway {
	if !cfg.Enabled() {
		log.Warn("MIDTRANS_SERVER_KEY not set, paid refunds will need manual follow-up")
		return payment.DisabledGateway{}
	}
	log.Warn("Midtrans refunds settle in IDR only, refunds for events priced in other currencies will need manual follow-up",
		slog.String("currency", string(payment.MidtransCurrency)))
	return payment.NewMidtransGateway(cfg.ServerKey, cfg.Production, log)
}

func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		s := memory.NewStore()
		return &stores{
			events:     memory.NewEventRepository(s),
			regs:       memory.NewRegistrationRepository(s),
			admissions: memory.NewAdmissions(s),
			close:      func() {},
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("connected to PostgreSQL", slog.String("host", cfg.Database.Host), slog.String("db", cfg.Database.DBName))
	return &stores{
		events:     repository.NewEventRepository(pool),
		regs:       repository.NewRegistrationRepository(pool),
		admissions: repository.NewAdmissions(pool),
		close:      pool.Close,
	}, nil
}
