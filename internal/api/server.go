package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/internal/api/handler"
	"github.com/vfg2006/traffic-manager-ads/internal/api/handler/router"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/internal/scheduler"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/insighting"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/promoting"
	"github.com/vfg2006/traffic-manager-ads/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	// onShutdown roda depois que o servidor HTTP para de aceitar requisições
	onShutdown []func()
}

func New(
	config *config.Config,
	promotingService promoting.PromotingService,
	insightService insighting.Insighter,
	objectSyncService *scheduler.ObjectSyncService,
	onShutdown ...func(),
) (*Server, error) {
	var syncJob handler.ObjectSyncJob
	if objectSyncService != nil {
		syncJob = objectSyncService
	}

	maxBody := config.Server.MaxBodyBytes

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithPrefix(handler.BusinessPrefix, handler.Campaigns(promotingService, maxBody)...),
		router.WithPrefix(handler.BusinessPrefix, handler.AdSets(promotingService, maxBody)...),
		router.WithPrefix(handler.BusinessPrefix, handler.Ads(promotingService, maxBody)...),
		router.WithPrefix(handler.BusinessPrefix, handler.Creatives(promotingService, maxBody)...),
		router.WithPrefix(handler.BusinessPrefix, handler.AdLabels(promotingService, maxBody)...),
		router.WithPrefix(handler.BusinessPrefix, handler.AdStudies(promotingService, maxBody)...),
		router.WithPrefix(handler.BusinessPrefix, handler.Insights(insightService)...),
		router.WithPrefix(handler.BusinessPrefix, handler.BusinessSync(promotingService)...),
		router.WithRoutes(handler.CronJobs(syncJob)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.CorsOrigins),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
		onShutdown: onShutdown,
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	for _, fn := range s.onShutdown {
		fn()
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
