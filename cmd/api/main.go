package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metabatch"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/throttle"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/repository"
	"github.com/vfg2006/traffic-manager-ads/internal/api"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/internal/scheduler"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/assetpipeline"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/insighting"
	"github.com/vfg2006/traffic-manager-ads/internal/usecases/promoting"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
	"github.com/vfg2006/traffic-manager-ads/pkg/log"
)

func main() {
	// .env fica ao lado do binário em desenvolvimento
	_, file, _, _ := runtime.Caller(0)
	os.Chdir(path.Dir(file))

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, cfg.App.Env)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	projectRepo := repository.NewProjectRepository(pgConn)
	objectRepo := repository.NewObjectRepository(pgConn)

	clk := clock.Real()

	governor := throttle.NewGovernor(cfg.Governor, clk)
	go governor.Start(ctx)

	renderClient := config.NewRenderClient(cfg)
	config.ApplyStoredToken(cfg, renderClient)

	tokenManager := metaclient.NewTokenManager(cfg, renderClient)
	if cfg.Meta.TokenAutoRefresh {
		go tokenManager.StartAutoRefresh(ctx)
	}

	metaClient := metaclient.NewClient(cfg, tokenManager, governor, metaclient.WithClock(clk))
	metaIntegrator := meta.New(metaClient)
	batchExecutor := metabatch.NewExecutor(metaClient, cfg.Batch)

	pipeline := assetpipeline.NewPipeline(metaIntegrator, cfg.Transcode, clk)

	promotingService := promoting.NewService(
		metaIntegrator,
		batchExecutor,
		projectRepo,
		objectRepo,
		pipeline,
		clk,
	)

	insightService := insighting.NewService(projectRepo, objectRepo, batchExecutor)

	objectSyncService := scheduler.NewObjectSyncService(projectRepo, promotingService, cfg)
	if err := objectSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de objetos")
	} else {
		logrus.Info("Agendador de sincronização de objetos iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		promotingService,
		insightService,
		objectSyncService,
		promotingService.Wait, // aguarda as sincronizações disparadas pelas leituras
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
