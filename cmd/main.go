package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcapi "stt-gateway/internal/api/grpc"
	"stt-gateway/internal/app"
	"stt-gateway/internal/config"
	"stt-gateway/internal/events"
	apphttp "stt-gateway/internal/http"
	"stt-gateway/internal/observability"
	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/observability/metrics"
	"stt-gateway/internal/service/bridge"
	"stt-gateway/internal/service/stt"
	"stt-gateway/internal/service/stt/google"
	"stt-gateway/internal/service/stt/mock"
	"stt-gateway/internal/service/stt/vosk"
	pb "stt-gateway/proto"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		return 1
	}
	cfg := config.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Observability.LogLevel
	logCfg.Format = cfg.Observability.LogFormat
	logCfg.Dir = cfg.Observability.LogDir
	logFile, err := logging.Init(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		return 1
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := newBackend(ctx, cfg.STT)
	if err != nil {
		log.Error().Err(err).Str("sttProvider", cfg.STT.Provider).Msg("Failed to create STT backend")
		return 1
	}
	defer closeBackend()

	// Separate topics for partial and final transcripts
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicPartial: cfg.Kafka.TopicPartial,
		TopicFinal:   cfg.Kafka.TopicFinal,
		Principal:    cfg.Kafka.Principal,
	})
	defer publisher.Close()

	lis, err := net.Listen("tcp", cfg.Service.GRPCAddr())
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.Service.GRPCAddr()).Msg("Failed to listen")
		return 1
	}
	httpLis, err := net.Listen("tcp", cfg.Observability.HTTPAddr)
	if err != nil {
		lis.Close()
		log.Error().Err(err).Str("addr", cfg.Observability.HTTPAddr).Msg("Failed to listen")
		return 1
	}

	application := app.New(cfg)

	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(observability.UnaryServerInterceptor(metrics.DefaultMetrics)),
		grpc.ChainStreamInterceptor(observability.StreamServerInterceptor(metrics.DefaultMetrics)),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	sessions := grpcapi.Register(server, backend, publisher, grpcapi.Options{
		MaxConcurrent:     cfg.Session.MaxConcurrent,
		Limits:            sessionLimits(cfg.Session),
		DefaultSampleRate: cfg.STT.SampleRateHz,
		Metrics:           metrics.DefaultMetrics,
	})

	// Enable gRPC reflection for debugging tools like grpcurl
	reflection.Register(server)

	httpServer := observability.NewServer(cfg.Observability.HTTPAddr, apphttp.NewRouter(application, sessions))

	if err := application.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return 1
	}
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(pb.SpeechToText_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", lis.Addr().String()).
			Str("sttProvider", backend.Name()).
			Msg("STT gateway started")
		if err := server.Serve(lis); err != nil {
			return fmt.Errorf("grpc serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return httpServer.Serve(httpLis)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		application.Shutdown()
		healthServer.Shutdown()
		sessions.Shutdown(server, cfg.Service.ShutdownGrace)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Service.ShutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("STT gateway stopped with error")
		return 1
	}
	log.Info().Msg("STT gateway stopped")
	return 0
}

func newBackend(ctx context.Context, cfg config.STTConfig) (stt.Backend, func(), error) {
	noop := func() {}
	switch cfg.Provider {
	case vosk.Name:
		b, err := vosk.New(vosk.Config{
			URI:            cfg.VoskURI,
			ConnectTimeout: cfg.ConnectTimeout,
			WriteTimeout:   cfg.WriteTimeout,
		})
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case google.Name:
		b, err := google.New(ctx, google.Config{
			LanguageCode:    cfg.LanguageCode,
			SampleRateHz:    cfg.SampleRateHz,
			InterimResults:  cfg.InterimResults,
			AudioEncoding:   cfg.AudioEncoding,
			CredentialsFile: cfg.CredentialsFile,
		})
		if err != nil {
			return nil, noop, err
		}
		return b, func() { _ = b.Close() }, nil
	case mock.Name:
		return mock.New(mock.Options{}), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown STT provider %q", cfg.Provider)
	}
}

func sessionLimits(cfg config.SessionConfig) bridge.Limits {
	return bridge.Limits{
		BufferFrames:       cfg.BufferFrames,
		EnqueueTimeout:     cfg.EnqueueTimeout,
		EnqueueCeiling:     cfg.EnqueueCeiling,
		AudioPoll:          cfg.AudioPoll,
		EventPoll:          cfg.EventPoll,
		DrainTimeout:       cfg.DrainTimeout,
		BackendLossIsError: cfg.BackendLossIsError,
	}
}
