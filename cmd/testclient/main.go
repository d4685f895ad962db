package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/service/capture"
	pb "stt-gateway/proto"
)

// Smoke test: opens one session, streams a short tone and prints every
// response the gateway sends back.
func main() {
	server := flag.String("server", "localhost:50051", "gateway gRPC address")
	duration := flag.Duration("duration", 2*time.Second, "length of the tone")
	rate := flag.Int("samplerate", capture.DefaultSampleRate, "sampling rate in Hz")
	flag.Parse()

	logCfg := logging.DefaultConfig()
	logCfg.Format = "console"
	if _, err := logging.Init(logCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logging")
	}

	conn, err := grpc.NewClient(*server, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect")
	}
	defer conn.Close()

	log.Info().Str("server", *server).Msg("Connected to server")

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var finals, errs int
	err = capture.NewClient(conn).Run(ctx, capture.NewToneSource(*rate, 0), capture.SessionConfig{
		SampleRateHz: int32(*rate),
		Channels:     capture.DefaultChannels,
	}, func(resp *pb.STTResponse) {
		if f := resp.GetFinal(); f != nil {
			finals++
			log.Info().Float32("confidence", f.GetConfidence()).Msgf("Received final: %q", f.GetText())
			return
		}
		errs++
		log.Warn().Msgf("Received error: %s", resp.GetError().GetMessage())
	})
	if err != nil {
		log.Error().Err(err).Msg("Session failed")
		os.Exit(1)
	}

	log.Info().Int("finals", finals).Int("errors", errs).Msg("Session completed")
	if errs > 0 {
		os.Exit(1)
	}
}
