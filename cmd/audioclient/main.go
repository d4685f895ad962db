package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"stt-gateway/internal/observability/logging"
	"stt-gateway/internal/service/capture"
	"stt-gateway/internal/service/capture/mic"
	pb "stt-gateway/proto"
)

var rootCmd = &cobra.Command{
	Use:          "audioclient",
	Short:        "Stream microphone, WAV or tone audio to the STT gateway and print final transcripts",
	SilenceUsage: true,
	RunE:         runCapture,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("server", "localhost:50051", "gateway gRPC address")
	flags.IntP("samplerate", "s", capture.DefaultSampleRate, "sampling rate in Hz")
	flags.Int("channels", capture.DefaultChannels, "number of input channels")
	flags.StringP("device", "d", "", "input device (numeric ID or name substring)")
	flags.BoolP("list-devices", "l", false, "show list of audio devices and exit")
	flags.String("file", "", "stream a 16-bit PCM WAV file instead of the microphone")
	flags.Bool("tone", false, "stream a synthetic 440 Hz tone instead of the microphone")
	flags.Duration("duration", 0, "stop after this long (0 = until interrupted)")
	flags.String("session-id", "", "session id (generated when empty)")
	flags.String("logs", "", "folder path to save the logs")
	flags.String("log-level", "info", "log level")

	_ = viper.BindPFlags(flags)
	viper.SetEnvPrefix("CAPTURE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCapture(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("list-devices") {
		return mic.ListDevices(cmd.OutOrStdout())
	}

	logCfg := logging.DefaultConfig()
	logCfg.Format = "console"
	logCfg.Level = viper.GetString("log-level")
	logCfg.Dir = viper.GetString("logs")
	logCfg.FileName = "audioclient.log"
	logFile, err := logging.Init(logCfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	src, rate, channels, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if d := viper.GetDuration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	conn, err := grpc.NewClient(viper.GetString("server"), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	log.Info().Str("server", viper.GetString("server")).Msg("Streaming audio... speak now")

	err = capture.NewClient(conn).Run(ctx, src, capture.SessionConfig{
		SessionID:    viper.GetString("session-id"),
		SampleRateHz: rate,
		Channels:     channels,
	}, render)
	if status.Code(err) == codes.Unavailable {
		log.Info().Msg("Gateway stopped: streaming RPC cancelled")
		return nil
	}
	return err
}

// openSource picks the WAV file, tone or microphone and reports the format
// the session must be configured with.
func openSource() (capture.Source, int32, int32, error) {
	rate := viper.GetInt("samplerate")
	channels := viper.GetInt("channels")

	switch {
	case viper.GetString("file") != "":
		src, err := capture.OpenWAV(viper.GetString("file"))
		if err != nil {
			return nil, 0, 0, err
		}
		f := src.Format()
		log.Info().
			Uint32("sampleRate", f.SampleRate).
			Uint16("channels", f.Channels).
			Msg("WAV file opened")
		return src, int32(f.SampleRate), int32(f.Channels), nil

	case viper.GetBool("tone"):
		tone := capture.NewToneSource(rate, 0)
		tone.Channels = channels
		return tone, int32(rate), int32(channels), nil

	default:
		cfg := mic.DefaultConfig()
		cfg.SampleRate = float64(rate)
		cfg.Channels = channels
		cfg.Device = viper.GetString("device")
		src, err := mic.NewSource(cfg)
		if err != nil {
			return nil, 0, 0, err
		}
		return src, int32(rate), int32(channels), nil
	}
}

func render(resp *pb.STTResponse) {
	switch {
	case resp.GetFinal() != nil:
		log.Info().
			Float32("confidence", resp.GetFinal().GetConfidence()).
			Msgf("Final transcription: %s", resp.GetFinal().GetText())
	case resp.GetError() != nil:
		log.Error().Msgf("STT error: %s", resp.GetError().GetMessage())
	}
}
