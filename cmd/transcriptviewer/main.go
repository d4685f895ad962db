// Transcript viewer: consumes the transcript topics from Kafka and pushes
// them to browsers over websocket.
package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"stt-gateway/internal/observability/logging"
)

//go:embed static/*
var staticFiles embed.FS

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// decodeEvent parses a Kafka message value. Messages without a session id
// are not transcript events.
func decodeEvent(value []byte) (viewerEvent, error) {
	var event viewerEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return viewerEvent{}, err
	}
	if event.SessionID == "" {
		return viewerEvent{}, errors.New("missing sessionId")
	}
	return event, nil
}

func consumeKafka(ctx context.Context, h *hub, brokers []string, topic string, since time.Duration) {
	// partition reader without a consumer group, works through port-forwards
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	if err := reader.SetOffsetAt(ctx, time.Now().Add(-since)); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("Failed to seek, reading from the start")
	}
	log.Info().Str("topic", topic).Dur("since", since).Msg("Consuming transcripts")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Str("topic", topic).Msg("Kafka read error")
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			log.Warn().Err(err).Str("topic", topic).Msg("Skipping message")
			continue
		}

		log.Debug().
			Str("eventType", event.EventType).
			Str("sessionId", event.SessionID).
			Msg(truncate(event.Text, 40))
		select {
		case h.broadcast <- event:
		case <-ctx.Done():
			return
		}
	}
}

func newRouter(h *hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	staticFS, _ := fs.Sub(staticFiles, "static")
	r.Get("/ws", wsHandler(h))
	r.Handle("/*", http.FileServer(http.FS(staticFS)))
	return r
}

func main() {
	addr := flag.String("addr", ":8081", "HTTP listen address")
	brokers := flag.String("brokers", "localhost:9092", "Kafka brokers (comma-separated)")
	topicPartial := flag.String("topic-partial", "stt.transcript.partial", "partial transcript topic")
	topicFinal := flag.String("topic-final", "stt.transcript.final", "final transcript topic")
	since := flag.Duration("since", time.Hour, "replay transcripts newer than this")
	flag.Parse()

	logCfg := logging.DefaultConfig()
	logCfg.Format = "console"
	if _, err := logging.Init(logCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := newHub()
	go h.run(ctx.Done())

	brokerList := strings.Split(*brokers, ",")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { consumeKafka(gctx, h, brokerList, *topicPartial, *since); return nil })
	g.Go(func() error { consumeKafka(gctx, h, brokerList, *topicFinal, *since); return nil })

	srv := &http.Server{Handler: newRouter(h), ReadHeaderTimeout: 5 * time.Second}
	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("Failed to listen")
	}
	g.Go(func() error {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	log.Info().
		Str("addr", lis.Addr().String()).
		Strs("brokers", brokerList).
		Strs("topics", []string{*topicPartial, *topicFinal}).
		Msg("Transcript viewer started")

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Transcript viewer stopped with error")
		os.Exit(1)
	}
}
