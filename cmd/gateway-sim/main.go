package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eldoria/harperbot/internal/simulator"
	"github.com/eldoria/harperbot/pkg/logger"
)

// Default simulation constants.
const (
	defaultParticipants   = 12
	defaultAnswers        = 200
	defaultAnswerInterval = 250 * time.Millisecond
	defaultDuration       = 10 * time.Minute
)

func main() {
	var (
		addr         = flag.String("addr", ":9090", "Listen address for the fake gateway")
		participants = flag.Int("participants", defaultParticipants, "Number of synthetic participants")
		answers      = flag.Int("answers", defaultAnswers, "Total synthetic answer submissions")
		operatorID   = flag.String("operator", "operator-1", "Identity used for synthetic operator commands")
		interval     = flag.Duration("interval", defaultAnswerInterval, "Delay between synthetic submissions")
		duration     = flag.Duration("duration", defaultDuration, "Maximum run duration")
		seed         = flag.Int64("seed", 0, "Randomness seed (0 = time-based)")
		verbose      = flag.Bool("verbose", false, "Log every bot frame")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := simulator.NewServer(&simulator.Config{
		Addr:           *addr,
		Participants:   *participants,
		Answers:        *answers,
		OperatorID:     *operatorID,
		AnswerInterval: *interval,
		Duration:       *duration,
		Seed:           *seed,
		Verbose:        *verbose,
	})

	if err := srv.Run(ctx); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
	}
}
