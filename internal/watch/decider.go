package watch

import (
	"bufio"
	"context"
	"dropwatch/pkg/logger"
	"dropwatch/pkg/serrors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// autoDecider resolves the grace prompt for unattended runs: always continue,
// never touch input.
type autoDecider struct{}

// NewAutoDecider returns a Decider that continues on the cool-down schedule
// without reading any input.
func NewAutoDecider() Decider {
	return autoDecider{}
}

func (autoDecider) Decide(ctx context.Context, domainName string, sinceTarget time.Duration) (Decision, error) {
	logger.Info(ctx, "grace window exceeded, continuing without prompting",
		zap.String("domain", domainName),
		zap.Duration("sinceTarget", sinceTarget))

	return Decision{Action: ActionContinue}, nil
}

// promptDecider asks the operator what to do, reading one answer line from in.
// The read itself blocks until a line arrives, but the surrounding select keeps
// the prompt cancellable: an interrupt during the prompt still ends the run.
type promptDecider struct {
	in  io.Reader
	out io.Writer
}

// NewPromptDecider returns the interactive Decider. Answers are read from in
// (normally stdin), the prompt is written to out.
func NewPromptDecider(in io.Reader, out io.Writer) Decider {
	return &promptDecider{in: in, out: out}
}

func (p *promptDecider) Decide(ctx context.Context, domainName string, sinceTarget time.Duration) (Decision, error) {
	fmt.Fprintf(p.out, "\n%s has been past its drop window for %s.\n",
		domainName, sinceTarget.Round(time.Second))

	answers := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(answers)

		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			select {
			case answers <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(p.out, "[C]ontinue on the cool-down schedule, [q]uit, or enter an interval in seconds: ")

		select {
		case <-ctx.Done():
			return Decision{}, serrors.Wrap(serrors.ErrInterrupted, ctx.Err(), "prompt interrupted")
		case answer, ok := <-answers:
			if !ok {
				if err := <-readErr; err != nil {
					return Decision{}, fmt.Errorf("could not read answer: %w", err)
				}
				// Input closed with no answer; keep watching.
				logger.Warn(ctx, "prompt input closed, continuing", zap.String("domain", domainName))

				return Decision{Action: ActionContinue}, nil
			}

			decision, ok := parseAnswer(answer)
			if !ok {
				fmt.Fprintf(p.out, "unrecognized answer %q\n", answer)

				continue
			}

			return decision, nil
		}
	}
}

func parseAnswer(answer string) (Decision, bool) {
	switch strings.ToLower(answer) {
	case "", "c", "continue":
		return Decision{Action: ActionContinue}, true
	case "q", "quit":
		return Decision{Action: ActionQuit}, true
	}

	seconds, err := strconv.ParseInt(answer, 10, 64)
	if err != nil || seconds <= 0 {
		return Decision{}, false
	}

	return Decision{Action: ActionCustomInterval, Interval: seconds}, true
}
