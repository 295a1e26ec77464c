package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-faster/errors"
)

// Sendmail delivers through the local sendmail binary, reading the full
// RFC 822 message (headers included) from stdin via the -t flag.
type Sendmail struct{}

// Name implements Sender.
func (Sendmail) Name() string { return "sendmail" }

// Send implements Sender.
func (Sendmail) Send(ctx context.Context, cfg Config, subject string, body string) error {
	path, err := exec.LookPath("sendmail")
	if err != nil {
		return errors.Wrap(err, "sendmail not installed")
	}

	msg := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		cfg.To, cfg.From, subject, body)

	cmd := exec.CommandContext(ctx, path, "-t")
	cmd.Stdin = strings.NewReader(msg)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return errors.Errorf("sendmail failed: %s", strings.TrimSpace(stderr.String()))
		}

		return errors.Wrap(err, "sendmail failed")
	}

	return nil
}

var _ Sender = Sendmail{}
