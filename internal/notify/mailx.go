package notify

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/go-faster/errors"
)

// Mailx delivers through the mailx binary, the last resort on hosts that
// carry neither a reachable SMTP server nor sendmail.
type Mailx struct{}

// Name implements Sender.
func (Mailx) Name() string { return "mailx" }

// Send implements Sender.
func (Mailx) Send(ctx context.Context, cfg Config, subject string, body string) error {
	path, err := exec.LookPath("mailx")
	if err != nil {
		return errors.Wrap(err, "mailx not installed")
	}

	cmd := exec.CommandContext(ctx, path, "-s", subject, cfg.To)
	cmd.Stdin = strings.NewReader(body + "\n")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return errors.Errorf("mailx failed: %s", strings.TrimSpace(stderr.String()))
		}

		return errors.Wrap(err, "mailx failed")
	}

	return nil
}

var _ Sender = Mailx{}
