package publisher

import (
	"context"

	"github.com/ryosukesatoh/gov-digest/internal/digest"
)

// Publisher renders a stored daily digest to some output destination. The
// pipeline itself never publishes; this is the read side of the store.
type Publisher interface {
	PublishDaily(ctx context.Context, d *digest.DailyDigest) error
}
