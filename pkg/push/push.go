package push

import (
	"context"
	"log"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/pkg/config"
)

// Client delivers Web Push notifications signed with the configured VAPID
// key pair.
type Client struct {
	publicKey  string
	privateKey string
	subscriber string
}

// NewClient creates a push client, or nil when the VAPID keys are not
// configured. A nil client soft-disables dispatch; that is not an error.
func NewClient(cfg *config.Config) *Client {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		log.Println("WARN: VAPID keys not configured, push delivery disabled.")
		return nil
	}
	return &Client{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subscriber: cfg.VAPIDSubject,
	}
}

// Send delivers payload to one subscription and returns the delivery HTTP
// status code.
func (c *Client) Send(ctx context.Context, sub models.PushSubscription, payload []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      c.subscriber,
		VAPIDPublicKey:  c.publicKey,
		VAPIDPrivateKey: c.privateKey,
		TTL:             60,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
