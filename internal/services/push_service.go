package services

import (
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/trymedating/trymed/internal/config"
	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/pkg/errors"
	"github.com/trymedating/trymed/pkg/logger"
)

// PushPayload is what the service worker renders as a notification.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Badge string `json:"badge,omitempty"`
}

type PushService struct {
	repo *repositories.PushRepository
	cfg  *config.Config
}

func NewPushService(repo *repositories.PushRepository, cfg *config.Config) *PushService {
	return &PushService{repo: repo, cfg: cfg}
}

// Enabled reports whether VAPID keys are configured.
func (s *PushService) Enabled() bool {
	return s.cfg.VAPIDPublicKey != "" && s.cfg.VAPIDPrivateKey != ""
}

// Subscribe registers an endpoint for the user.
func (s *PushService) Subscribe(userID uint, endpoint, p256dh, auth string) error {
	if endpoint == "" || p256dh == "" || auth == "" {
		return errors.New(errors.ErrCodeValidation, "incomplete push subscription")
	}
	return s.repo.Upsert(&models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	})
}

// Unsubscribe removes an endpoint for the user.
func (s *PushService) Unsubscribe(userID uint, endpoint string) error {
	if endpoint == "" {
		return errors.New(errors.ErrCodeValidation, "missing endpoint")
	}
	return s.repo.DeleteEndpoint(userID, endpoint)
}

// Send pushes the payload to every subscription of the recipient. Endpoints
// the push service reports gone (404/410) are deleted and counted as dead;
// other failures are logged and skipped.
func (s *PushService) Send(recipientID uint, payload PushPayload) (sent, dead int, err error) {
	if !s.Enabled() {
		return 0, 0, nil
	}

	subs, err := s.repo.ListForUser(recipientID)
	if err != nil {
		return 0, 0, err
	}
	if len(subs) == 0 {
		return 0, 0, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to marshal push payload")
	}

	opts := &webpush.Options{
		Subscriber:      s.cfg.VAPIDSubject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
	}

	for _, sub := range subs {
		resp, pushErr := webpush.SendNotification(body, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, opts)

		if pushErr != nil {
			logger.Warn("Push send failed", "endpoint", sub.Endpoint, "error", pushErr)
			continue
		}

		status := resp.StatusCode
		resp.Body.Close()

		switch {
		case status == http.StatusNotFound || status == http.StatusGone:
			dead++
			if delErr := s.repo.DeleteEndpoint(sub.UserID, sub.Endpoint); delErr != nil {
				logger.Warn("Failed to prune dead push endpoint", "endpoint", sub.Endpoint, "error", delErr)
			}
		case status >= 200 && status < 300:
			sent++
		default:
			logger.Warn("Push service rejected notification", "endpoint", sub.Endpoint, "status", status)
		}
	}

	return sent, dead, nil
}
