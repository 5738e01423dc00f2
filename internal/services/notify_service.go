package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/trymedating/trymed/internal/config"
	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/internal/security"
	"github.com/trymedating/trymed/pkg/logger"
)

const resendEndpoint = "https://api.resend.com/emails"

// NotifyService delivers advisory notifications: report alerts to admins over
// the configured channel, and web push for new chat messages. Delivery is
// best-effort; a failed send is logged and never propagated to the caller's
// transaction.
type NotifyService struct {
	cfg    *config.Config
	client *http.Client
	bot    *tgbotapi.BotAPI
	push   *PushService
}

func NewNotifyService(cfg *config.Config, push *PushService) *NotifyService {
	s := &NotifyService{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		push:   push,
	}

	if cfg.ReportsNotifyMode == config.NotifyModeTelegram {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			logger.Error("Failed to initialize telegram notify channel, falling back to log", "error", err)
		} else {
			s.bot = bot
		}
	}

	return s
}

// NotifyNewReport alerts admins about a freshly filed report.
func (s *NotifyService) NotifyNewReport(report *models.Report) {
	switch s.cfg.ReportsNotifyMode {
	case config.NotifyModeOff:
		return

	case config.NotifyModeEmail:
		if err := s.sendReportEmail(report); err != nil {
			logger.Error("Report email delivery failed", "report_id", report.ID, "error", err)
			s.logReport(report)
		}

	case config.NotifyModeTelegram:
		if err := s.sendReportTelegram(report); err != nil {
			logger.Error("Report telegram delivery failed", "report_id", report.ID, "error", err)
			s.logReport(report)
		}

	default:
		s.logReport(report)
	}
}

// NotifyNewMessage fans a push notification out to the recipient's devices.
func (s *NotifyService) NotifyNewMessage(msg *models.Message) {
	if s.push == nil {
		return
	}

	body := msg.Body
	if msg.Kind == models.MessageKindAttachment {
		body = "📎 Attachment"
	}
	body = security.Truncate(body, 120)

	sent, dead, err := s.push.Send(msg.RecipientID, PushPayload{
		Title: "New message",
		Body:  body,
		URL:   "/connections",
		Tag:   fmt.Sprintf("msg:%d", msg.SenderID),
	})
	if err != nil {
		logger.Error("Push fan-out failed", "recipient_id", msg.RecipientID, "error", err)
		return
	}
	if sent > 0 || dead > 0 {
		logger.Debug("Push fan-out complete", "recipient_id", msg.RecipientID, "sent", sent, "dead", dead)
	}
}

func (s *NotifyService) logReport(report *models.Report) {
	logger.Info("New report received",
		"report_id", report.ID,
		"reporter_id", report.ReporterID,
		"reported_id", report.ReportedID,
		"category", report.Category,
	)
}

func (s *NotifyService) sendReportEmail(report *models.Report) error {
	detail, _ := json.MarshalIndent(report, "", "  ")
	payload := map[string]interface{}{
		"from":    s.cfg.ReportsEmailFrom,
		"to":      s.cfg.ReportsEmailRecipients(),
		"subject": fmt.Sprintf("New report #%d", report.ID),
		"html": fmt.Sprintf(
			`<div style="font:14px/1.5 system-ui"><h2>New report received</h2><pre>%s</pre></div>`,
			html.EscapeString(string(detail))),
		"text": fmt.Sprintf("New report:\n%s", detail),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend failed: %d %s", resp.StatusCode, msg)
	}
	return nil
}

func (s *NotifyService) sendReportTelegram(report *models.Report) error {
	if s.bot == nil {
		return fmt.Errorf("telegram bot not initialized")
	}

	text := fmt.Sprintf(
		"🚩 New report #%d\nReporter: %d\nReported: %d\nCategory: %s\n\n%s",
		report.ID, report.ReporterID, report.ReportedID, report.Category, report.Details,
	)
	msg := tgbotapi.NewMessage(s.cfg.TelegramAdminChatID, text)
	_, err := s.bot.Send(msg)
	return err
}
