package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с NotifyService (email уведомления)
//
// Уведомления - fire-and-forget: вызывающий логирует ошибку и продолжает,
// неудавшаяся отправка никогда не откатывает изменение статуса бронирования
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// BookingAccepted отправляет письмо о подтверждении бронирования
func (c *Client) BookingAccepted(ctx context.Context, n BookingNotification) error {
	return c.post(ctx, "/internal/notifications/booking-accepted", n)
}

// BookingRejected отправляет письмо об отклонении бронирования
func (c *Client) BookingRejected(ctx context.Context, n BookingNotification) error {
	return c.post(ctx, "/internal/notifications/booking-rejected", n)
}

// BookingCanceled отправляет письмо об отмене бронирования
func (c *Client) BookingCanceled(ctx context.Context, n BookingNotification) error {
	return c.post(ctx, "/internal/notifications/booking-canceled", n)
}

// BookingRescheduled отправляет письмо о переносе бронирования
func (c *Client) BookingRescheduled(ctx context.Context, n BookingNotification) error {
	return c.post(ctx, "/internal/notifications/booking-rescheduled", n)
}

func (c *Client) post(ctx context.Context, path string, n BookingNotification) error {
	payload, err := json.Marshal(&n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	c.log.Info("Notification sent: %s to %s", path, n.RecipientEmail)
	return nil
}
