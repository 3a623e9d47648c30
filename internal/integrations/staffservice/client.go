package staffservice

import (
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

// Client клиент для работы со StaffService (врачи, больницы, пациенты)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента StaffService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetDoctor получает врача по ID
func (c *Client) GetDoctor(ctx context.Context, doctorID int64) (*Doctor, error) {
	var doctor Doctor
	url := fmt.Sprintf("%s/internal/doctors/%d", c.baseURL, doctorID)
	if err := c.get(ctx, url, ErrDoctorNotFound, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// GetHospital получает больницу по ID
// Ответ включает список ID врачей больницы - он используется guard'ом
// при изменении набора слотов больницы
func (c *Client) GetHospital(ctx context.Context, hospitalID int64) (*Hospital, error) {
	var hospital Hospital
	url := fmt.Sprintf("%s/internal/hospitals/%d", c.baseURL, hospitalID)
	if err := c.get(ctx, url, ErrHospitalNotFound, &hospital); err != nil {
		return nil, err
	}
	return &hospital, nil
}

// GetUser получает пациента по ID
func (c *Client) GetUser(ctx context.Context, userID int64) (*User, error) {
	var user User
	url := fmt.Sprintf("%s/internal/users/%d", c.baseURL, userID)
	if err := c.get(ctx, url, ErrUserNotFound, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// get выполняет GET запрос с обработкой статус-кодов
// notFound - ошибка, в которую транслируется 404
func (c *Client) get(ctx context.Context, url string, notFound error, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
