package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"certigen/internal/common"
	"certigen/internal/domain/certificate"
)

var _ certificate.RelayClient = (*Client)(nil)

// Client submits certificates to the mail relay's /enviarConstancia
// endpoint, one POST per participant.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a relay client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		// Certificates ride along as base64, so give the relay room to work.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// sendRequest is the relay wire payload. Field names are the relay's
// contract and predate this service.
type sendRequest struct {
	Correo string `json:"correo"`
	Nombre string `json:"nombre"`
	Equipo string `json:"equipo"`
	PDF    string `json:"pdf"`
}

// SendCertificate posts one certificate to the relay. A non-2xx response is
// returned as a DeliveryError carrying the relay's message.
func (c *Client) SendCertificate(ctx context.Context, d certificate.Delivery) error {
	payload, err := json.Marshal(sendRequest{
		Correo: d.Address,
		Nombre: d.DisplayName,
		Equipo: d.TeamName,
		PDF:    d.DocumentBase64,
	})
	if err != nil {
		return fmt.Errorf("marshaling relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/enviarConstancia", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.NewDeliveryError(d.Address, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return fmt.Errorf("reading relay response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &errResp)

		msg := errResp.Error
		if msg == "" {
			msg = fmt.Sprintf("relay returned status %d", resp.StatusCode)
		}
		return common.NewDeliveryError(d.Address, msg)
	}

	return nil
}
