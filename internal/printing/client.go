package printing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"barberia-backend/internal/receipt"
)

// Client talks to the print bridge running on the operator's machine.
// Every call carries its own short timeout so a dead bridge can never
// hang a checkout.
type Client struct {
	BaseURL       string
	HTTPClient    *http.Client
	ProbeTimeout  time.Duration
	PrintTimeout  time.Duration
	DrawerTimeout time.Duration
}

func NewClient(baseURL string, probe, print, drawer time.Duration) *Client {
	return &Client{
		BaseURL:       baseURL,
		HTTPClient:    &http.Client{},
		ProbeTimeout:  probe,
		PrintTimeout:  print,
		DrawerTimeout: drawer,
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

type printRequest struct {
	Factura receipt.Document `json:"factura"`
}

type printResponse struct {
	Success bool `json:"success"`
}

// Online probes GET /status. A timeout or any non-online answer just means
// the indicator shows offline; it is never an error for the checkout.
func (c *Client) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/status", nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var sr statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return false
	}
	return sr.Status == "online"
}

// Print posts the rendered document to the bridge. A successful print also
// pulses the cash drawer on the device side.
func (c *Client) Print(ctx context.Context, doc receipt.Document) error {
	ctx, cancel := context.WithTimeout(ctx, c.PrintTimeout)
	defer cancel()

	body, err := json.Marshal(printRequest{Factura: doc})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/print", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("print service returned %d", resp.StatusCode)
	}
	var pr printResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return err
	}
	if !pr.Success {
		return errors.New("print service reported failure")
	}
	return nil
}

// OpenDrawer fires the standalone drawer command. Never call it right after
// a direct print: the bridge already pulsed the drawer and a second command
// races it ("device busy").
func (c *Client) OpenDrawer(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.DrawerTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/open-drawer", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("open-drawer returned %d", resp.StatusCode)
	}
	return nil
}
