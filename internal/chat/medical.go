package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MedicalBotClient talks to the specialized medical assistant over HTTP.
type MedicalBotClient struct {
	endpoint string
	client   *http.Client
}

func NewMedicalBotClient(endpoint string) *MedicalBotClient {
	return &MedicalBotClient{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

type medicalBotRequest struct {
	Message string `json:"message"`
}

type medicalBotResponse struct {
	Response string `json:"response"`
}

func (c *MedicalBotClient) Reply(ctx context.Context, _ []Message, text string) (string, error) {
	body, err := json.Marshal(medicalBotRequest{Message: text})
	if err != nil {
		return "", fmt.Errorf("chat: marshal medical bot request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: build medical bot request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: medical bot request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat: medical bot returned status %d", resp.StatusCode)
	}

	var out medicalBotResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("chat: decode medical bot reply: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", errors.New("chat: medical bot returned empty reply")
	}

	return out.Response, nil
}
