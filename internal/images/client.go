package images

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deliverypro/deliverypro-backend/pkg/config"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

// Client proxies menu image generation to the upstream AI gateway. The
// dashboard sends a product name and description; the gateway answers with a
// data URL for the rendered photo.
type Client struct {
	cfg    config.ImageGenConfig
	http   *http.Client
	logger *logger.Logger
}

// NewClient wires the image generation proxy.
func NewClient(cfg config.ImageGenConfig, logg *logger.Logger) (*Client, error) {
	if cfg.GatewayURL == "" {
		return nil, errors.New("gateway url required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logg,
	}, nil
}

type gatewayRequest struct {
	Model      string           `json:"model"`
	Messages   []gatewayMessage `json:"messages"`
	Modalities []string         `json:"modalities"`
}

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayResponse struct {
	Choices []struct {
		Message struct {
			Images []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate asks the gateway for a menu photo and returns its URL.
func (c *Client) Generate(ctx context.Context, name, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product description is required")
	}

	payload, err := json.Marshal(gatewayRequest{
		Model: c.cfg.Model,
		Messages: []gatewayMessage{
			{Role: "user", Content: buildPrompt(name, description)},
		},
		Modalities: []string{"image", "text"},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call image gateway")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", pkgerrors.New(pkgerrors.CodeRateLimit, "image gateway rate limit exceeded")
	case http.StatusPaymentRequired:
		return "", pkgerrors.New(pkgerrors.CodeDependency, "image gateway credits exhausted")
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn(c.logger.WithField(ctx, "status", resp.StatusCode), "image gateway error")
		return "", pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("image gateway returned %d", resp.StatusCode)).
			WithDetails(map[string]any{"body": string(body)})
	}

	var parsed gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode gateway response")
	}

	if len(parsed.Choices) == 0 || len(parsed.Choices[0].Message.Images) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gateway returned no image")
	}
	url := parsed.Choices[0].Message.Images[0].ImageURL.URL
	if url == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "gateway returned no image")
	}

	c.logger.Info(ctx, "menu image generated")
	return url, nil
}

// buildPrompt renders the fixed food-photography prompt the dashboard uses.
func buildPrompt(name, description string) string {
	prefix := ""
	if strings.TrimSpace(name) != "" {
		prefix = name + " - "
	}
	return fmt.Sprintf(
		"Uma foto profissional de comida de alta qualidade, vista de cima, bem iluminada para cardápio de restaurante: %s%s. Estilo fotografia gastronômica, fundo limpo, cores vibrantes, apresentação apetitosa.",
		prefix, description,
	)
}
