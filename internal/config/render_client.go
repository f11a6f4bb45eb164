package config

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	renderBaseURL        = "https://api.render.com/v1"
	renderPageLimit      = 100
	MetaAccessTokenName  = "meta_access_token"
	renderRequestTimeout = 30 * time.Second
)

// SecretStorage guarda o token de longa duração fora do processo
type SecretStorage interface {
	ListSecrets(serviceID string) (map[string]string, error)
	AddOrUpdateSecret(serviceID, secretName, secretContent string) error
}

type AddOrUpdateSecretRequest struct {
	Content string `json:"content"`
}

// RenderClient lê e grava secret files de um serviço no Render
type RenderClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewRenderClient(config *Config) *RenderClient {
	return &RenderClient{
		APIKey:     config.Render.APIKey,
		BaseURL:    renderBaseURL,
		HTTPClient: &http.Client{Timeout: renderRequestTimeout},
	}
}

// ListSecrets percorre todas as páginas de secret files do serviço
func (c *RenderClient) ListSecrets(serviceID string) (map[string]string, error) {
	secrets := make(map[string]string)
	cursor := ""

	for {
		params := url.Values{}
		params.Set("limit", fmt.Sprint(renderPageLimit))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var page []struct {
			SecretFile struct {
				Content string `json:"content"`
				Name    string `json:"name"`
			} `json:"secretFile"`
			Cursor string `json:"cursor"`
		}
		endpoint := fmt.Sprintf("%s/services/%s/secret-files?%s", c.BaseURL, serviceID, params.Encode())
		if err := c.do(http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, errors.Wrap(err, "config: error listing secrets")
		}

		for _, item := range page {
			secrets[item.SecretFile.Name] = item.SecretFile.Content
		}

		if len(page) < renderPageLimit {
			return secrets, nil
		}
		cursor = page[len(page)-1].Cursor
		if cursor == "" {
			return secrets, nil
		}
	}
}

func (c *RenderClient) AddOrUpdateSecret(serviceID, secretName, secretContent string) error {
	body, err := json.Marshal(AddOrUpdateSecretRequest{Content: secretContent})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/services/%s/secret-files/%s", c.BaseURL, serviceID, url.PathEscape(secretName))
	if err := c.do(http.MethodPut, endpoint, body, nil); err != nil {
		return errors.Wrap(err, "config: error adding or updating secret")
	}
	return nil
}

func (c *RenderClient) do(method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return errors.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ApplyStoredToken substitui o token da configuração pelo último token de
// longa duração persistido no Render, quando houver
func ApplyStoredToken(cfg *Config, storage SecretStorage) {
	if cfg.Render.APIKey == "" || cfg.Render.ServiceID == "" {
		return
	}

	secrets, err := storage.ListSecrets(cfg.Render.ServiceID)
	if err != nil {
		logrus.WithError(err).Warn("config: could not load stored meta token, using environment")
		return
	}

	if token := secrets[MetaAccessTokenName]; token != "" {
		cfg.Meta.AccessToken = token
		logrus.Info("config: using meta token stored on render")
	}
}
