package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
)

const (
	tokenRefreshEvery   = 23 * time.Hour
	tokenRefreshOnError = time.Hour
)

// TokenManager gerencia o token de longa duração da API do Meta e o persiste
// no armazenamento de segredos
type TokenManager struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	apiURL     string
	appID      string
	appSecret  string
	serviceID  string
	secrets    config.SecretStorage
	httpClient *http.Client
	clock      clock.Clock
}

func NewTokenManager(cfg *config.Config, secrets config.SecretStorage) *TokenManager {
	token := cfg.Meta.LongLivedToken
	if token == "" {
		token = cfg.Meta.AccessToken
	}

	return &TokenManager{
		token:      token,
		expiresAt:  cfg.Meta.TokenExpiresAt,
		apiURL:     cfg.Meta.URL,
		appID:      cfg.Meta.AppID,
		appSecret:  cfg.Meta.AppSecret,
		serviceID:  cfg.Render.ServiceID,
		secrets:    secrets,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		clock:      clock.Real(),
	}
}

// AccessToken retorna o token atual
func (tm *TokenManager) AccessToken() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.token
}

func (tm *TokenManager) ExpiresAt() time.Time {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.expiresAt
}

// InitToken valida o token existente e o renova quando inválido ou sem
// expiração conhecida
func (tm *TokenManager) InitToken(ctx context.Context) {
	if !tm.ExpiresAt().IsZero() {
		if err := tm.EnsureValidToken(ctx); err != nil {
			logrus.Errorf("Erro ao verificar validade do token: %v", err)
		}
		return
	}

	logrus.Info("Validando token de longa duração existente...")
	if err := tm.ValidateExistingToken(ctx); err != nil {
		logrus.Errorf("Falha ao validar token existente: %v", err)
		logrus.Warn("Tentando renovar o token...")
		if err := tm.RefreshToken(ctx); err != nil {
			logrus.Errorf("Falha ao renovar token: %v", err)
			logrus.Warn("A API Meta pode ter funcionalidade limitada até que o token seja renovado")
		}
		return
	}

	logrus.Info("Token de longa duração validado com sucesso")
}

// StartAutoRefresh renova o token periodicamente até o contexto ser cancelado
func (tm *TokenManager) StartAutoRefresh(ctx context.Context) {
	tm.InitToken(ctx)

	ticker := time.NewTicker(tokenRefreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logrus.Info("Iniciando renovação periódica do token da Meta")
			if err := tm.RefreshToken(ctx); err != nil {
				logrus.Errorf("Erro na renovação periódica do token: %v", err)
				ticker.Reset(tokenRefreshOnError)
				continue
			}
			ticker.Reset(tokenRefreshEvery)
		case <-ctx.Done():
			logrus.Info("Encerrando goroutine de renovação periódica do token")
			return
		}
	}
}

// ValidateExistingToken consulta o debug_token e atualiza a expiração
func (tm *TokenManager) ValidateExistingToken(ctx context.Context) error {
	valid, expiresAt, err := debugToken(ctx, tm.httpClient, tm.apiURL, tm.AccessToken(), tm.appID, tm.appSecret)
	if err != nil {
		return err
	}
	if !valid {
		return fmt.Errorf("token de longa duração inválido")
	}
	if expiresAt.IsZero() {
		return fmt.Errorf("não foi possível determinar quando o token expira")
	}

	tm.mu.Lock()
	tm.expiresAt = expiresAt.Add(-24 * time.Hour)
	tm.mu.Unlock()

	logrus.Infof("Token de longa duração é válido. Expira em: %s", expiresAt.Format(time.RFC3339))
	return nil
}

// RefreshToken troca o token atual por um novo token de longa duração e o
// grava no armazenamento de segredos
func (tm *TokenManager) RefreshToken(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.expiresAt.IsZero() && tm.expiresAt.Sub(tm.clock.Now()) < time.Hour {
		logrus.Warn("Token está muito próximo da expiração ou já expirou - pode ser necessária reautorização manual")
	}

	tokenResponse, err := exchangeToken(ctx, tm.httpClient, tm.apiURL, tm.token, tm.appID, tm.appSecret)
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok && apiErr.IsTokenExpired() {
			return fmt.Errorf("o token de acesso expirou e não pode ser renovado automaticamente. "+
				"É necessário reautorizar o aplicativo: %w", err)
		}
		return fmt.Errorf("erro ao obter novo token de longa duração: %w", err)
	}

	changed := tokenResponse.AccessToken != tm.token
	tm.token = tokenResponse.AccessToken
	tm.expiresAt = CalculateTokenExpiration(tm.clock.Now(), tokenResponse.ExpiresIn)

	if !changed {
		logrus.Info("Token renovado, mas não mudou. Isso pode indicar um problema na API da Meta")
	}

	if tm.secrets != nil && tm.serviceID != "" {
		if err := tm.secrets.AddOrUpdateSecret(tm.serviceID, config.MetaAccessTokenName, tm.token); err != nil {
			logrus.WithError(err).Error("metaclient: failed to persist refreshed token")
		}
	}

	logrus.Infof("Token de longa duração atualizado com sucesso. Expira em: %s", tm.expiresAt.Format(time.RFC3339))
	return nil
}

// EnsureValidToken renova o token quando faltam menos de 24 horas para expirar
func (tm *TokenManager) EnsureValidToken(ctx context.Context) error {
	if tm.ExpiresAt().Sub(tm.clock.Now()) < 24*time.Hour {
		logrus.Info("Token expira em menos de 24 horas. Renovando proativamente...")
		return tm.RefreshToken(ctx)
	}
	return nil
}
