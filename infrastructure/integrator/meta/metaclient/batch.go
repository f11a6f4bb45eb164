package metaclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/throttle"
)

// BatchItem é uma sub-requisição de um batch. Body é serializado como
// k=v&... quando o batch pede corpo codificado.
type BatchItem struct {
	Method      string
	RelativeURL string
	Body        map[string]any
}

type BatchRequest struct {
	Items       []*BatchItem
	EncodeBody  bool
	ThrottleKey string
}

type BatchHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// BatchResult é a resposta de um item. Itens nulos na resposta voltam com
// Code 0.
type BatchResult struct {
	Code    int           `json:"code"`
	Headers []BatchHeader `json:"headers,omitempty"`
	Body    string        `json:"body"`
}

func (r BatchResult) OK() bool {
	return r.Code >= http.StatusOK && r.Code < http.StatusMultipleChoices
}

func (r BatchResult) Decode(v any) error {
	if err := json.Unmarshal([]byte(r.Body), v); err != nil {
		return fmt.Errorf("metaclient: decode batch item: %w", err)
	}
	return nil
}

// Error normaliza o corpo do item quando ele não teve sucesso
func (r BatchResult) Error() *APIError {
	if r.OK() {
		return nil
	}
	return parseAPIError(r.Code, []byte(r.Body))
}

type batchEntry struct {
	Method      string `json:"method"`
	RelativeURL string `json:"relative_url"`
	Body        any    `json:"body,omitempty"`
}

// Batch envia todos os itens em uma única chamada POST batch=[...]. O
// throttle é aplicado uma vez por batch, nunca por item.
func (c *MetaClient) Batch(ctx context.Context, req BatchRequest) ([]BatchResult, error) {
	entries := make([]batchEntry, 0, len(req.Items))
	for _, item := range req.Items {
		if item == nil {
			continue
		}

		entry := batchEntry{
			Method:      item.Method,
			RelativeURL: item.RelativeURL,
		}
		if entry.Method == "" {
			entry.Method = http.MethodGet
		}

		if len(item.Body) > 0 {
			if req.EncodeBody {
				encoded, err := EncodeBody(item.Body)
				if err != nil {
					return nil, err
				}
				entry.Body = encoded
			} else {
				entry.Body = item.Body
			}
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return []BatchResult{}, nil
	}

	payload, err := json.Marshal(map[string]any{
		"batch":           entries,
		"include_headers": true,
	})
	if err != nil {
		return nil, fmt.Errorf("metaclient: encode batch: %w", err)
	}

	resp, err := c.withRetry(ctx, http.MethodPost, c.baseURL, func() (*Response, error) {
		if err := c.throttle(ctx, req.ThrottleKey, throttleKindFor(entries)); err != nil {
			return nil, err
		}
		return c.execute(ctx, http.MethodPost, c.baseURL, payload)
	})
	if err != nil {
		return nil, err
	}

	var raw []*BatchResult
	if err := resp.Decode(&raw); err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(raw))
	for i, item := range raw {
		if item == nil {
			results[i] = BatchResult{Code: 0}
			continue
		}
		results[i] = *item
	}

	return results, nil
}

// batches somente de leitura usam o atraso de leitura
func throttleKindFor(entries []batchEntry) throttle.CallKind {
	for _, entry := range entries {
		if entry.Method != http.MethodGet {
			return throttle.Write
		}
	}
	return throttle.Read
}
