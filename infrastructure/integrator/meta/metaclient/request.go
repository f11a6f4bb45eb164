package metaclient

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
)

// Request descreve uma chamada à Graph API. Node pode ser um id, um caminho
// relativo (act_123) ou uma URL absoluta (paging.next), usada sem alteração.
type Request struct {
	Method      string
	Node        string
	Edge        string
	Params      map[string]any
	ThrottleKey string
}

// Response carrega o status, os cabeçalhos e o corpo bruto da resposta
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("metaclient: decode response: %w", err)
	}
	return nil
}

func isAbsolute(node string) bool {
	return strings.HasPrefix(node, "https://") || strings.HasPrefix(node, "http://")
}

func (c *MetaClient) buildURL(node, edge string) string {
	if isAbsolute(node) {
		return node
	}

	path := strings.Trim(node, "/")
	if edge != "" {
		path += "/" + strings.Trim(edge, "/")
	}
	return c.baseURL + "/" + path
}

// withQuery acrescenta os parâmetros à URL preservando a query existente
func withQuery(rawURL string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("metaclient: invalid url %q: %w", rawURL, err)
	}

	query := u.Query()
	values, err := EncodeValues(params)
	if err != nil {
		return "", err
	}
	for key, vals := range values {
		query[key] = vals
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// EncodeValues converte parâmetros em valores de formulário; valores que não
// são string são serializados em JSON
func EncodeValues(params map[string]any) (url.Values, error) {
	values := url.Values{}
	for key, value := range params {
		if value == nil {
			continue
		}

		switch v := value.(type) {
		case string:
			values.Set(key, v)
		case fmt.Stringer:
			values.Set(key, v.String())
		default:
			// enums locais (tipos string) vão sem aspas
			if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
				values.Set(key, rv.String())
				continue
			}
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("metaclient: encode param %q: %w", key, err)
			}
			values.Set(key, string(encoded))
		}
	}
	return values, nil
}

// EncodeBody serializa os parâmetros no formato k=v&... usado nos itens de batch
func EncodeBody(params map[string]any) (string, error) {
	values, err := EncodeValues(params)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}
