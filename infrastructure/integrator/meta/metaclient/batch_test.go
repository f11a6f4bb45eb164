package metaclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaClient_Batch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v22.0", r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload struct {
			Batch []struct {
				Method      string `json:"method"`
				RelativeURL string `json:"relative_url"`
				Body        string `json:"body"`
			} `json:"batch"`
		}
		require.NoError(t, json.Unmarshal(raw, &payload))
		require.Len(t, payload.Batch, 2)

		assert.Equal(t, "POST", payload.Batch[0].Method)
		assert.Equal(t, "111", payload.Batch[0].RelativeURL)
		assert.Equal(t, "status=ARCHIVED", payload.Batch[0].Body)
		assert.Equal(t, "DELETE", payload.Batch[1].Method)
		assert.Equal(t, "222", payload.Batch[1].RelativeURL)
		assert.Empty(t, payload.Batch[1].Body)

		writeJSON(w, http.StatusOK, `[
			{"code":200,"headers":[{"name":"Content-Type","value":"application/json"}],"body":"{\"success\":true}"},
			null
		]`)
	})

	results, err := client.Batch(context.Background(), BatchRequest{
		Items: []*BatchItem{
			{Method: http.MethodPost, RelativeURL: "111", Body: map[string]any{"status": "ARCHIVED"}},
			nil,
			{Method: http.MethodDelete, RelativeURL: "222"},
		},
		EncodeBody: true,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].OK())
	var body struct {
		Success bool `json:"success"`
	}
	require.NoError(t, results[0].Decode(&body))
	assert.True(t, body.Success)

	assert.Equal(t, 0, results[1].Code)
	assert.False(t, results[1].OK())
}

func TestMetaClient_Batch_Empty(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("batch vazio não deve chamar a API")
	})

	results, err := client.Batch(context.Background(), BatchRequest{Items: []*BatchItem{nil}})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchResult_Error(t *testing.T) {
	result := BatchResult{Code: 400, Body: `{"error":{"message":"Invalid parameter","code":100}}`}

	apiErr := result.Error()
	require.NotNil(t, apiErr)
	assert.Equal(t, 100, apiErr.Code)
	assert.Nil(t, BatchResult{Code: 200}.Error())
}
