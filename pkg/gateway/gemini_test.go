package gateway

import (
	"context"
	"encoding/json"
	"lixozero/domain"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(handler http.HandlerFunc) (*geminiExtractor, *httptest.Server) {
	server := httptest.NewServer(handler)
	extractor := &geminiExtractor{
		apiKey:  "test-key",
		model:   "gemini-test",
		baseURL: server.URL,
		client:  server.Client(),
	}
	return extractor, server
}

func geminiReply(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
			},
		},
	}
}

func TestExtractAcquisitionsFromText(t *testing.T) {
	payload := `[{"name":"Leite","quantity":2,"unit":"litro","storageType":"fridge","expiryDays":7,"estimatedPrice":4.5}]`
	extractor, server := newTestExtractor(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-test")

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "generationConfig")

		json.NewEncoder(w).Encode(geminiReply(payload))
	})
	defer server.Close()

	records, err := extractor.ExtractAcquisitionsFromText(context.Background(), "comprei 2 litros de leite")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Leite", records[0].Name)
	assert.Equal(t, 2.0, records[0].Quantity)
	assert.Equal(t, "litro", records[0].Unit)
	assert.Equal(t, domain.StorageFridge, records[0].StorageType)
	assert.Equal(t, 7, records[0].ExpiryDays)
	assert.Equal(t, 4.5, records[0].EstimatedPrice)
}

func TestExtractAcquisitionsStripsMarkdownFences(t *testing.T) {
	fenced := "```json\n[{\"name\":\"Arroz\",\"quantity\":1,\"unit\":\"kg\",\"storageType\":\"pantry\",\"expiryDays\":180,\"estimatedPrice\":6}]\n```"
	extractor, server := newTestExtractor(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(geminiReply(fenced))
	})
	defer server.Close()

	records, err := extractor.ExtractAcquisitionsFromText(context.Background(), "comprei arroz")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Arroz", records[0].Name)
}

func TestExtractAcquisitionsRejectsIncompleteRecords(t *testing.T) {
	missingUnit := `[{"name":"Leite","quantity":2,"unit":"","storageType":"fridge","expiryDays":7,"estimatedPrice":4.5}]`
	extractor, server := newTestExtractor(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(geminiReply(missingUnit))
	})
	defer server.Close()

	_, err := extractor.ExtractAcquisitionsFromText(context.Background(), "comprei leite")

	require.ErrorIs(t, err, domain.ErrGatewayMalformed)
}

func TestExtractAcquisitionsRejectsNonJSONReply(t *testing.T) {
	extractor, server := newTestExtractor(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(geminiReply("não consegui identificar alimentos"))
	})
	defer server.Close()

	_, err := extractor.ExtractAcquisitionsFromText(context.Background(), "comprei leite")

	require.ErrorIs(t, err, domain.ErrGatewayMalformed)
}

func TestExtractAcquisitionsServerError(t *testing.T) {
	extractor, server := newTestExtractor(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := extractor.ExtractAcquisitionsFromText(context.Background(), "comprei leite")

	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestExtractAcquisitionsUnreachableServer(t *testing.T) {
	extractor, server := newTestExtractor(func(w http.ResponseWriter, _ *http.Request) {})
	server.Close()

	_, err := extractor.ExtractAcquisitionsFromText(context.Background(), "comprei leite")

	require.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestExtractConsumption(t *testing.T) {
	payload := `[{"name":"Leite","quantity":1}]`
	extractor, server := newTestExtractor(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(geminiReply(payload))
	})
	defer server.Close()

	records, err := extractor.ExtractConsumption(context.Background(), "tomei 1 litro de leite")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Leite", records[0].Name)
	assert.Equal(t, 1.0, records[0].Quantity)
}

func TestExtractConsumptionRejectsNonPositiveQuantity(t *testing.T) {
	payload := `[{"name":"Leite","quantity":0}]`
	extractor, server := newTestExtractor(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(geminiReply(payload))
	})
	defer server.Close()

	_, err := extractor.ExtractConsumption(context.Background(), "tomei leite")

	require.ErrorIs(t, err, domain.ErrGatewayMalformed)
}

func TestExtractAcquisitionsFromImage(t *testing.T) {
	payload := `[{"name":"Banana","quantity":6,"unit":"unidade","storageType":"outside","expiryDays":5,"estimatedPrice":3}]`
	extractor, server := newTestExtractor(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Contents []struct {
				Parts []map[string]interface{} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 2)
		assert.Contains(t, body.Contents[0].Parts[0], "inline_data")

		json.NewEncoder(w).Encode(geminiReply(payload))
	})
	defer server.Close()

	records, err := extractor.ExtractAcquisitionsFromImage(context.Background(), ImageInput{
		Data:     []byte{0xFF, 0xD8, 0xFF},
		MimeType: "image/jpeg",
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Banana", records[0].Name)
}

func TestSanitizeResponseText(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, sanitizeResponseText("```json\n[{\"a\":1}]\n```"))
	assert.Equal(t, `[{"a":1}]`, sanitizeResponseText("```\n[{\"a\":1}]\n```"))
	assert.Equal(t, `[{"a":1}]`, sanitizeResponseText("Aqui está o resultado: [{\"a\":1}] conforme pedido"))
	assert.Equal(t, `[]`, sanitizeResponseText("[]"))
}
