package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"lixozero/domain"
	"lixozero/internal/utils"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var jsonPattern = regexp.MustCompile(`(?s)\[.*\]`)

// geminiExtractor talks to the Gemini generateContent REST API and asks for
// structured JSON output. Responses are still sanitized for markdown fences
// because the model occasionally wraps the payload anyway.
type geminiExtractor struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiExtractor() Extractor {
	return &geminiExtractor{
		apiKey:  utils.GetConfig("GEMINI_API_KEY"),
		model:   utils.GetConfig("GEMINI_MODEL"),
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

var acquisitionSchema = map[string]interface{}{
	"type": "ARRAY",
	"items": map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"name":     map[string]interface{}{"type": "STRING", "description": "Nome comum do alimento em português"},
			"quantity": map[string]interface{}{"type": "NUMBER", "description": "Quantidade numérica identificada"},
			"unit":     map[string]interface{}{"type": "STRING", "description": "Unidade de medida (ex: kg, g, unidade, litros)"},
			"storageType": map[string]interface{}{
				"type": "STRING",
				"enum": []string{domain.StorageOutside, domain.StorageFridge, domain.StorageFreezer, domain.StoragePantry},
			},
			"expiryDays":     map[string]interface{}{"type": "NUMBER", "description": "Estimativa de dias para vencimento se armazenado corretamente"},
			"estimatedPrice": map[string]interface{}{"type": "NUMBER", "description": "Preço médio nacional estimado para esta quantidade"},
		},
		"required": []string{"name", "quantity", "unit", "storageType", "expiryDays", "estimatedPrice"},
	},
}

var consumptionSchema = map[string]interface{}{
	"type": "ARRAY",
	"items": map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"name":     map[string]interface{}{"type": "STRING"},
			"quantity": map[string]interface{}{"type": "NUMBER"},
		},
		"required": []string{"name", "quantity"},
	},
}

func (g *geminiExtractor) ExtractAcquisitionsFromText(ctx context.Context, text string) ([]AcquisitionRecord, error) {
	prompt := fmt.Sprintf(
		`Identifique os alimentos descritos neste texto: "%s". Extraia quantidades e unidades de medida, sugerindo armazenamento e validade.`,
		text,
	)
	parts := []map[string]interface{}{{"text": prompt}}
	return g.requestAcquisitions(ctx, parts)
}

func (g *geminiExtractor) ExtractAcquisitionsFromImage(ctx context.Context, image ImageInput) ([]AcquisitionRecord, error) {
	prompt := "Analise esta imagem e identifique os alimentos presentes, suas quantidades aproximadas e unidades de medida. Sugira o melhor armazenamento e a validade média para cada item."
	parts := []map[string]interface{}{
		{
			"inline_data": map[string]interface{}{
				"mime_type": image.MimeType,
				"data":      base64.StdEncoding.EncodeToString(image.Data),
			},
		},
		{"text": prompt},
	}
	return g.requestAcquisitions(ctx, parts)
}

func (g *geminiExtractor) ExtractConsumption(ctx context.Context, text string) ([]ConsumptionRecord, error) {
	prompt := fmt.Sprintf(
		`Interprete o seguinte comando de consumo de alimento: "%s". Retorne o nome do alimento e a quantidade que o usuário quer consumir.`,
		text,
	)
	parts := []map[string]interface{}{{"text": prompt}}

	responseText, err := g.generateContent(ctx, parts, consumptionSchema)
	if err != nil {
		return nil, err
	}

	var records []ConsumptionRecord
	if err := json.Unmarshal([]byte(responseText), &records); err != nil {
		return nil, domain.ErrGatewayMalformed
	}
	for _, record := range records {
		if record.Name == "" || record.Quantity <= 0 {
			return nil, domain.ErrGatewayMalformed
		}
	}
	return records, nil
}

func (g *geminiExtractor) requestAcquisitions(ctx context.Context, parts []map[string]interface{}) ([]AcquisitionRecord, error) {
	responseText, err := g.generateContent(ctx, parts, acquisitionSchema)
	if err != nil {
		return nil, err
	}

	var records []AcquisitionRecord
	if err := json.Unmarshal([]byte(responseText), &records); err != nil {
		return nil, domain.ErrGatewayMalformed
	}
	for _, record := range records {
		if record.Name == "" || record.Quantity <= 0 || record.Unit == "" ||
			record.StorageType == "" || record.ExpiryDays < 0 {
			return nil, domain.ErrGatewayMalformed
		}
	}
	return records, nil
}

func (g *geminiExtractor) generateContent(ctx context.Context, parts []map[string]interface{}, schema map[string]interface{}) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.1,
			"responseMimeType": "application/json",
			"responseSchema":   schema,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", domain.ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", domain.ErrGatewayUnavailable
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", domain.ErrGatewayMalformed
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrGatewayMalformed
	}

	return sanitizeResponseText(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}

// sanitizeResponseText strips markdown fences and extracts the JSON array
// from a free-form model reply.
func sanitizeResponseText(responseText string) string {
	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
	}
	responseText = strings.TrimSpace(responseText)

	if matches := jsonPattern.FindString(responseText); matches != "" {
		responseText = matches
	}
	return responseText
}
