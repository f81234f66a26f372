package scan

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"
)

type (
	// Recognizer is the external AI collaborator that turns a product
	// photo into a candidate product and confidence score.
	Recognizer interface {
		Recognize(ctx context.Context, image *multipart.FileHeader) (domain.RecognitionResult, error)
	}

	httpRecognizer struct {
		client *http.Client
	}
)

func NewHTTPRecognizer() Recognizer {
	return &httpRecognizer{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *httpRecognizer) Recognize(ctx context.Context, image *multipart.FileHeader) (domain.RecognitionResult, error) {
	aiModelURL := utils.GetConfig("AI_MODEL_URL")
	if aiModelURL == "" {
		return domain.RecognitionResult{}, domain.ErrRecognitionUnavailable
	}

	file, err := image.Open()
	if err != nil {
		return domain.RecognitionResult{}, err
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return domain.RecognitionResult{}, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", image.Filename)
	if err != nil {
		return domain.RecognitionResult{}, err
	}
	if _, err = part.Write(fileBytes); err != nil {
		return domain.RecognitionResult{}, err
	}
	if err = writer.Close(); err != nil {
		return domain.RecognitionResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", aiModelURL, body)
	if err != nil {
		return domain.RecognitionResult{}, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(httpReq)
	if err != nil {
		log.Printf("recognizer unreachable: %v", err)
		return domain.RecognitionResult{}, domain.ErrRecognitionUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("recognizer error: %s - %s", resp.Status, string(bodyBytes))
		return domain.RecognitionResult{}, domain.ErrRecognitionUnavailable
	}

	var aiResponse struct {
		Success bool                     `json:"success"`
		Result  domain.RecognitionResult `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&aiResponse); err != nil {
		return domain.RecognitionResult{}, fmt.Errorf("failed to parse recognizer response: %w", err)
	}

	if !aiResponse.Success || aiResponse.Result.ProductName == "" {
		return domain.RecognitionResult{}, domain.ErrRecognitionUnavailable
	}

	return aiResponse.Result, nil
}
