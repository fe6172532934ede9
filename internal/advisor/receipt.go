package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
	"github.com/Sunay4826/AI-finance-platform/internal/log"
)

const receiptMaxAttempts = 3

// ReceiptData is the structured result of scanning a receipt image.
type ReceiptData struct {
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	MerchantName string          `json:"merchantName"`
	Category     string          `json:"category"`
}

type rawReceipt struct {
	Amount       json.Number `json:"amount"`
	Date         string      `json:"date"`
	Description  string      `json:"description"`
	MerchantName string      `json:"merchantName"`
	Category     string      `json:"category"`
}

// ExtractReceipt sends the image to the inference service and parses
// the extracted fields. Overloaded upstream errors are retried up to
// three attempts with a linearly growing delay; quota exhaustion fails
// immediately. A response missing the amount or the date is terminal.
func (s *Service) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (*ReceiptData, error) {
	if !s.enabled {
		return nil, core.ErrAdvisorDisabled
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty receipt image", core.ErrValidation)
	}

	var content string
	var err error
	for attempt := 1; attempt <= receiptMaxAttempts; attempt++ {
		content, err = s.client.Complete(ctx, Request{
			Prompt:    receiptPrompt,
			Image:     image,
			ImageMIME: mimeType,
		})
		if err == nil {
			break
		}
		if errors.Is(err, core.ErrQuotaExceeded) {
			return nil, err
		}
		if !errors.Is(err, core.ErrUnavailable) {
			return nil, err
		}
		if attempt == receiptMaxAttempts {
			return nil, err
		}
		delay := time.Duration(attempt) * s.baseDelay
		s.logger.WarnContext(ctx, "receipt extraction retry",
			log.FieldAttempt, attempt, log.FieldError, err.Error())
		s.sleep(delay)
	}
	if err != nil {
		return nil, err
	}

	var raw rawReceipt
	if err := json.Unmarshal([]byte(stripCodeFences(content)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if raw.Amount == "" {
		return nil, fmt.Errorf("%w: receipt amount missing", ErrBadResponse)
	}
	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("%w: receipt amount %q: %v", ErrBadResponse, raw.Amount, err)
	}
	if raw.Date == "" {
		return nil, fmt.Errorf("%w: receipt date missing", ErrBadResponse)
	}

	result := &ReceiptData{
		Amount:       amount.Abs(),
		Date:         s.parseReceiptDate(raw.Date),
		Description:  raw.Description,
		MerchantName: raw.MerchantName,
		Category:     raw.Category,
	}
	if result.Category == "" {
		result.Category = "other-expense"
	}
	return result, nil
}

// parseReceiptDate accepts the formats models actually emit. An
// unreadable date falls back to the current time rather than failing
// the whole scan.
func (s *Service) parseReceiptDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return s.now()
}

const receiptPrompt = `Analyze this receipt image and extract the purchase details.

Respond with ONLY valid JSON, no markdown, no code fences:
{
  "amount": 12.34,
  "date": "2006-01-02",
  "description": "brief summary of purchased items",
  "merchantName": "store name",
  "category": "one of: housing,transportation,groceries,utilities,entertainment,food,shopping,healthcare,education,personal,travel,insurance,gifts,bills,other-expense"
}

If the image is not a receipt, respond with an empty object: {}`
