package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// charWhitelist restricts recognition to the characters that appear on
// printed prescriptions; it cuts down on stray symbols from handwriting and
// stamps.
const charWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,:-/() "

// Reader converts an uploaded image to raw text using Tesseract. A fresh
// client is created per call; gosseract clients are not safe for concurrent
// use.
type Reader struct {
	language string
}

func NewReader() *Reader {
	return &Reader{language: "eng"}
}

// Recognize runs OCR over the image bytes with the restricted whitelist and
// a single-block layout mode, which suits semi-structured documents like
// prescriptions. Line endings are normalized to \n.
func (r *Reader) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("no image content provided")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language %q: %w", r.language, err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetWhitelist(charWhitelist); err != nil {
		return "", fmt.Errorf("failed to set character whitelist: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set OCR image data: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR text extraction failed: %w", err)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
