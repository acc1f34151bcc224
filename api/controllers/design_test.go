package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tumblera/tumblera-backend/internal/design"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test"})
}

func decodeData(t *testing.T, body []byte, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestDesignPreviewRendersLayout(t *testing.T) {
	d := design.Default().WithText("Ana")
	payload, err := json.Marshal(map[string]any{"design": d, "size_class": "small"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/design/preview", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	DesignPreview(testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var layout struct {
		ContainerWidth  int     `json:"container_width"`
		ContainerHeight int     `json:"container_height"`
		Scale           float64 `json:"scale"`
		Text            *struct {
			Content    string `json:"content"`
			FontSizePx int    `json:"font_size_px"`
		} `json:"text"`
	}
	decodeData(t, rec.Body.Bytes(), &layout)

	if layout.ContainerWidth != 160 || layout.ContainerHeight != 200 || layout.Scale != 0.4 {
		t.Fatalf("unexpected container %+v", layout)
	}
	if layout.Text == nil || layout.Text.Content != "Ana" || layout.Text.FontSizePx != 10 {
		t.Fatalf("unexpected text block %+v", layout.Text)
	}
}

func TestDesignPreviewRejectsUnknownSizeClass(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{"design": design.Default(), "size_class": "gigantic"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/design/preview", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	DesignPreview(testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestDesignPreviewRejectsInvalidDesign(t *testing.T) {
	d := design.Default()
	d.TextColor = "red"
	payload, _ := json.Marshal(map[string]any{"design": d, "size_class": "medium"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/design/preview", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	DesignPreview(testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if code := decodeErrorCode(t, rec.Body.Bytes()); code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestDesignOptionsListsVocabulary(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/design/options", nil)
	rec := httptest.NewRecorder()
	DesignOptions()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var options struct {
		Fonts    []string          `json:"fonts"`
		Finishes map[string]string `json:"finishes"`
		Sizes    []struct {
			Size  string `json:"size"`
			Price int    `json:"price"`
		} `json:"sizes"`
	}
	decodeData(t, rec.Body.Bytes(), &options)

	if len(options.Fonts) == 0 || len(options.Finishes) == 0 {
		t.Fatalf("vocabulary missing: %+v", options)
	}
	prices := map[string]int{}
	for _, s := range options.Sizes {
		prices[s.Size] = s.Price
	}
	if prices["350"] != 499 || prices["500"] != 649 || prices["750"] != 799 {
		t.Fatalf("unexpected price table %v", prices)
	}
}
