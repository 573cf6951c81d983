package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/furiarock-backend/pkg/errors"
	"github.com/angelmondragon/furiarock-backend/pkg/logger"
	"github.com/angelmondragon/furiarock-backend/pkg/types"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	return body.Error
}

func TestWriteSuccessStatus(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]string{"reference": "abc"})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Data.(map[string]any)["reference"] != "abc" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
}

func TestWriteErrorExposesClientMessages(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeProductUnavailable, "Camiseta Furia is no longer available").
		WithDetails(map[string]string{"product_id": "p-1"})
	WriteError(context.Background(), logger.Nop(), w, err)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	apiErr := decodeError(t, w)
	if apiErr.Code != string(pkgerrors.CodeProductUnavailable) {
		t.Fatalf("unexpected code %s", apiErr.Code)
	}
	if apiErr.Message != "Camiseta Furia is no longer available" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
	if apiErr.Details == nil {
		t.Fatal("expected details")
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   pkgerrors.Code
	}{
		{"untyped", errors.New("dial tcp 10.0.0.1:5432: refused"), http.StatusInternalServerError, pkgerrors.CodeInternal},
		{"typed internal", pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("boom"), "persist order"), http.StatusInternalServerError, pkgerrors.CodeInternal},
		{"conflict", pkgerrors.New(pkgerrors.CodeConflict, "reference collision twice"), http.StatusConflict, pkgerrors.CodeConflict},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		WriteError(context.Background(), nil, w, tc.err)
		if w.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, w.Code)
		}
		apiErr := decodeError(t, w)
		if apiErr.Code != string(tc.code) {
			t.Fatalf("%s: unexpected code %s", tc.name, apiErr.Code)
		}
		if apiErr.Message != pkgerrors.MetadataFor(tc.code).PublicMessage {
			t.Fatalf("%s: internal message leaked: %q", tc.name, apiErr.Message)
		}
		if apiErr.Details != nil {
			t.Fatalf("%s: details must be omitted", tc.name)
		}
	}
}
