package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validationf("bad input"), KindValidation},
		{"not found", NotFoundf("missing"), KindNotFound},
		{"conflict", Conflictf("taken"), KindConflict},
		{"internal", Internalf("boom"), KindInternal},
		{"plain error", errors.New("boom"), KindInternal},
		{"wrapped", fmt.Errorf("call failed: %w", NotFoundf("missing")), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	if got := HTTPStatus(Validationf("x")); got != http.StatusBadRequest {
		t.Errorf("validation -> %d, want 400", got)
	}
	if got := HTTPStatus(NotFoundf("x")); got != http.StatusNotFound {
		t.Errorf("not found -> %d, want 404", got)
	}
	if got := HTTPStatus(Conflictf("x")); got != http.StatusConflict {
		t.Errorf("conflict -> %d, want 409", got)
	}
	if got := HTTPStatus(errors.New("x")); got != http.StatusInternalServerError {
		t.Errorf("plain -> %d, want 500", got)
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	handler := HTTPErrorHandler(logger)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"conflict surfaces message", Conflictf("slot taken"), http.StatusConflict, "slot taken"},
		{"validation surfaces message", Validationf("date is required"), http.StatusBadRequest, "date is required"},
		{"plain error hides message", errors.New("pg: connection refused"), http.StatusInternalServerError, "internal server error"},
		{"echo http error passes through", echo.NewHTTPError(http.StatusNotFound, "no route"), http.StatusNotFound, "no route"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body: %v", err)
			}
			if body["error"] != tt.wantBody {
				t.Errorf("body error = %q, want %q", body["error"], tt.wantBody)
			}
		})
	}
}
