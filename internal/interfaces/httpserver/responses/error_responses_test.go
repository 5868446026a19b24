package responses_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/funtube/funtube-server/internal/interfaces/httpserver/responses"
	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

func TestHandleError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	cases := []struct {
		errorType  platformerrors.ErrorType
		wantStatus int
	}{
		{platformerrors.ErrorTypeValidation, http.StatusBadRequest},
		{platformerrors.ErrorTypeUnauthorized, http.StatusUnauthorized},
		{platformerrors.ErrorTypeForbidden, http.StatusForbidden},
		{platformerrors.ErrorTypeNotFound, http.StatusNotFound},
		{platformerrors.ErrorTypeConflict, http.StatusConflict},
		{platformerrors.ErrorTypeInternal, http.StatusInternalServerError},
		{platformerrors.ErrorTypeDatabaseError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.errorType), func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			err := platformerrors.NewError(ctx, platformerrors.LayerDomain, tc.errorType, "boom", nil)
			responses.HandleError(c, err, "fallback")

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestHandleError_UnclassifiedErrorIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	responses.HandleError(c, errors.New("plain failure"), "something went wrong")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code == "" {
		t.Fatal("expected a generated error code for unclassified errors")
	}
	if body.Message != "something went wrong" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}
