package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string   `json:"email" validate:"required"`
	Tags  []string `json:"tags" validate:"required,min=1"`
	Note  string   `json:"note"`
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOK      bool
		wantMessage string
	}{
		{"valid", `{"email":"a@b.io","tags":["go"]}`, true, ""},
		{"malformed json", `{`, false, "unexpected EOF"},
		{"unknown field", `{"email":"a@b.io","tags":["go"],"id":"1"}`, false, "unknown field"},
		{"missing email uses json name", `{"tags":["go"]}`, false, "email is required"},
		{"empty tags", `{"email":"a@b.io","tags":[]}`, false, "tags must have at least 1 item(s)"},
		{"all failures joined", `{"tags":[]}`, false, "email is required; tags must have at least 1 item(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest sampleRequest

			ok := DecodeAndValidate(rr, req, &dest)

			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "a@b.io", dest.Email)
				return
			}
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantMessage)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(&sampleRequest{Email: "a@b.io", Tags: []string{"go"}}))

	err := ValidateStruct(&sampleRequest{Tags: []string{"go"}})
	require.Error(t, err)
	assert.Equal(t, "email is required", err.Error())
}
