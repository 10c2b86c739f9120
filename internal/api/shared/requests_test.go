package shared

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenBody fails every read, standing in for a client that drops the
// connection mid-request.
type brokenBody struct{}

func (brokenBody) Read(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSON(t *testing.T) {
	t.Run("populates the target", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test",
			bytes.NewBufferString(`{"name": "test", "age": 30}`))

		var target struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}
		require.NoError(t, DecodeJSON(req, &target))

		assert.Equal(t, "test", target.Name)
		assert.Equal(t, 30, target.Age)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test",
			bytes.NewBufferString(`{"name": "test", "age": 30,}`))

		err := DecodeJSON(req, &struct{}{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid request body")
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(""))

		err := DecodeJSON(req, &struct{}{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "EOF")
	})

	t.Run("surfaces a body read failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", brokenBody{})

		err := DecodeJSON(req, &struct{}{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected EOF")
	})
}

// guardedForm carries its own Validate method, which takes precedence
// over struct tag validation.
type guardedForm struct {
	Name string `validate:"required"`
	Age  int    `validate:"gte=18"`
}

func (f *guardedForm) Validate() error {
	if f.Name == "invalid" {
		return &validator.ValidationErrors{}
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{
			name:    "custom Validate accepts",
			req:     &guardedForm{Name: "test", Age: 20},
			wantErr: false,
		},
		{
			name:    "custom Validate rejects",
			req:     &guardedForm{Name: "invalid", Age: 20},
			wantErr: true,
		},
		{
			name:    "no tags and no Validate method passes",
			req:     &struct{ Name string }{"test"},
			wantErr: false,
		},
		{
			name: "struct tags enforced without a Validate method",
			req: &struct {
				Key string `validate:"required"`
			}{},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRequest(tc.req)

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
