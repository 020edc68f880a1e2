package r2client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

func TestNew_RequiresAllFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing endpoint", cfg: Config{AccessKeyID: "k", SecretKey: "s", BucketName: "b"}},
		{name: "missing access key", cfg: Config{Endpoint: "https://x", SecretKey: "s", BucketName: "b"}},
		{name: "missing secret", cfg: Config{Endpoint: "https://x", AccessKeyID: "k", BucketName: "b"}},
		{name: "missing bucket", cfg: Config{Endpoint: "https://x", AccessKeyID: "k", SecretKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.cfg); err == nil {
				t.Error("New() should reject incomplete config")
			}
		})
	}
}

func responseError(status int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
		Err:      errors.New("request failed"),
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "slow down api error",
			err:  &smithy.GenericAPIError{Code: "SlowDown", Message: "reduce request rate"},
			want: true,
		},
		{
			name: "internal error api error",
			err:  &smithy.GenericAPIError{Code: "InternalError", Message: "we encountered an internal error"},
			want: true,
		},
		{
			name: "access denied api error",
			err:  &smithy.GenericAPIError{Code: "AccessDenied", Message: "access denied"},
			want: false,
		},
		{
			name: "http 503",
			err:  responseError(503),
			want: true,
		},
		{
			name: "http 429",
			err:  responseError(429),
			want: true,
		},
		{
			name: "http 404",
			err:  responseError(404),
			want: false,
		},
		{
			name: "wrapped http 500",
			err:  fmt.Errorf("upload: %w", responseError(500)),
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient() = %v, want %v", got, tt.want)
			}
		})
	}
}
