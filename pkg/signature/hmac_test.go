package signature

import "testing"

func TestVerifyHMAC(t *testing.T) {
	payload := []byte(`{"eventType":"message.sent"}`)
	sig := Sign("s3cret", payload)

	tests := []struct {
		name   string
		secret string
		sig    string
		want   bool
	}{
		{"valid", "s3cret", sig, true},
		{"prefixed", "s3cret", "sha256=" + sig, true},
		{"wrong secret", "other", sig, false},
		{"empty signature", "s3cret", "", false},
		{"empty secret", "", sig, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyHMAC(tt.secret, payload, tt.sig); got != tt.want {
				t.Errorf("VerifyHMAC() = %v, want %v", got, tt.want)
			}
		})
	}
}
