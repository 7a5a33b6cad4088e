package stt

import "testing"

func TestParseVosk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		partial bool
		want    string
		wantErr bool
	}{
		{"partial with text", `{"partial": "wireless head"}`, true, "wireless head", false},
		{"empty partial", `{"partial": ""}`, true, "", false},
		{"final with text", `{"text": "wireless headphones"}`, false, "wireless headphones", false},
		{"empty final", `{"text": ""}`, false, "", false},
		{"final ignores partial field", `{"partial": "w", "text": "words"}`, false, "words", false},
		{"malformed", `{"partial":`, true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVosk(tt.raw, tt.partial)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := New(Settings{Backend: "dictaphone"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
