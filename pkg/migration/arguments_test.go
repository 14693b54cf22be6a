package migration

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseModelArguments(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want ModelArguments
	}{
		{
			name: "positional model uses default accessor",
			args: []any{"User"},
			want: ModelArguments{ModelRef: "User", MethodName: "model"},
		},
		{
			name: "as option renames accessor",
			args: []any{"User", Options{"as": "users"}},
			want: ModelArguments{ModelRef: "User", MethodName: "users"},
		},
		{
			name: "plain map is accepted as options",
			args: []any{"User", map[string]string{"as": "people"}},
			want: ModelArguments{ModelRef: "User", MethodName: "people"},
		},
		{
			name: "single non-as option names the model",
			args: []any{Options{"legacy": "LegacyUser"}},
			want: ModelArguments{ModelRef: "LegacyUser", MethodName: "model"},
		},
		{
			name: "non-as option with alias",
			args: []any{Options{"legacy": "LegacyUser", "as": "old_users"}},
			want: ModelArguments{ModelRef: "LegacyUser", MethodName: "old_users"},
		},
		{
			name: "positional wins over options",
			args: []any{"User", Options{"legacy": "LegacyUser"}},
			want: ModelArguments{ModelRef: "User", MethodName: "model"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModelArguments("model", tt.args...)
			if err != nil {
				t.Fatalf("ParseModelArguments failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseModelArguments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseModelArguments_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []any
		wantErr error
	}{
		{name: "no arguments", args: nil, wantErr: ErrMissingModelReference},
		{name: "only alias", args: []any{Options{"as": "users"}}, wantErr: ErrMissingModelReference},
		{name: "several candidates", args: []any{Options{"a": "A", "b": "B"}}, wantErr: ErrAmbiguousModelReference},
		{name: "non-string positional", args: []any{42}, wantErr: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModelArguments("model", tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
