package registry

import (
	"context"
	"errors"
	"testing"
)

func noopHandler(ctx context.Context, args map[string]any) (string, error) {
	return "ok", nil
}

// TestRegistry_Register_And_Lookup は登録したcapabilityが参照できることをテスト
func TestRegistry_Register_And_Lookup(t *testing.T) {
	r := New()

	d := &Descriptor{Kind: KindTool, Name: "echo", Handler: noopHandler}
	if err := r.Register(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Lookup(KindTool, "echo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != d {
		t.Error("expected same descriptor")
	}
}

// TestRegistry_Register_Duplicate は(kind, name)の二重登録が拒否されることをテスト
func TestRegistry_Register_Duplicate(t *testing.T) {
	r := New()

	if err := r.Register(&Descriptor{Kind: KindTool, Name: "echo", Handler: noopHandler}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Register(&Descriptor{Kind: KindTool, Name: "echo", Handler: noopHandler})
	if !errors.Is(err, ErrDuplicateCapability) {
		t.Errorf("expected ErrDuplicateCapability, got %v", err)
	}
}

// TestRegistry_Register_SameNameDifferentKind は同名でもkindが違えば登録できることをテスト
func TestRegistry_Register_SameNameDifferentKind(t *testing.T) {
	r := New()

	if err := r.Register(&Descriptor{Kind: KindTool, Name: "notes", Handler: noopHandler}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&Descriptor{Kind: KindPrompt, Name: "notes", Handler: noopHandler}); err != nil {
		t.Errorf("unexpected error for different kind: %v", err)
	}
}

// TestRegistry_Register_Invalid は名前なし・ハンドラーなしが拒否されることをテスト
func TestRegistry_Register_Invalid(t *testing.T) {
	r := New()

	if err := r.Register(&Descriptor{Kind: KindTool, Name: "", Handler: noopHandler}); err == nil {
		t.Error("expected error for empty name")
	}
	if err := r.Register(&Descriptor{Kind: KindTool, Name: "no-handler"}); err == nil {
		t.Error("expected error for nil handler")
	}
}

// TestRegistry_Lookup_NotFound は未登録capabilityでErrCapabilityNotFoundになることをテスト
func TestRegistry_Lookup_NotFound(t *testing.T) {
	r := New()

	_, err := r.Lookup(KindTool, "does_not_exist")
	if !errors.Is(err, ErrCapabilityNotFound) {
		t.Errorf("expected ErrCapabilityNotFound, got %v", err)
	}
}

// TestRegistry_List_Order は登録順でリストされることをテスト
func TestRegistry_List_Order(t *testing.T) {
	r := New()

	names := []string{"c", "a", "b"}
	for _, name := range names {
		if err := r.Register(&Descriptor{Kind: KindTool, Name: name, Handler: noopHandler}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list := r.List(KindTool)
	if len(list) != len(names) {
		t.Fatalf("expected %d descriptors, got %d", len(names), len(list))
	}
	for i, d := range list {
		if d.Name != names[i] {
			t.Errorf("expected %q at index %d, got %q", names[i], i, d.Name)
		}
	}
}

// TestDescriptor_ValidateArgs は引数スキーマ検証の各パターンをテスト
func TestDescriptor_ValidateArgs(t *testing.T) {
	d := &Descriptor{
		Kind: KindTool,
		Name: "add_note",
		Args: []ArgSpec{
			{Name: "message", Type: "string", Required: true},
			{Name: "tag", Type: "string", Required: false},
		},
		Handler: noopHandler,
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr bool
		want    map[string]string
	}{
		{
			name: "valid",
			args: map[string]any{"message": "hello"},
			want: map[string]string{"message": "hello"},
		},
		{
			name: "optional supplied",
			args: map[string]any{"message": "hello", "tag": "work"},
			want: map[string]string{"message": "hello", "tag": "work"},
		},
		{
			name:    "missing required",
			args:    map[string]any{},
			wantErr: true,
		},
		{
			name:    "nil args",
			args:    nil,
			wantErr: true,
		},
		{
			name:    "whitespace required",
			args:    map[string]any{"message": "   "},
			wantErr: true,
		},
		{
			name:    "wrong type",
			args:    map[string]any{"message": 42},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.ValidateArgs(tt.args)
			if tt.wantErr {
				var invalidErr *InvalidArgumentError
				if !errors.As(err, &invalidErr) {
					t.Fatalf("expected InvalidArgumentError, got %v", err)
				}
				if len(invalidErr.Fields) == 0 {
					t.Error("expected offending fields to be listed")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("expected %q=%q, got %q", k, v, got[k])
				}
			}
		})
	}
}
