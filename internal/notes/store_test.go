package notes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "mynotes.txt"))
}

// TestStore_ReadAll_Empty は未作成ログでセンチネル値が返ることをテスト
func TestStore_ReadAll_Empty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != NoNotesMessage {
		t.Errorf("expected %q, got %q", NoNotesMessage, got)
	}
}

// TestStore_ReadLatest_Empty は未作成ログでセンチネル値が返ることをテスト
func TestStore_ReadLatest_Empty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ReadLatest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != NoNotesMessage {
		t.Errorf("expected %q, got %q", NoNotesMessage, got)
	}
}

// TestStore_Append_ThenReadLatest は追記後に同じ内容が読めることをテスト
func TestStore_Append_ThenReadLatest(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append("buy milk"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.ReadLatest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "buy milk" {
		t.Errorf("expected %q, got %q", "buy milk", got)
	}
}

// TestStore_Append_Sequential は順次追記でログ順が保たれることをテスト
func TestStore_Append_Sequential(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := store.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if all != "a\nb" {
		t.Errorf("expected %q, got %q", "a\nb", all)
	}

	latest, err := store.ReadLatest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != "b" {
		t.Errorf("expected %q, got %q", "b", latest)
	}
}

// TestStore_ReadAll_Idempotent は追記なしの連続読み取りで同一結果になることをテスト
func TestStore_ReadAll_Idempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append("note"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := store.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical reads, got %q and %q", first, second)
	}
}

// TestStore_Append_EmptyMessage は空メッセージが拒否されログが変更されないことをテスト
func TestStore_Append_EmptyMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"newlines", "\n\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)

			err := store.Append(tt.message)
			if !errors.Is(err, ErrEmptyMessage) {
				t.Errorf("expected ErrEmptyMessage, got %v", err)
			}

			// ログファイルが作成されていないことを確認
			if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
				t.Error("expected notes file to not exist")
			}
		})
	}
}

// TestStore_Append_Concurrent は並行追記で全メッセージが失われず破損しないことをテスト
func TestStore_Append_Concurrent(t *testing.T) {
	store := newTestStore(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Append(fmt.Sprintf("note-%02d", i)); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := store.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(all, "\n")
	if len(lines) != n {
		t.Fatalf("expected %d lines, got %d", n, len(lines))
	}

	// 順序は不定だが、全メッセージが1回ずつ含まれること
	seen := make(map[string]int)
	for _, line := range lines {
		seen[line]++
	}
	for i := 0; i < n; i++ {
		msg := fmt.Sprintf("note-%02d", i)
		if seen[msg] != 1 {
			t.Errorf("expected %q exactly once, got %d", msg, seen[msg])
		}
	}
}

// TestStore_Append_CreatesParentDir は親ディレクトリが自動作成されることをテスト
func TestStore_Append_CreatesParentDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "sub", "dir", "mynotes.txt"))

	if err := store.Append("hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

// TestStore_Append_StorageUnavailable は書き込み不可パスでErrStorageUnavailableになることをテスト
func TestStore_Append_StorageUnavailable(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}

	tmpDir := t.TempDir()
	if err := os.Chmod(tmpDir, 0555); err != nil {
		t.Fatalf("failed to chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(tmpDir, 0755) })

	store := NewStore(filepath.Join(tmpDir, "mynotes.txt"))

	err := store.Append("hello")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}
