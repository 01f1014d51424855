// Package notes implements the append-only note log for mcp-notes.
package notes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// NoNotesMessage はノートが1件もない場合のセンチネル値
const NoNotesMessage = "No notes yet."

// ErrEmptyMessage は空メッセージエラー
var ErrEmptyMessage = errors.New("message must not be empty")

// ErrStorageUnavailable はノートログのI/O失敗エラー
var ErrStorageUnavailable = errors.New("note storage unavailable")

// Store は追記専用のノートログを管理する
// 書き込みはmutexで直列化し、flush-on-writeで永続化する
type Store struct {
	mu   sync.RWMutex
	path string
}

// NewStore は新しいStoreを生成
// ファイルはこの時点では作成しない（初回Append時に作成）
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path はノートログファイルのパスを返す
func (s *Store) Path() string {
	return s.path
}

// Append はノートを1行追記する
// メッセージがtrim後に空の場合はErrEmptyMessage（ログは変更しない）
func (s *Store) Append(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 親ディレクトリを作成
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer f.Close()

	if _, err := f.WriteString(message + "\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// バッファリングせず即座にディスクへ反映
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return nil
}

// ReadAll は全ノートをログどおりの順序で返す
// ログが空または未作成の場合はNoNotesMessageを返す（エラーではない）
func (s *Store) ReadAll() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, err := s.readFile()
	if err != nil {
		return "", err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return NoNotesMessage, nil
	}
	return content, nil
}

// ReadLatest は最後に追記されたノートを返す
// ログが空または未作成の場合はNoNotesMessageを返す（エラーではない）
func (s *Store) ReadLatest() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, err := s.readFile()
	if err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return NoNotesMessage, nil
	}
	return last, nil
}

// readFile はログファイルの内容を読み込む（ロックは呼び出し側が保持）
// ファイル未作成は空文字列として扱う
func (s *Store) readFile() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return string(data), nil
}
