// Package registry implements the capability registry for mcp-notes.
// capability（tool/resource/prompt）は起動時に一度だけ登録され、
// 以降はread-onlyのためロックなしで並行参照できる
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind はcapabilityの種別
type Kind string

const (
	KindTool     Kind = "tool"
	KindResource Kind = "resource"
	KindPrompt   Kind = "prompt"
)

// ErrDuplicateCapability は(kind, name)の二重登録エラー
var ErrDuplicateCapability = errors.New("capability already registered")

// ErrCapabilityNotFound は未登録capabilityの参照エラー
var ErrCapabilityNotFound = errors.New("capability not found")

// Handler はcapability本体の呼び出し関数
// 戻り値は常にテキスト（レスポンス整形はdispatcher側の責務）
type Handler func(ctx context.Context, args map[string]any) (string, error)

// ArgSpec は引数スキーマの1項目
type ArgSpec struct {
	Name        string
	Type        string // 現状 "string" のみ
	Description string
	Required    bool
}

// Descriptor は登録されたcapabilityの記述子
type Descriptor struct {
	Kind        Kind
	Name        string // resourceの場合はURI
	Description string
	MimeType    string // resource用、省略可
	Args        []ArgSpec
	Handler     Handler
}

// InvalidArgumentError はスキーマ違反エラー（違反フィールド名を保持）
type InvalidArgumentError struct {
	Fields []string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid arguments: " + strings.Join(e.Fields, ", ")
}

// ValidateArgs は引数をスキーマに対して検証し、文字列引数のみを取り出す
// 必須フィールド欠落・型不一致・trim後空文字はすべて違反扱い
func (d *Descriptor) ValidateArgs(args map[string]any) (map[string]string, error) {
	values := make(map[string]string, len(d.Args))
	var invalid []string

	for _, spec := range d.Args {
		raw, ok := args[spec.Name]
		if !ok || raw == nil {
			if spec.Required {
				invalid = append(invalid, spec.Name)
			}
			continue
		}

		str, ok := raw.(string)
		if !ok {
			invalid = append(invalid, spec.Name)
			continue
		}

		if spec.Required && strings.TrimSpace(str) == "" {
			invalid = append(invalid, spec.Name)
			continue
		}

		values[spec.Name] = str
	}

	if len(invalid) > 0 {
		return nil, &InvalidArgumentError{Fields: invalid}
	}
	return values, nil
}

// Registry は(kind, name)からDescriptorへの不変マッピング
type Registry struct {
	caps  map[Kind]map[string]*Descriptor
	order map[Kind][]string // 登録順を保持（list系メソッドの安定出力用）
}

// New は空のRegistryを生成
func New() *Registry {
	return &Registry{
		caps:  make(map[Kind]map[string]*Descriptor),
		order: make(map[Kind][]string),
	}
}

// Register はcapabilityを登録する（初期化時のみ呼び出すこと）
func (r *Registry) Register(d *Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("capability name must not be empty")
	}
	if d.Handler == nil {
		return fmt.Errorf("capability %s/%s has no handler", d.Kind, d.Name)
	}

	byName, ok := r.caps[d.Kind]
	if !ok {
		byName = make(map[string]*Descriptor)
		r.caps[d.Kind] = byName
	}

	if _, exists := byName[d.Name]; exists {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateCapability, d.Kind, d.Name)
	}

	byName[d.Name] = d
	r.order[d.Kind] = append(r.order[d.Kind], d.Name)
	return nil
}

// Lookup は(kind, name)でDescriptorを参照する
func (r *Registry) Lookup(kind Kind, name string) (*Descriptor, error) {
	d, ok := r.caps[kind][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrCapabilityNotFound, kind, name)
	}
	return d, nil
}

// List は指定kindのDescriptorを登録順で返す
func (r *Registry) List(kind Kind) []*Descriptor {
	names := r.order[kind]
	result := make([]*Descriptor, 0, len(names))
	for _, name := range names {
		result = append(result, r.caps[kind][name])
	}
	return result
}
