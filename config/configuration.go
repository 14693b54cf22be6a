package config

import (
	"sort"

	"github.com/spf13/cast"
)

// Configuration は任意のキー/値と、名前空間ごとのサブ設定を保持する。
// キーのスキーマは持たない。未設定のキーを読むと nil を返し、書き込みは常に成功する。
// 並行アクセスには対応していない。
type Configuration struct {
	values     map[string]any
	namespaces map[string]*Configuration
}

// NewConfiguration は初期値を持つ Configuration を生成する。
// fns は生成直後のインスタンスを受け取り、追加の設定を行う。
func NewConfiguration(props map[string]any, fns ...func(*Configuration)) *Configuration {
	c := &Configuration{
		values:     make(map[string]any, len(props)),
		namespaces: make(map[string]*Configuration),
	}
	for k, v := range props {
		c.values[k] = v
	}
	for _, fn := range fns {
		if fn != nil {
			fn(c)
		}
	}
	return c
}

// Get はキーの値を返す。未設定の場合は nil。
func (c *Configuration) Get(key string) any {
	return c.values[key]
}

// Set はキーに値を設定する。
func (c *Configuration) Set(key string, value any) {
	c.values[key] = value
}

// Has はキーが設定済みかどうかを返す。
func (c *Configuration) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys は設定済みのキーをソートして返す。
func (c *Configuration) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String はキーの値を文字列として返す。
func (c *Configuration) String(key string) string {
	return cast.ToString(c.values[key])
}

// Bool はキーの値を真偽値として返す。
func (c *Configuration) Bool(key string) bool {
	return cast.ToBool(c.values[key])
}

// Namespace は名前空間のサブ設定を返す。初回参照時に生成される。
func (c *Configuration) Namespace(name string) *Configuration {
	ns, ok := c.namespaces[name]
	if !ok {
		ns = NewConfiguration(nil)
		c.namespaces[name] = ns
	}
	return ns
}

// HasNamespace は名前空間が生成済みかどうかを返す。
func (c *Configuration) HasNamespace(name string) bool {
	_, ok := c.namespaces[name]
	return ok
}

// Configure は ns の設定を fn に渡す。ns が空の場合はルートが対象になる。
// 戻り値は常にルート。
func (c *Configuration) Configure(ns string, fn func(*Configuration)) *Configuration {
	target := c
	if ns != "" {
		target = c.Namespace(ns)
	}
	if fn != nil {
		fn(target)
	}
	return c
}
