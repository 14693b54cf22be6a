package migration

import (
	"fmt"
	"sort"
)

// AliasOption はアクセサ名を指定するオプションキー。
const AliasOption = "as"

// Options はモデル宣言の末尾に渡すオプション。
type Options map[string]string

// ModelArguments はモデル宣言の引数を解決した結果。
type ModelArguments struct {
	// ModelRef は参照するモデルの名前。
	ModelRef string
	// MethodName はモデルを取り出すアクセサの名前。
	MethodName string
}

// ParseModelArguments はモデル宣言の引数を解決する。
//
// 先頭の文字列引数がモデル名になる。末尾の Options の "as" はアクセサ名で、
// 省略時は defaultMethod を使う。文字列引数がない場合は "as" 以外のオプションの値を
// モデル名とする。候補が複数あるときは順序を決められないため ErrAmbiguousModelReference。
//
//	ParseModelArguments("model", "User")
//	ParseModelArguments("model", "User", Options{"as": "users"})
//	ParseModelArguments("model", Options{"Legacy": "User"})
func ParseModelArguments(defaultMethod string, args ...any) (ModelArguments, error) {
	var opts map[string]string
	if n := len(args); n > 0 {
		switch o := args[n-1].(type) {
		case Options:
			opts, args = o, args[:n-1]
		case map[string]string:
			opts, args = o, args[:n-1]
		}
	}

	var positional []string
	for _, arg := range args {
		s, ok := arg.(string)
		if !ok {
			return ModelArguments{}, fmt.Errorf("%w: model arguments must be strings, got %T", ErrInvalidArgument, arg)
		}
		positional = append(positional, s)
	}

	ma := ModelArguments{MethodName: defaultMethod}
	if as, ok := opts[AliasOption]; ok && as != "" {
		ma.MethodName = as
	}

	if len(positional) > 0 {
		ma.ModelRef = positional[0]
		return ma, nil
	}

	var keys []string
	for k := range opts {
		if k != AliasOption {
			keys = append(keys, k)
		}
	}
	switch len(keys) {
	case 0:
		return ModelArguments{}, ErrMissingModelReference
	case 1:
		ma.ModelRef = opts[keys[0]]
		return ma, nil
	default:
		sort.Strings(keys)
		return ModelArguments{}, fmt.Errorf("%w: candidate options %v", ErrAmbiguousModelReference, keys)
	}
}
