package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// namespaceBlock は名前空間を表すブロックの種類。
const namespaceBlock = "namespace"

// LoadFile はHCL設定ファイルを読み込んで新しい Configuration を返す。
func LoadFile(path string) (*Configuration, error) {
	c := NewConfiguration(nil)
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile はHCL設定ファイルの値を既存の設定に上書きする。
//
//	default_message = "Backfilling..."
//
//	namespace "migration" {
//	  reset_column_information = false
//	}
func (c *Configuration) LoadFile(path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return fmt.Errorf("failed to decode settings file %s: unsupported body type %T", path, file.Body)
	}

	if err := setAttributes(c, body.Attributes); err != nil {
		return fmt.Errorf("failed to decode settings file %s: %w", path, err)
	}
	for _, block := range body.Blocks {
		if block.Type != namespaceBlock || len(block.Labels) != 1 {
			return fmt.Errorf("failed to decode settings file %s: unexpected block %s %v at %s",
				path, block.Type, block.Labels, block.TypeRange)
		}
		if len(block.Body.Blocks) > 0 {
			return fmt.Errorf("failed to decode namespace %q in %s: nested blocks are not allowed", block.Labels[0], path)
		}
		if err := setAttributes(c.Namespace(block.Labels[0]), block.Body.Attributes); err != nil {
			return fmt.Errorf("failed to decode namespace %q in %s: %w", block.Labels[0], path, err)
		}
	}

	return nil
}

func setAttributes(c *Configuration, attrs hclsyntax.Attributes) error {
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		v, err := ctyToGo(val)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		c.Set(name, v)
	}

	return nil
}

// ctyToGo はcty値をGoの値に変換する。数値は整数で表せる場合 int64、それ以外は float64。
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty.Equals(cty.String):
		return val.AsString(), nil
	case ty.Equals(cty.Bool):
		return val.True(), nil
	case ty.Equals(cty.Number):
		var i int64
		if err := gocty.FromCtyValue(val, &i); err == nil {
			return i, nil
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, err
		}
		return f, nil
	case ty.IsListType(), ty.IsSetType(), ty.IsTupleType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			v, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case ty.IsMapType(), ty.IsObjectType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			v, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = v
		}
		return out, nil
	}

	return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
}
