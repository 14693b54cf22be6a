package migration

import "fmt"

// Collection は方向ごとのデータマイグレーションを宣言順に保持する。
// 有効な方向は up と down のみ。
type Collection struct {
	migrations map[Direction][]*DataMigration
}

// NewCollection は空の Collection を生成する。
func NewCollection() *Collection {
	return &Collection{
		migrations: map[Direction][]*DataMigration{
			Up:   {},
			Down: {},
		},
	}
}

// Fetch は指定した方向のデータマイグレーションを返す。
func (c *Collection) Fetch(direction Direction) ([]*DataMigration, error) {
	ms, ok := c.migrations[direction]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	return ms, nil
}

// Append はデータマイグレーションをその方向の末尾に追加する。
func (c *Collection) Append(m *DataMigration) error {
	ms, err := c.Fetch(m.Direction())
	if err != nil {
		return err
	}
	c.migrations[m.Direction()] = append(ms, m)
	return nil
}

// Len は指定した方向のデータマイグレーション数を返す。
func (c *Collection) Len(direction Direction) int {
	return len(c.migrations[direction])
}
