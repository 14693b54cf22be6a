package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"data-migration-kit/config"
)

// Routine はデータマイグレーションの処理。m はマイグレーションのインスタンス。
type Routine interface {
	Run(ctx context.Context, m *Instance) error
}

// RoutineFunc は関数を Routine として扱う。
type RoutineFunc func(ctx context.Context, m *Instance) error

// Run は f(ctx, m) を呼ぶ。
func (f RoutineFunc) Run(ctx context.Context, m *Instance) error {
	return f(ctx, m)
}

// RoutineFactory はブロックの代わりに実行する Routine を生成する。
type RoutineFactory func() (Routine, error)

var errNilRoutine = errors.New("factory returned a nil routine")

// isNilRoutine は routine が nil か、nil を指す参照型を包んでいる場合に true を返す。
func isNilRoutine(routine Routine) bool {
	if routine == nil {
		return true
	}
	v := reflect.ValueOf(routine)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// DataMigration は方向と実行するルーチンの組。
type DataMigration struct {
	direction Direction
	routine   Routine
	say       string
	useErr    error
}

type dataOptions struct {
	direction Direction
	use       RoutineFactory
	say       string
}

// DataOption はデータマイグレーション宣言のオプション。
type DataOption func(*dataOptions)

// WithDirection は実行する方向を指定する。省略時は設定の DefaultDirection。
func WithDirection(direction Direction) DataOption {
	return func(o *dataOptions) {
		o.direction = direction
	}
}

// Use はブロックの代わりに factory が生成した Routine を実行する。
// 生成に失敗した場合はブロックが使われる。
func Use(factory RoutineFactory) DataOption {
	return func(o *dataOptions) {
		o.use = factory
	}
}

// Say は開始メッセージに添える注記を指定する。
func Say(text string) DataOption {
	return func(o *dataOptions) {
		o.say = text
	}
}

// NewDataMigration はデータマイグレーションを生成する。
//
// Use の factory がエラーまたは nil を返した場合、そのエラーは UseErr に残し、
// block をルーチンとして使う。どちらも使えない場合は ErrMissingRoutine を返す。
func NewDataMigration(settings config.Migration, block RoutineFunc, opts ...DataOption) (*DataMigration, error) {
	var o dataOptions
	for _, opt := range opts {
		opt(&o)
	}

	direction := o.direction
	if direction == "" {
		direction = Direction(settings.DefaultDirection)
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	m := &DataMigration{
		direction: direction,
		say:       o.say,
	}

	if o.use != nil {
		routine, err := o.use()
		if err == nil && isNilRoutine(routine) {
			err = errNilRoutine
		}
		if err != nil {
			m.useErr = err
			slog.Warn("data migration routine could not be constructed, falling back to block",
				"operation", "new_data_migration",
				"direction", direction,
				"error", err,
			)
		} else {
			m.routine = routine
		}
	}

	if m.routine == nil && block != nil {
		m.routine = block
	}
	if m.routine == nil {
		if m.useErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrMissingRoutine, m.useErr)
		}
		return nil, ErrMissingRoutine
	}

	return m, nil
}

// Direction は実行する方向を返す。
func (m *DataMigration) Direction() Direction {
	return m.direction
}

// Routine は実行するルーチンを返す。
func (m *DataMigration) Routine() Routine {
	return m.routine
}

// Say は開始メッセージの注記を返す。
func (m *DataMigration) Say() string {
	return m.say
}

// UseErr は Use の factory が失敗した場合のエラーを返す。
func (m *DataMigration) UseErr() error {
	return m.useErr
}

// Report は開始メッセージと経過時間を出力しながら fn を実行する。
func (m *DataMigration) Report(r *Reporter, fn func() error) error {
	return r.Report(m.say, fn)
}
