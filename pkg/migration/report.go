package migration

import (
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"
)

// Reporter はデータマイグレーションの開始と完了を行単位で出力する。
type Reporter struct {
	out     io.Writer
	message string
	clock   clock.Clock
}

// NewReporter は新しい Reporter を生成する。out が nil の場合は標準出力。
func NewReporter(out io.Writer, message string) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{
		out:     out,
		message: message,
		clock:   clock.New(),
	}
}

// WithClock は時計を差し替えた Reporter を返す。
func (r *Reporter) WithClock(c clock.Clock) *Reporter {
	cp := *r
	cp.clock = c
	return &cp
}

// WithOutput は出力先を差し替えた Reporter を返す。
func (r *Reporter) WithOutput(out io.Writer) *Reporter {
	cp := *r
	cp.out = out
	return &cp
}

// Report は開始メッセージを出力して fn を実行し、成功した場合に経過時間を出力する。
// fn のエラーはそのまま返す。
func (r *Reporter) Report(say string, fn func() error) error {
	msg := "~> " + r.message
	if say != "" {
		msg += " " + say
	}
	fmt.Fprintln(r.out, msg)

	start := r.clock.Now()
	if err := fn(); err != nil {
		return err
	}
	elapsed := r.clock.Now().Sub(start)

	fmt.Fprintf(r.out, "~> Completed. Time elapsed: %.4fs\n", elapsed.Seconds())
	return nil
}
