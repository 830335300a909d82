package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/delaneyj/signalbind/app"
	"github.com/delaneyj/signalbind/dom"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

var widths = []int{1, 10, 100, 1_000}

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Measure write propagation through N bound text nodes",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes per width",
				Value: 100,
			},
			&cli.UintFlag{
				Name:  widthKey,
				Usage: "Only run this width, 0 runs the default set",
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: bench,
	}
}

func bench(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	ww := widths
	if w := cmd.Uint(widthKey); w > 0 {
		ww = []int{int(w)}
	}
	iters := int(cmd.Uint(itersKey))

	tbl := table.NewWriter()
	tbl.SetTitle("Write propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	log.Printf("running %d writes for widths %v", iters, ww)
	for _, w := range ww {
		calc, err := benchWidth(w, iters)
		if err != nil {
			return err
		}
		tbl.AppendRow(table.Row{
			fmt.Sprintf("propagate: %d bindings", w),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		})
	}
	tbl.Render()
	return nil
}

func benchWidth(width, iters int) (*tachymeter.Metrics, error) {
	var sb strings.Builder
	sb.WriteString(`<div id="app">`)
	for i := 0; i < width; i++ {
		sb.WriteString(`<p>{{ count }}</p>`)
	}
	sb.WriteString(`</div>`)

	doc, err := dom.ParseString(sb.String())
	if err != nil {
		return nil, err
	}
	a, err := app.New(doc, app.Options{El: "#app", Data: map[string]any{"count": 0}})
	if err != nil {
		return nil, err
	}

	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := a.Set("count", i+1); err != nil {
			return nil, err
		}
		tach.AddTime(time.Since(start))
	}

	if got := a.El().FirstChild().TextContent(); got != fmt.Sprint(iters) {
		return nil, fmt.Errorf("width %d: last binding shows %q, want %d", width, got, iters)
	}
	return tach.Calc(), nil
}
