package main

import (
	"context"
	"fmt"
	"os"

	"github.com/delaneyj/signalbind/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "Mount and list every observable key with its subscriber count",
		Flags:  mountFlags(),
		Action: inspect,
	}
}

func inspect(ctx context.Context, cmd *cli.Command) error {
	a, _, err := mount(cmd)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"key", "subscribers", "value"})

	var total int64
	var walk func(prefix string, obj *reactive.Object, seen map[*reactive.Object]bool)
	walk = func(prefix string, obj *reactive.Object, seen map[*reactive.Object]bool) {
		if seen[obj] {
			return
		}
		seen[obj] = true
		for _, key := range obj.Keys() {
			subs := int64(obj.Dep(key).Len())
			total += subs
			value := obj.Peek(key)
			child, isObject := value.(*reactive.Object)
			display := fmt.Sprint(value)
			if isObject {
				display = "{...}"
			}
			table.Append([]string{prefix + key, humanize.Comma(subs), display})
			if isObject {
				walk(prefix+key+".", child, seen)
			}
		}
	}
	walk("", a.Data(), map[*reactive.Object]bool{})

	table.SetFooter([]string{"total", humanize.Comma(total), ""})
	table.Render()
	return nil
}
