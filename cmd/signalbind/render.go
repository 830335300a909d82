package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/delaneyj/signalbind/dom"
	"github.com/urfave/cli/v3"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Mount, apply writes in order and print the resulting HTML",
		Flags: append(mountFlags(),
			&cli.StringSliceFlag{
				Name:  setKey,
				Usage: "Write key=value after mounting, repeatable",
			},
		),
		Action: render,
	}
}

func render(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	defer func() {
		log.Printf("render finished in %v", time.Since(start))
	}()

	a, doc, err := mount(cmd)
	if err != nil {
		return err
	}
	log.Printf("mounted %s: digest %016x", cmd.String(elKey), dom.Digest(a.El()))

	for _, assignment := range cmd.StringSlice(setKey) {
		key, value, err := parseAssignment(assignment)
		if err != nil {
			return err
		}
		before := dom.Digest(a.El())
		if err := a.Set(key, value); err != nil {
			return err
		}
		after := dom.Digest(a.El())
		log.Printf("set %s=%v: digest %016x -> %016x changed=%v", key, value, before, after, before != after)
	}

	return dom.Render(os.Stdout, doc)
}
