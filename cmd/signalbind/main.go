package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

const (
	templateKey = "template"
	dataKey     = "data"
	elKey       = "el"
	setKey      = "set"
	verboseKey  = "verbose"
	widthKey    = "width"
	itersKey    = "iters"
	profileKey  = "cpuprofile"
)

func main() {
	cmd := &cli.Command{
		Name:  "signalbind",
		Usage: "Mount data onto an HTML template and watch bindings update",
		Commands: []*cli.Command{
			renderCommand(),
			inspectCommand(),
			benchCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func mountFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     templateKey,
			Aliases:  []string{"t"},
			Usage:    "HTML template file",
			Required: true,
		},
		&cli.StringFlag{
			Name:    dataKey,
			Aliases: []string{"d"},
			Usage:   "JSON file with the initial data",
		},
		&cli.StringFlag{
			Name:  elKey,
			Usage: "Selector of the mount element",
			Value: "#app",
		},
		&cli.BoolFlag{
			Name:  verboseKey,
			Usage: "Log binding diagnostics",
		},
	}
}
