package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/delaneyj/signalbind/app"
	"github.com/delaneyj/signalbind/dom"
	"github.com/urfave/cli/v3"
)

func mount(cmd *cli.Command) (*app.App, *dom.Node, error) {
	f, err := os.Open(cmd.String(templateKey))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read template: %w", err)
	}

	data := map[string]any{}
	if path := cmd.String(dataKey); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, nil, fmt.Errorf("read data %s: %w", path, err)
		}
	}

	level := slog.LevelWarn
	if cmd.Bool(verboseKey) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a, err := app.New(doc, app.Options{
		El:     cmd.String(elKey),
		Data:   data,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return a, doc, nil
}

// parseAssignment splits key=value. The value is decoded as JSON when it
// parses and kept as a string otherwise.
func parseAssignment(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid assignment %q, want key=value", s)
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return key, raw, nil
	}
	return key, v, nil
}
