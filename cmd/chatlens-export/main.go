package main

import (
	"bytes"
	"chatlens/internal/chart"
	"chatlens/internal/export"
	"chatlens/internal/logger"
	"chatlens/internal/model"
	"chatlens/internal/view"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// Renders a saved analysis payload without a server:
//
//	chatlens-export -in analysis.json -format csv -out chat_analysis.csv
func main() {
	in := flag.String("in", "-", "payload file, - for stdin")
	format := flag.String("format", "csv", "csv, json or html")
	out := flag.String("out", "-", "output file, - for stdout")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger.Initialize(level, true)

	raw, err := readInput(*in)
	if err != nil {
		log.Fatal().Err(err).Str("in", *in).Msg("Failed to read payload")
	}

	body, err := render(*format, raw)
	if err != nil {
		log.Fatal().Err(err).Str("format", *format).Msg("Failed to render payload")
	}

	if err := writeOutput(*out, body); err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("Failed to write output")
	}
}

func render(format string, raw []byte) ([]byte, error) {
	switch format {
	case "json":
		return export.JSON(raw)
	case "csv", "html":
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	analysis, err := model.ParseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	for _, s := range analysis.Skipped {
		log.Warn().Err(s.Err).Str("section", s.Section).Msg("Dropping malformed section")
	}

	if format == "csv" {
		return export.CSV(analysis), nil
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	v := view.Build(analysis)
	chart.NewProjector().Attach(v, analysis)
	// exports link back to a server, which an offline file does not have
	v.Exports = nil

	var buf bytes.Buffer
	if err := renderer.Render(&buf, &view.Page{View: v}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, body []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(body)
		return err
	}
	return os.WriteFile(path, body, 0o644)
}
