// Command sdfgen is the batch composer CLI: it reads a board and example
// name, wires the corresponding protection domains, memory regions, and
// subsystems, and writes the rendered system description. The argument
// parsing and board/example catalogue behind this contract are themselves
// external collaborators (the actual per-example wiring scripts); sdfgen
// only builds, validates, and renders whatever its caller (or, here, a
// deliberately minimal default system) gives pkg/sdf.
package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/jimmicro/version"
	"github.com/rs/zerolog"

	"github.com/jimyag/sdfgen/pkg/arch"
	"github.com/jimyag/sdfgen/pkg/driverdb"
	"github.com/jimyag/sdfgen/pkg/sdf"
)

func main() {
	var (
		board   = flag.String("board", "", "target board name")
		example = flag.String("example", "", "example system to compose")
		sdfPath = flag.String("sdf", "", "output path for the rendered system XML (default: stdout)")
		sddf    = flag.String("sddf", "", "sDDF repository root to probe for driver descriptors")
		dtbs    = flag.String("dtbs", "", "directory of compiled device tree blobs")
		debug   = flag.Bool("debug", false, "debug mode; only recorded in the log, since this command writes no binary config records")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(logger, *board, *example, *sdfPath, *sddf, *dtbs, *debug); err != nil {
		logger.Error().Err(err).Msg("compose failed")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger, board, example, sdfPath, sddfRepo, dtbDir string, debug bool) error {
	if board == "" || example == "" {
		return fmt.Errorf("both --board and --example are required")
	}
	logger.Info().Str("board", board).Str("example", example).Bool("debug", debug).Msg("composing system")

	if sddfRepo != "" {
		cat, err := driverdb.Probe(sddfRepo, logger)
		if err != nil {
			return fmt.Errorf("probe driver catalogue: %w", err)
		}
		defer cat.Close()
		logger.Info().Str("sddf_repo", sddfRepo).Msg("driver catalogue probed")
	}
	if dtbDir != "" {
		if _, err := os.Stat(dtbDir); err != nil {
			return fmt.Errorf("device tree blob directory: %w", err)
		}
	}

	sys := sdf.NewSystemDescription(arch.AArch64, 0x60000000)
	sys.SetLogger(sdf.ZerologAdapter{Log: logger})

	if err := sys.Validate(); err != nil {
		return fmt.Errorf("validate system: %w", err)
	}

	xml := sys.Render()

	if sdfPath == "" {
		fmt.Println(xml)
		return nil
	}
	if err := os.WriteFile(sdfPath, []byte(xml), 0o644); err != nil {
		return fmt.Errorf("write rendered system: %w", err)
	}
	logger.Info().Str("sdf_output", sdfPath).Msg("system rendered")
	return nil
}
