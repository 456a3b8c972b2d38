package runner

import (
	"log/slog"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/extractor"
	"github.com/gnana997/importsorter/pkg/renderer"
	"github.com/gnana997/importsorter/pkg/sorter"
)

// Build assembles a Runner for cfg on top of a shared tree parser.
//
//	pm := parser.NewParserManager(logger)
//	defer pm.Close()
//	r, err := runner.Build(cfg, pm, logger)
func Build(cfg config.Configuration, p extractor.TreeParser, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s, err := sorter.NewWithConfig(cfg.SortConfiguration, logger)
	if err != nil {
		return nil, err
	}
	r, err := renderer.NewWithConfig(cfg.ImportStringConfiguration, logger)
	if err != nil {
		return nil, err
	}
	return New(extractor.New(p, logger), s, r, cfg.GeneralConfiguration, logger)
}
