package combination

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"frizo/margin_saving/internal/logger"
	"frizo/margin_saving/internal/source"

	"github.com/shopspring/decimal"
)

const (
	// Kind names this source in load errors and metrics.
	Kind = "combination"

	headerRows = 3
	minFields  = 6
	minLegs    = 2
)

// Load reads a combination parameter file.
func Load(path string, log *logger.Logger) (*Catalog, source.LoadStats, error) {
	f, err := source.Open(Kind, path)
	if err != nil {
		return nil, source.LoadStats{}, err
	}
	defer f.Close()

	return Parse(f, path, log)
}

// Parse reads tab separated rows: date, name, settlement prices, priority,
// margin, attribute. The first three rows are headers. Malformed rows are
// skipped and counted.
func Parse(r io.Reader, name string, log *logger.Logger) (*Catalog, source.LoadStats, error) {
	log = logger.OrDefault(log).With("source", name, "kind", Kind)

	var (
		stats        source.LoadStats
		combinations []*Combination
	)
	err := source.ReadLines(r, Kind, name, headerRows, func(line source.Line) {
		stats.Rows++
		combo, err := parseRow(line.Text)
		if err != nil {
			stats.Skipped++
			log.Debug("skipping combination row", "line", line.Number, "reason", err)
			return
		}
		stats.Loaded++
		combinations = append(combinations, combo)
	})
	if err != nil {
		return nil, source.LoadStats{}, err
	}

	log.Info("combinations loaded", "loaded", stats.Loaded, "skipped", stats.Skipped)
	return NewCatalog(combinations), stats, nil
}

func parseRow(text string) (*Combination, error) {
	parts := source.SplitTabs(text)
	if len(parts) < minFields {
		return nil, fmt.Errorf("expected at least %d fields, got %d", minFields, len(parts))
	}

	priority, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return nil, fmt.Errorf("priority: %w", err)
	}

	// thousands separators, "1,460" -> "1460"
	margin, err := parseDecimal(strings.ReplaceAll(parts[4], ",", ""))
	if err != nil {
		return nil, fmt.Errorf("margin: %w", err)
	}

	name := strings.TrimSpace(parts[1])
	legs, err := ParseLegs(name, strings.TrimSpace(parts[2]))
	if err != nil {
		return nil, err
	}
	if len(legs) < minLegs {
		return nil, fmt.Errorf("combination %s has %d legs", name, len(legs))
	}

	return &Combination{
		Date:      strings.TrimSpace(parts[0]),
		Name:      name,
		Legs:      legs,
		Priority:  priority,
		Margin:    margin,
		Attribute: strings.TrimSpace(parts[5]),
	}, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
