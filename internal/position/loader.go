package position

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"frizo/margin_saving/common"
	"frizo/margin_saving/internal/logger"
	"frizo/margin_saving/internal/source"
)

const (
	// Kind names this source in load errors and metrics.
	Kind = "position"

	headerRows = 1
	minFields  = 4
)

// Load reads a position csv file.
func Load(path string, log *logger.Logger) (*Book, source.LoadStats, error) {
	f, err := source.Open(Kind, path)
	if err != nil {
		return nil, source.LoadStats{}, err
	}
	defer f.Close()

	return Parse(f, path, log)
}

// Parse reads comma separated rows: account, contract, direction, quantity.
// The first row is a header. Malformed rows are skipped and counted.
func Parse(r io.Reader, name string, log *logger.Logger) (*Book, source.LoadStats, error) {
	log = logger.OrDefault(log).With("source", name, "kind", Kind)

	var (
		stats     source.LoadStats
		positions []*Position
	)
	err := source.ReadLines(r, Kind, name, headerRows, func(line source.Line) {
		stats.Rows++
		pos, err := parseRow(line.Text)
		if err != nil {
			stats.Skipped++
			log.Debug("skipping position row", "line", line.Number, "reason", err)
			return
		}
		stats.Loaded++
		positions = append(positions, pos)
	})
	if err != nil {
		return nil, source.LoadStats{}, err
	}

	log.Info("positions loaded", "loaded", stats.Loaded, "skipped", stats.Skipped)
	return NewBook(positions), stats, nil
}

func parseRow(text string) (*Position, error) {
	parts := strings.Split(text, ",")
	if len(parts) < minFields {
		return nil, fmt.Errorf("expected at least %d fields, got %d", minFields, len(parts))
	}

	account := strings.TrimSpace(parts[0])
	contract := strings.TrimSpace(parts[1])
	if account == "" || contract == "" {
		return nil, fmt.Errorf("empty account or contract")
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("quantity: %w", err)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity %d is not positive", quantity)
	}

	return &Position{
		Account:  account,
		Contract: contract,
		Side:     common.ParseSide(parts[2]),
		Quantity: quantity,
	}, nil
}
