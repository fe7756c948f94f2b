package world

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadMap reads a map file from disk. See ParseMap for the format.
func LoadMap(mapPath string) (*Grid, error) {
	file, err := os.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open map file %s: %w", mapPath, err)
	}
	defer file.Close()

	g, err := ParseMap(file)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", mapPath, err)
	}
	return g, nil
}

// ParseMap reads one row of tile codes per line. Codes are separated by
// spaces, tabs or commas. Blank lines and lines starting with '#' are skipped.
// The first row read is the northern edge of the map.
func ParseMap(r io.Reader) (*Grid, error) {
	var rows [][]int
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		row := make([]int, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad tile %q: %w", lineNo, f, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading map: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyMap
	}
	return FromRows(rows)
}

// DefaultRows is the built-in level used when no map file is configured.
// +y is up, +x is right.
var DefaultRows = [][]int{
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 2, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 3, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 2, 3, 0, 0, 0, 1},
	{1, 0, 0, 0, 5, 6, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 0, 4, 1},
	{1, 3, 3, 0, 0, 0, 0, 0, 4, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
}

// DefaultGrid returns a fresh grid built from DefaultRows.
func DefaultGrid() *Grid {
	return MustFromRows(DefaultRows)
}
