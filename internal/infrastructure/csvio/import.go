// Package csvio moves projects in and out of the flat CSV files used by the
// office staff.
package csvio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
	"github.com/sitepulse/progress-tracker/internal/metrics"
)

// importColumns is the positional layout of an import line:
// name, description, startDate, endDate, workVolume, totalCost, assignedFieldAdminUsername.
const importColumns = 7

// ProjectImporter is the part of the engine the importer feeds.
type ProjectImporter interface {
	ImportProjects(ctx context.Context, inputs []ports.AddProjectInput) ([]*domain.Project, error)
}

// ImportResult summarises one import.
type ImportResult struct {
	Created []*domain.Project
	Skipped int
}

// ParseProjects turns CSV text into project inputs. The first line is a header
// and is discarded unread. Lines are split on every comma; quoting is not
// supported, so a comma inside a field shifts the columns. Lines missing any of
// the six required fields are skipped and counted.
func ParseProjects(text string) (inputs []ports.AddProjectInput, skipped int) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil, 0
	}
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		in, ok := parseLine(line)
		if !ok {
			skipped++
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, skipped
}

func parseLine(line string) (ports.AddProjectInput, bool) {
	fields := strings.Split(line, ",")
	var col [importColumns]string
	for i := 0; i < importColumns && i < len(fields); i++ {
		col[i] = strings.TrimSpace(fields[i])
	}
	for _, required := range col[:6] {
		if required == "" {
			return ports.AddProjectInput{}, false
		}
	}
	return ports.AddProjectInput{
		Name:                       col[0],
		Description:                col[1],
		StartDate:                  col[2],
		EndDate:                    col[3],
		WorkVolume:                 col[4],
		TotalCost:                  parseCost(col[5]),
		AssignedFieldAdminUsername: col[6],
	}, true
}

// parseCost reads the longest leading decimal literal of s, so "1000 IDR" is
// 1000. It never fails: a cost with no numeric prefix is stored as NaN, and
// one that overflows keeps ParseFloat's signed infinity.
func parseCost(s string) float64 {
	prefix := floatPrefix(s)
	if prefix == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// floatPrefix returns the leading [sign] digits [. digits] [e [sign] digits]
// run of s, or a signed "Infinity". It returns "" when no digit is present.
func floatPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return s[:i+len("Infinity")]
	}

	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			mantissa++
		}
		if mantissa > 0 {
			i = j
		}
	}
	if mantissa == 0 {
		return ""
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Importer reads CSV files into the project collection.
type Importer struct {
	projects ProjectImporter
	logger   zerolog.Logger
}

func NewImporter(projects ProjectImporter, logger zerolog.Logger) *Importer {
	return &Importer{projects: projects, logger: logger}
}

// Import reads r fully and adds every accepted line as a new project. A file
// with no valid lines is not an error.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	inputs, skipped := ParseProjects(string(raw))
	metrics.ImportRowsSkippedTotal.Add(float64(skipped))

	created, err := im.projects.ImportProjects(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("import csv: %w", err)
	}

	im.logger.Info().
		Int("accepted", len(created)).
		Int("skipped", skipped).
		Msg("csv import finished")
	return &ImportResult{Created: created, Skipped: skipped}, nil
}
