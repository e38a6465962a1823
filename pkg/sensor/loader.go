// Package sensor loads sensor reports from text or YAML input.
package sensor

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/beaconscan/pkg/types"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMalformedReport is returned for input that does not describe a
	// sensor report.
	ErrMalformedReport = errors.New("malformed sensor report")

	// ErrNoSensors is returned when the input holds no reports at all.
	ErrNoSensors = errors.New("no sensor reports found")
)

// reportPattern matches one line of the text format, e.g.
//
//	Sensor at x=2, y=18: closest beacon is at x=-2, y=15
const reportPattern = `^\s*Sensor at x=(?<sx>[-+]?\d+),\s*y=(?<sy>[-+]?\d+):\s*closest beacon is at x=(?<ox>[-+]?\d+),\s*y=(?<oy>[-+]?\d+)\s*$`

// Loader parses sensor reports.
type Loader struct {
	re *regexp2.Regexp
}

// NewLoader creates a loader for the text and YAML report formats.
func NewLoader() *Loader {
	re := regexp2.MustCompile(reportPattern, regexp2.None)
	re.MatchTimeout = time.Second
	return &Loader{re: re}
}

// LoadText parses one report per non-blank line.
func (l *Loader) LoadText(data []byte) ([]types.SensorReport, error) {
	var reports []types.SensorReport

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		r, err := l.parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		reports = append(reports, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading reports: %w", err)
	}

	if len(reports) == 0 {
		return nil, ErrNoSensors
	}
	return reports, nil
}

func (l *Loader) parseLine(line string) (types.SensorReport, error) {
	m, err := l.re.FindStringMatch(line)
	if err != nil {
		return types.SensorReport{}, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if m == nil {
		return types.SensorReport{}, fmt.Errorf("%w: %q", ErrMalformedReport, line)
	}

	var coords [4]int64
	for i, name := range []string{"sx", "sy", "ox", "oy"} {
		v, err := strconv.ParseInt(m.GroupByName(name).String(), 10, 64)
		if err != nil {
			return types.SensorReport{}, fmt.Errorf("%w: %s: %v", ErrMalformedReport, name, err)
		}
		coords[i] = v
	}

	return types.SensorReport{
		Sensor: types.Position{X: coords[0], Y: coords[1]},
		Object: types.Position{X: coords[2], Y: coords[3]},
	}, nil
}

// LoadYAML parses a YAML document with a top-level "sensors" list.
func (l *Loader) LoadYAML(data []byte) ([]types.SensorReport, error) {
	var file yamlReportsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sensors) == 0 {
		return nil, ErrNoSensors
	}

	reports := make([]types.SensorReport, 0, len(file.Sensors))
	for i, yr := range file.Sensors {
		r, err := convertYAMLReport(yr)
		if err != nil {
			return nil, fmt.Errorf("sensor %d: %w", i, err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func convertYAMLReport(yr yamlReport) (types.SensorReport, error) {
	object := yr.Object
	if object == nil {
		object = yr.Beacon
	}
	if yr.Object != nil && yr.Beacon != nil {
		return types.SensorReport{}, fmt.Errorf("%w: both object and beacon given", ErrMalformedReport)
	}

	sensor, err := convertYAMLPosition("sensor", yr.Sensor)
	if err != nil {
		return types.SensorReport{}, err
	}
	obj, err := convertYAMLPosition("object", object)
	if err != nil {
		return types.SensorReport{}, err
	}
	return types.SensorReport{Sensor: sensor, Object: obj}, nil
}

func convertYAMLPosition(field string, p *yamlPosition) (types.Position, error) {
	if p == nil {
		return types.Position{}, fmt.Errorf("%w: missing %s", ErrMalformedReport, field)
	}
	if p.X == nil || p.Y == nil {
		return types.Position{}, fmt.Errorf("%w: %s needs both x and y", ErrMalformedReport, field)
	}
	return types.Position{X: *p.X, Y: *p.Y}, nil
}

// LoadFile loads reports from path. Files ending in .yaml or .yml are parsed
// as YAML, anything else as text.
func (l *Loader) LoadFile(path string) ([]types.SensorReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.LoadYAML(data)
	default:
		return l.LoadText(data)
	}
}
