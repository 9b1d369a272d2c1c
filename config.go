package genex

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Config carries the build/query tunables that must be fixed before a
// GlobalGroupSpace is built and never re-read on the hot path: the
// warping-band ratio, the default grouping threshold, the build thread
// count, and a SavePlain debug flag. SavePlain is only stored and
// round-tripped by LoadConfig/Write: Save writes no plain-text dump.
type Config struct {
	WarpingBandRatio float64
	Threshold        float64
	NumThreads       int
	SavePlain        bool
}

// DefaultConfig gives every field a sane, named default rather than a
// bare zero value.
var DefaultConfig = Config{
	WarpingBandRatio: 0.1,
	Threshold:        1.0,
	NumThreads:       1,
	SavePlain:        false,
}

// LoadConfig reads a Config from a ':'-delimited, '#'-commented CSV shape,
// defaulting unset fields to DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	conf := DefaultConfig
	csvReader := csv.NewReader(r)
	csvReader.Comma = ':'
	csvReader.Comment = '#'
	csvReader.FieldsPerRecord = 2
	csvReader.TrimLeadingSpace = true

	lines, err := csvReader.ReadAll()
	if err != nil {
		return conf, wrapf(ErrIOFailure, "reading config: %s", err)
	}

	for _, line := range lines {
		switch line[0] {
		case "WarpingBandRatio":
			v, err := strconv.ParseFloat(line[1], 64)
			if err != nil {
				return conf, wrapf(ErrIOFailure, "parsing WarpingBandRatio: %s", err)
			}
			conf.WarpingBandRatio = v
		case "Threshold":
			v, err := strconv.ParseFloat(line[1], 64)
			if err != nil {
				return conf, wrapf(ErrIOFailure, "parsing Threshold: %s", err)
			}
			conf.Threshold = v
		case "NumThreads":
			v, err := strconv.Atoi(line[1])
			if err != nil {
				return conf, wrapf(ErrIOFailure, "parsing NumThreads: %s", err)
			}
			conf.NumThreads = v
		case "SavePlain":
			conf.SavePlain = line[1] == "true"
		default:
			return conf, fmt.Errorf("genex: invalid config key: %s", line[0])
		}
	}
	return conf, nil
}

// Write serializes conf in the same CSV shape LoadConfig reads.
func (conf Config) Write(w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = ':'

	s := func(v bool) string {
		if v {
			return "true"
		}
		return "false"
	}
	records := [][]string{
		{"WarpingBandRatio", strconv.FormatFloat(conf.WarpingBandRatio, 'g', -1, 64)},
		{"Threshold", strconv.FormatFloat(conf.Threshold, 'g', -1, 64)},
		{"NumThreads", strconv.Itoa(conf.NumThreads)},
		{"SavePlain", s(conf.SavePlain)},
	}
	if err := csvWriter.WriteAll(records); err != nil {
		return wrapf(ErrIOFailure, "writing config: %s", err)
	}
	return nil
}

// Merge returns conf with every unset (zero-value) field replaced by
// file's value: values explicitly set on conf win, everything else falls
// back to file. Used when a caller opens an existing on-disk index and
// overrides only a handful of fields.
func (conf Config) Merge(file Config) Config {
	merged := conf
	if merged.WarpingBandRatio == 0 {
		merged.WarpingBandRatio = file.WarpingBandRatio
	}
	if merged.Threshold == 0 {
		merged.Threshold = file.Threshold
	}
	if merged.NumThreads == 0 {
		merged.NumThreads = file.NumThreads
	}
	if !merged.SavePlain {
		merged.SavePlain = file.SavePlain
	}
	return merged
}
