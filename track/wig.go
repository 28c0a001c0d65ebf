package track

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/store/step"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/biocc/genome"
	"github.com/grailbio/biocc/util"
)

// stepValue is the value of a step of a sparse coverage track.
type stepValue float64

// Equal implements step.Equaler.
func (v stepValue) Equal(e step.Equaler) bool {
	return v == e.(stepValue)
}

// ReadStats counts the records of a track file.
type ReadStats struct {
	// Records is the number of records stored in the map.
	Records int
	// Exceeded is the number of records omitted because they reach beyond
	// the chromosome end.
	Exceeded int
	// Duplicates is the number of reads dropped as duplicates.
	Duplicates int
}

type wigMode int

const (
	wigNone wigMode = iota
	wigVariable
	wigFixed
)

// wigReader accumulates coverage into one sparse step vector per
// chromosome, and resamples them into bins at the end.
type wigReader struct {
	cat     *genome.Catalog
	vectors map[int]*step.Vector
	stats   ReadStats
}

func (w *wigReader) add(id, start, end int, v float64) error {
	if v == 0 {
		return nil
	}
	length := w.cat.Chrom(id).Length
	if start < 0 || end > length {
		w.stats.Exceeded++
		return nil
	}
	vec, ok := w.vectors[id]
	if !ok {
		var err error
		if vec, err = step.New(0, length, stepValue(0)); err != nil {
			return err
		}
		w.vectors[id] = vec
	}
	vec.SetRange(start, end, stepValue(v))
	w.stats.Records++
	return nil
}

// parseDeclaration reads the key=value pairs of a variableStep or fixedStep
// line.
func parseDeclaration(fields [][]byte) (map[string]string, error) {
	kv := make(map[string]string, len(fields)-1)
	for _, tok := range fields[1:] {
		f := string(tok)
		i := strings.IndexByte(f, '=')
		if i <= 0 {
			return nil, errors.E(errors.Invalid, "malformed wiggle declaration field", f)
		}
		kv[f[:i]] = f[i+1:]
	}
	if kv["chrom"] == "" {
		return nil, errors.E(errors.Invalid, "wiggle declaration without chrom=")
	}
	return kv, nil
}

func intField(kv map[string]string, key string, def int) (int, error) {
	s, ok := kv[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, errors.E(errors.Invalid, "invalid wiggle", key, s)
	}
	return v, nil
}

// ReadWig reads a coverage track in wiggle (variableStep or fixedStep) or
// bedGraph format into a Map of the given resolution.  Wiggle positions are
// 1-based; bedGraph ones are 0-based half-open.  Chromosomes the catalog does
// not accept are skipped, as are zero values.  Records reaching beyond their
// chromosome are omitted and counted.
func ReadWig(r io.Reader, cat *genome.Catalog, res Resolution) (*Map, ReadStats, error) {
	w := &wigReader{cat: cat, vectors: make(map[int]*step.Vector)}
	var (
		mode       wigMode
		id         = -1
		span, stp  int
		next       int
		lineno     int
		declErr    error
		parseError = func(msg string) error {
			return errors.E(errors.Invalid, "track.ReadWig: line", strconv.Itoa(lineno), msg)
		}
	)
	scanner := bufio.NewScanner(r)
	var tokens [8][]byte
	for scanner.Scan() {
		lineno++
		n := util.Tokens(tokens[:], scanner.Bytes())
		if n == 0 || tokens[0][0] == '#' {
			continue
		}
		fields := tokens[:n]
		switch first := gunsafe.BytesToString(fields[0]); first {
		case "track", "browser":
			continue
		case "variableStep", "fixedStep":
			kv, err := parseDeclaration(fields)
			if err != nil {
				return nil, w.stats, parseError(err.Error())
			}
			id = -1
			if cat.Accepts(kv["chrom"]) {
				id, _ = cat.ID(kv["chrom"])
			}
			if span, declErr = intField(kv, "span", 1); declErr != nil {
				return nil, w.stats, parseError(declErr.Error())
			}
			mode = wigVariable
			if first == "fixedStep" {
				mode = wigFixed
				if next, declErr = intField(kv, "start", 0); declErr != nil || next == 0 {
					return nil, w.stats, parseError("fixedStep without a valid start=")
				}
				if stp, declErr = intField(kv, "step", 1); declErr != nil {
					return nil, w.stats, parseError(declErr.Error())
				}
			}
			continue
		}
		if len(fields) == 4 {
			// bedGraph: chrom start end value
			start, err1 := strconv.Atoi(gunsafe.BytesToString(fields[1]))
			end, err2 := strconv.Atoi(gunsafe.BytesToString(fields[2]))
			v, err3 := strconv.ParseFloat(gunsafe.BytesToString(fields[3]), 64)
			if err1 != nil || err2 != nil || err3 != nil || end < start {
				return nil, w.stats, parseError("malformed bedGraph record")
			}
			chrom := gunsafe.BytesToString(fields[0])
			if !cat.Accepts(chrom) {
				continue
			}
			bid, _ := cat.ID(chrom)
			if err := w.add(bid, start, end, v); err != nil {
				return nil, w.stats, err
			}
			continue
		}
		var (
			pos int
			v   float64
			err error
		)
		switch mode {
		case wigVariable:
			if len(fields) != 2 {
				return nil, w.stats, parseError("variableStep record needs 2 fields")
			}
			if pos, err = strconv.Atoi(gunsafe.BytesToString(fields[0])); err != nil || pos <= 0 {
				return nil, w.stats, parseError("invalid position")
			}
			if v, err = strconv.ParseFloat(gunsafe.BytesToString(fields[1]), 64); err != nil {
				return nil, w.stats, parseError("invalid value")
			}
		case wigFixed:
			if len(fields) != 1 {
				return nil, w.stats, parseError("fixedStep record needs 1 field")
			}
			if v, err = strconv.ParseFloat(gunsafe.BytesToString(fields[0]), 64); err != nil {
				return nil, w.stats, parseError("invalid value")
			}
			pos = next
			next += stp
		default:
			return nil, w.stats, parseError("data before any declaration")
		}
		if id < 0 {
			continue
		}
		if err := w.add(id, pos-1, pos-1+span, v); err != nil {
			return nil, w.stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, w.stats, errors.E(err, "track.ReadWig")
	}
	if w.stats.Exceeded > 0 {
		log.Error.Printf("track.ReadWig: %d record(s) exceed their chromosome and were omitted", w.stats.Exceeded)
	}
	if w.stats.Records == 0 {
		return nil, w.stats, errors.E(errors.Invalid, "track.ReadWig: no records for correlation")
	}
	m := NewMap(res)
	for id, vec := range w.vectors {
		cm := m.Add(id, cat.Chrom(id).Length)
		vec.Do(func(start, end int, e step.Equaler) {
			if v := float64(e.(stepValue)); v != 0 {
				cm.set(res, start, end, v)
			}
		})
	}
	return m, w.stats, nil
}

// LoadWig is ReadWig on a (possibly gzipped) file.
func LoadWig(path string, cat *genome.Catalog, res Resolution) (m *Map, stats ReadStats, err error) {
	err = util.WithPath(path, func(r io.Reader) (e error) {
		m, stats, e = ReadWig(r, cat, res)
		return
	})
	if err != nil {
		err = errors.E(err, path)
	}
	return
}
