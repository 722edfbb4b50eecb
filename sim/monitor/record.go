package monitor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/tickwire/lanefeed/sim/model"
)

// CSVRecorder appends one row per sampling boundary to a CSV file, for
// offline analysis and plotting.
type CSVRecorder struct {
	sim    model.SimContext
	output *csv.Writer
}

var csvHeader = []string{"Nanoseconds", "TotalPackets", "ErrorPackets", "Throughput"}

// MakeNullCSVRecorder returns a recorder that discards everything.
func MakeNullCSVRecorder() *CSVRecorder {
	return &CSVRecorder{output: nil}
}

func MakeCSVRecorder(sim model.SimContext, path string) *CSVRecorder {
	w, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	cw := csv.NewWriter(w)
	err = cw.Write(csvHeader)
	cw.Flush()
	if err == nil {
		err = cw.Error()
	}
	if err != nil {
		log.Fatal(err)
	}
	return &CSVRecorder{
		sim:    sim,
		output: cw,
	}
}

func (r *CSVRecorder) IsRecording() bool {
	return r.output != nil
}

func (r *CSVRecorder) Record(s Stats) {
	if r.output == nil {
		// not recording; discard
		return
	}
	err := r.output.Write([]string{
		strconv.FormatUint(r.sim.Now().Nanoseconds(), 10),
		strconv.FormatUint(uint64(s.TotalPackets), 10),
		strconv.FormatUint(uint64(s.ErrorPackets), 10),
		strconv.FormatUint(uint64(s.Throughput), 10),
	})
	r.output.Flush()
	if err == nil {
		err = r.output.Error()
	}
	if err != nil {
		log.Fatal(err)
	}
}

// Record is one decoded row of a recording.
type Record struct {
	Timestamp model.VirtualTime
	Stats
}

func DecodeRecording(path string) (records []Record, re error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			re = multierror.Append(re, err)
		}
	}()
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, errors.New("no header found")
	}
	if len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("invalid header: %v", rows[0])
	}
	for i, name := range csvHeader {
		if rows[0][i] != name {
			return nil, fmt.Errorf("invalid header: %v", rows[0])
		}
	}
	for _, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("invalid data record: %v", row)
		}
		timestampNS, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return nil, err
		}
		timestamp, ok := model.FromNanoseconds(timestampNS)
		if !ok {
			return nil, fmt.Errorf("invalid timestamp: %v", row[0])
		}
		var counters [3]uint32
		for i := range counters {
			v, err := strconv.ParseUint(row[1+i], 10, 32)
			if err != nil {
				return nil, err
			}
			counters[i] = uint32(v)
		}
		records = append(records, Record{
			Timestamp: timestamp,
			Stats: Stats{
				TotalPackets: counters[0],
				ErrorPackets: counters[1],
				Throughput:   counters[2],
			},
		})
	}
	return records, nil
}
