package main

import (
	"flag"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tickwire/lanefeed/sim/model"
	"github.com/tickwire/lanefeed/sim/monitor"
)

func seconds(t model.VirtualTime) float64 {
	return t.Since(model.TimeZero).Seconds()
}

func buildPlot(records []monitor.Record) *plot.Plot {
	throughput := make(plotter.XYs, len(records))
	errorsLine := make(plotter.XYs, len(records))
	for i, r := range records {
		throughput[i].X = seconds(r.Timestamp)
		throughput[i].Y = float64(r.Throughput)
		errorsLine[i].X = seconds(r.Timestamp)
		errorsLine[i].Y = float64(r.ErrorPackets)
	}

	p := plot.New()
	p.Title.Text = "Lane Throughput"
	p.X.Label.Text = "Virtual Time (seconds)"
	p.Y.Label.Text = "Packets"

	tLine, err := plotter.NewLine(throughput)
	if err != nil {
		log.Fatal(err)
	}
	tLine.Color = color.RGBA{64, 128, 255, 255}

	eLine, err := plotter.NewLine(errorsLine)
	if err != nil {
		log.Fatal(err)
	}
	eLine.Color = color.RGBA{255, 64, 64, 255}

	p.Add(plotter.NewGrid(), tLine, eLine)
	p.Legend.Add("throughput/window", tLine)
	p.Legend.Add("errors (cumulative)", eLine)
	p.Legend.Top = true
	return p
}

func main() {
	var (
		in  = flag.String("in", "samples.csv", "throughput sample recording to render")
		out = flag.String("o", "", "write a PNG instead of opening a window")
	)
	flag.Parse()

	records, err := monitor.DecodeRecording(*in)
	if err != nil {
		log.Fatalf("Cannot decode recording %q: %v", *in, err)
	}
	if len(records) == 0 {
		log.Fatalf("Recording %q holds no samples", *in)
	}

	p := buildPlot(records)
	if *out != "" {
		if err := SavePlot(p, 8*vg.Inch, 6*vg.Inch, *out); err != nil {
			log.Fatalf("Cannot save plot: %v", err)
		}
		log.Printf("Wrote %s.", *out)
		return
	}
	if err := DisplayPlot(p); err != nil {
		log.Fatal(err)
	}
}
