// Command asi-snap takes a single exposure with a ZWO ASI camera and writes
// it to a FITS file, without standing up an HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/openobs/asihttp/camera"
	"github.com/openobs/asihttp/util"
	"github.com/openobs/asihttp/zwo"
	"github.com/openobs/asihttp/zwo/sdk"

	"github.com/theckman/yacspin"
)

func main() {
	var (
		name   = flag.String("camera", "", "substring of the camera name to open; empty takes the first")
		texpS  = flag.String("texp", "100ms", "exposure time; bare numbers are seconds")
		bin    = flag.Int("bin", 1, "pixel binning, symmetric")
		format = flag.String("format", "mono16", "pixel format, one of mono8, mono16, rgb24")
		out    = flag.String("o", "image.fits", "output filename")
	)
	flag.Parse()

	if util.AllElementsNumbers(*texpS) {
		*texpS = *texpS + "s"
	}
	texp, err := time.ParseDuration(*texpS)
	if err != nil {
		log.Fatal(err)
	}
	pf, err := camera.ParseImageFormat(*format)
	if err != nil {
		log.Fatal(err)
	}

	dev, err := sdk.OpenByName(*name)
	if err != nil {
		log.Fatal(err)
	}
	cam, err := zwo.New(dev)
	if err != nil {
		log.Fatal(err)
	}
	defer cam.Close()
	if err := cam.SetBinning(camera.Binning{H: *bin, V: *bin}); err != nil {
		log.Fatal(err)
	}
	if err := cam.SetImageFormat(pf); err != nil {
		log.Fatal(err)
	}

	spin, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[11],
		Suffix:          " exposing",
		SuffixAutoColon: true,
		Message:         texp.String(),
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	})
	if err != nil {
		log.Fatal(err)
	}

	// ctrl-C stops the exposure instead of leaving the camera mid-capture
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	spin.Start()
	frame, err := cam.Expose(ctx, texp, true)
	if err != nil {
		spin.StopFail()
		log.Fatal(err)
	}
	spin.Stop()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	cards := cam.CollectHeaderMetadata()
	if err := camera.WriteFits(f, frame, cards...); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %dx%d %s frame to %s\n", frame.Width, frame.Height, frame.Format, *out)
}
