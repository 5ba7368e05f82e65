// Command metadump prints the metadata report for an image file or URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"pixelview/internal/fetch"
	"pixelview/internal/imaging"
	"pixelview/internal/metadata"
)

func main() {
	watermark := flag.Bool("watermark", false, "Only print the watermark line")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: metadump [-watermark] <image path or URL>")
		os.Exit(1)
	}
	arg := flag.Arg(0)

	var src *imaging.Source
	var err error
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		src, err = fetch.Download(context.Background(), arg)
	} else {
		src, err = imaging.Load(arg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}

	if *watermark {
		fmt.Println(metadata.DetectWatermark(src))
		return
	}
	fmt.Println(metadata.Describe(src))
}
