// Command zrawline decodes a raw ZRAW line bitstream and writes 16-bit
// grayscale PNG previews of the two decoded components, plus an optional
// zlib-compressed archive of the raw sample dump.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/klauspost/compress/zlib"

	zraw "github.com/rawpipe/zraw/pkg/zraw"
)

func main() {
	inputFile := flag.String("input", "", "Input raw ZRAW bitstream file")
	outputPrefix := flag.String("output", "", "Output file prefix (defaults to input filename)")
	lines := flag.Int("lines", 1, "Number of lines to decode")
	blocksCount := flag.Int("blocks", 1, "Blocks per line")
	maxValuesCount := flag.Int("values", 16, "Samples per line (<= blocks*16)")
	bitdepthReal := flag.Int("bitdepth", 12, "Sensor native bit depth (1..16)")
	maxAllowedPixelValue := flag.Int("max-pixel", 4095, "Maximum reconstructed sample value")
	maxAllowedRawValue := flag.Int("max-raw", 4095, "Maximum adaptive magnitude estimate")
	lossless := flag.Bool("lossless", false, "Disable per-block bitdepth_diff delta protocol")
	stride := flag.Bool("stride", false, "Pad each line to the alignment boundary")
	align256 := flag.Bool("align-256", false, "Align to 256 bits instead of 128")
	bayerPattern := flag.Uint("bayer", 0, "Bayer pattern (0..3)")
	archive := flag.Bool("archive", false, "Write a zlib-compressed sidecar of the raw sample dump")
	flag.Parse()

	if *inputFile == "" {
		log.Fatal("Input file is required. Use -input flag.")
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	alignMode := zraw.AlignTo128
	if *align256 {
		alignMode = zraw.AlignTo256
	}

	opts := zraw.Options{
		MaxAllowedPixelValue: *maxAllowedPixelValue,
		MaxAllowedRawValue:   *maxAllowedRawValue,
		MaxValuesCount:       *maxValuesCount,
		BlocksCount:          *blocksCount,
		Stride:               *stride,
		AlignMode:            alignMode,
		Lossless:             *lossless,
		BitdepthReal:         *bitdepthReal,
		BayerPattern:         zraw.BayerPattern(*bayerPattern),
	}

	decoder, err := zraw.New(opts)
	if err != nil {
		log.Fatalf("Failed to create ZRAW decoder: %v", err)
	}

	src := zraw.NewBitReader(data)

	componentA := make([][]uint16, 0, *lines)
	componentB := make([][]uint16, 0, *lines)
	for i := 0; i < *lines; i++ {
		if err := decoder.DecodeLine(src); err != nil {
			log.Fatalf("Failed to decode line %d: %v", i, err)
		}
		componentA = append(componentA, append([]uint16(nil), decoder.LineA()...))
		componentB = append(componentB, append([]uint16(nil), decoder.LineB()...))
	}

	output := *outputPrefix
	if output == "" {
		output = *inputFile
	}

	if err := writeGrayPNG(output+"_a.png", componentA); err != nil {
		log.Fatalf("Failed to write component A preview: %v", err)
	}
	if err := writeGrayPNG(output+"_b.png", componentB); err != nil {
		log.Fatalf("Failed to write component B preview: %v", err)
	}

	if *archive {
		if err := writeArchive(output+".zraw.gz", componentA, componentB); err != nil {
			log.Fatalf("Failed to write archive sidecar: %v", err)
		}
	}
}

// writeGrayPNG renders rows of 16-bit samples as a Gray16 PNG, matching
// image/png's own big-endian sample convention.
func writeGrayPNG(path string, rows [][]uint16) error {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	height := len(rows)

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y, row := range rows {
		for x, v := range row {
			img.SetGray16(x, y, color.Gray16{Y: v})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// writeArchive writes both components' raw samples, interleaved per line as
// A then B, as a zlib-compressed stream of little-endian uint16 values.
func writeArchive(path string, componentA, componentB [][]uint16) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := zlib.NewWriter(file)
	defer w.Close()

	buf := bufio.NewWriter(w)
	defer buf.Flush()

	var scratch [2]byte
	for i := range componentA {
		for _, v := range componentA[i] {
			binary.LittleEndian.PutUint16(scratch[:], v)
			if _, err := buf.Write(scratch[:]); err != nil {
				return err
			}
		}
		for _, v := range componentB[i] {
			binary.LittleEndian.PutUint16(scratch[:], v)
			if _, err := buf.Write(scratch[:]); err != nil {
				return err
			}
		}
	}
	return nil
}
