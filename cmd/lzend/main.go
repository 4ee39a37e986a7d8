// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command lzend compresses and decompresses streams using the lzend
// package's LZ-End parser.
//
// Example usage:
//	$ lzend -w 1Mi < input > output.lze
//	$ lzend -d < output.lze > input
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dsnet/golib/strconv"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/lzend/lzend"
)

func main() {
	decompress := flag.Bool("d", false, "decompress stdin to stdout")
	windowStr := flag.String("w", "64Ki", "window size, in bytes (accepts SI/IEC suffixes)")
	algo := flag.String("algo", "", "pipe the phrase stream through an entropy coder: zstd or xz")
	noCRC := flag.Bool("no-crc", false, "omit the end-of-stream integrity trailer")
	topK := flag.Int("k", 0, "unused: reserved for a future top-k sketch filter")
	topD := flag.Int("d-sketch", 0, "unused: reserved for a future top-k sketch filter")
	topC := flag.Int("c", 0, "unused: reserved for a future top-k sketch filter")
	flag.Parse()

	if *topK != 0 || *topD != 0 || *topC != 0 {
		fmt.Fprintln(os.Stderr, "lzend: -k/-d-sketch/-c are accepted but have no effect (no sketch filter implemented)")
	}

	if err := run(*decompress, *windowStr, *algo, *noCRC); err != nil {
		fmt.Fprintf(os.Stderr, "lzend: %v\n", err)
		os.Exit(1)
	}
}

func run(decompress bool, windowStr, algo string, noCRC bool) error {
	if decompress {
		return runDecompress(algo)
	}
	return runCompress(windowStr, algo, noCRC)
}

func runCompress(windowStr, algo string, noCRC bool) error {
	w, err := wrapEncoder(os.Stdout, algo)
	if err != nil {
		return err
	}

	winF, err := strconv.ParsePrefix(windowStr, strconv.AutoParse)
	if err != nil {
		return fmt.Errorf("invalid window size %q: %w", windowStr, err)
	}
	cfg := lzend.DefaultConfig()
	cfg.WindowSize = int(winF)
	cfg.DisableCRC = noCRC

	lw, err := lzend.NewWriter(w, cfg)
	if err != nil {
		return err
	}
	if _, err := io.Copy(lw, os.Stdin); err != nil {
		return err
	}
	if err := lw.Close(); err != nil {
		return err
	}
	return closeEncoder(w)
}

func runDecompress(algo string) error {
	r, err := wrapDecoder(os.Stdin, algo)
	if err != nil {
		return err
	}
	defer closeDecoder(r)

	text, err := lzend.DecodeAll(r)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(text)
	return err
}

// wrapEncoder returns a writer that funnels the phrase stream through an
// entropy coder before it reaches dst, realizing the "entropy coder for the
// phrase stream" collaborator slot without this package reimplementing one.
func wrapEncoder(dst io.Writer, algo string) (io.Writer, error) {
	switch algo {
	case "":
		return dst, nil
	case "zstd":
		return zstd.NewWriter(dst)
	case "xz":
		return xz.NewWriter(dst)
	default:
		return nil, fmt.Errorf("unknown -algo %q: want zstd or xz", algo)
	}
}

func closeEncoder(w io.Writer) error {
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func wrapDecoder(src io.Reader, algo string) (io.Reader, error) {
	switch algo {
	case "":
		return src, nil
	case "zstd":
		d, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case "xz":
		return xz.NewReader(src)
	default:
		return nil, fmt.Errorf("unknown -algo %q: want zstd or xz", algo)
	}
}

func closeDecoder(r io.Reader) {
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
}
