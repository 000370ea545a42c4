// Command board generates a single board and prints it, for eyeballing the
// generator and the flood reveal.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

var log = logrus.New()

// parseStart turns the -x/-y flags into a start cell. Negative values mean
// no start was given.
func parseStart(x, y int) (*mines.Coordinate, error) {
	if x > 0xffff || y > 0xffff {
		return nil, fmt.Errorf("start (%d, %d) must fit in 16 bits", x, y)
	}
	if x < 0 || y < 0 {
		return nil, nil
	}
	return &mines.Coordinate{X: uint16(x), Y: uint16(y)}, nil
}

func main() {
	var (
		width   = flag.Uint("width", 9, "board width")
		height  = flag.Uint("height", 9, "board height")
		count   = flag.Uint("mines", 10, "number of mines")
		seed    = flag.Uint64("seed", 1, "generator seed")
		x       = flag.Int("x", -1, "safe start column, reveals it when set with -y")
		y       = flag.Int("y", -1, "safe start row")
		verbose = flag.Bool("v", false, "log flood fills")
	)
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	mines.Log = log

	if *width > 0xffff || *height > 0xffff || *count > 0xffff {
		log.Fatal("width, height and mines must fit in 16 bits")
	}

	var opts []mines.GenerateOption
	start, err := parseStart(*x, *y)
	if err != nil {
		log.Fatal(err)
	}
	if start != nil {
		opts = append(opts, mines.WithSafeStart(*start))
	}

	r := rand.New(rand.NewPCG(*seed, *seed))
	grid, err := mines.Generate(uint16(*width), uint16(*height), uint16(*count), r, opts...)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(grid)

	if start == nil {
		return
	}

	board := mines.NewBoardState(grid)
	out := board.Reveal(*start)
	log.WithFields(logrus.Fields{
		"result":   out.Result,
		"revealed": len(out.Revealed),
		"complete": out.Complete,
	}).Infof("revealed %s", start)
	fmt.Fprint(os.Stdout, board.Snapshot(false).ToString(int(grid.Width())))
}
