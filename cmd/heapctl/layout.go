package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okhira/bareheap/heap"
	"github.com/okhira/bareheap/internal/mem"
)

var (
	layoutSize    uint64
	layoutCompact bool
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().Uint64Var(&layoutSize, "heap-size", 1<<20, "Heap size in bytes")
	cmd.Flags().BoolVar(&layoutCompact, "compact", false, "Use the compact size-class config")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show how a heap of a given size would be partitioned",
		Long: `The layout command prints the sub-region plan Init would carve for a
heap of the given size: one share per slab class plus the fallback region.

Example:
  heapctl layout --heap-size 1048576
  heapctl layout --heap-size 65536 --compact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
}

func runLayout() error {
	cfg := heap.DefaultConfig
	if layoutCompact {
		cfg = heap.CompactConfig
	}

	size := uintptr(layoutSize)
	shares := uintptr(len(cfg.Classes)) + 1
	perClass := mem.AlignDown(size/shares, mem.PageSize)
	if perClass == 0 {
		return fmt.Errorf("heap of %s is too small for %d class shares",
			humanize.IBytes(layoutSize), shares)
	}

	printInfo("Heap layout for %s (%d classes + fallback):\n\n",
		humanize.IBytes(layoutSize), len(cfg.Classes))

	off := uintptr(0)
	for _, class := range cfg.Classes {
		printInfo("  %#010x  class %-5d  %8s  (%d blocks)\n",
			off, class, humanize.IBytes(uint64(perClass)), perClass/class)
		off += perClass
	}
	printInfo("  %#010x  fallback     %8s\n", off, humanize.IBytes(uint64(size-off)))

	return nil
}
