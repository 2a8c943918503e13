package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okhira/bareheap/heap"
	"github.com/okhira/bareheap/internal/hostmem"
)

// Runtime trace flag for per-operation logging, controlled by the
// BAREHEAP_LOG_ALLOC env var.
var (
	logAlloc           = os.Getenv("BAREHEAP_LOG_ALLOC") != ""
	traceW   io.Writer = os.Stderr
)

var (
	stressSize    uint64
	stressOps     int
	stressSeed    int64
	stressMaxSize int
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().Uint64Var(&stressSize, "heap-size", 4<<20, "Heap size in bytes")
	cmd.Flags().IntVar(&stressOps, "ops", 100000, "Number of operations to run")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Workload seed")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 8192, "Largest request size in bytes")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress",
		Short: "Run a randomized alloc/free workload and dump counters",
		Long: `The stress command reserves a host memory region, binds an allocator
to it, and replays a seeded random mix of Alloc and Free calls. The final
counter dump shows how the workload split across the slab pool and the
fallback free list.

Example:
  heapctl stress --heap-size 4194304 --ops 500000
  heapctl stress --seed 7 --max-size 2048`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
}

func runStress() error {
	base, release, err := hostmem.Reserve(uintptr(stressSize))
	if err != nil {
		return fmt.Errorf("failed to reserve backing memory: %w", err)
	}
	defer release() //nolint:errcheck // best-effort unmap on exit

	h := heap.New()
	if err := h.Init(base, uintptr(stressSize)); err != nil {
		return fmt.Errorf("failed to initialize heap: %w", err)
	}
	printVerbose("heap bound at %#x, %s\n", base, humanize.IBytes(stressSize))

	type allocation struct{ ptr, size, align uintptr }
	var live []allocation

	rng := rand.New(rand.NewSource(stressSeed))
	failures := 0
	for range stressOps {
		if len(live) > 0 && rng.Intn(2) == 0 {
			i := rng.Intn(len(live))
			a := live[i]
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
			if err := h.Free(a.ptr, a.size, a.align); err != nil {
				return fmt.Errorf("free(%#x, %d, %d): %w", a.ptr, a.size, a.align, err)
			}
			if logAlloc {
				fmt.Fprintf(traceW, "free  %#x size=%d align=%d\n", a.ptr, a.size, a.align)
			}
			continue
		}

		size := uintptr(rng.Intn(stressMaxSize) + 1)
		align := uintptr(1) << rng.Intn(10)
		ptr, err := h.Alloc(size, align)
		if err != nil {
			// Exhaustion under a random workload is expected; give the
			// heap room by dropping a live block.
			failures++
			if logAlloc {
				fmt.Fprintf(traceW, "alloc size=%d align=%d: %v\n", size, align, err)
			}
			if len(live) > 0 {
				i := rng.Intn(len(live))
				a := live[i]
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
				if err := h.Free(a.ptr, a.size, a.align); err != nil {
					return err
				}
				if logAlloc {
					fmt.Fprintf(traceW, "free  %#x size=%d align=%d\n", a.ptr, a.size, a.align)
				}
			}
			continue
		}
		if logAlloc {
			fmt.Fprintf(traceW, "alloc %#x size=%d align=%d\n", ptr, size, align)
		}
		live = append(live, allocation{ptr, size, align})
	}

	for _, a := range live {
		if err := h.Free(a.ptr, a.size, a.align); err != nil {
			return err
		}
		if logAlloc {
			fmt.Fprintf(traceW, "free  %#x size=%d align=%d\n", a.ptr, a.size, a.align)
		}
	}

	printStats(h.Stats(), failures)
	return nil
}

func printStats(s heap.Stats, failures int) {
	p := message.NewPrinter(language.English)

	printInfo("workload:\n")
	printInfo("  alloc calls      %12s\n", p.Sprintf("%d", s.AllocCalls))
	printInfo("  free calls       %12s\n", p.Sprintf("%d", s.FreeCalls))
	printInfo("  exhaustions      %12s\n", p.Sprintf("%d", failures))
	printInfo("routing:\n")
	printInfo("  slab allocs      %12s\n", p.Sprintf("%d", s.SlabAllocs))
	printInfo("  slab overflows   %12s\n", p.Sprintf("%d", s.SlabOverflows))
	printInfo("  fallback allocs  %12s\n", p.Sprintf("%d", s.FallbackAllocs))
	printInfo("bytes:\n")
	printInfo("  handed out       %12s\n", humanize.IBytes(s.BytesAllocated))
	printInfo("  taken back       %12s\n", humanize.IBytes(s.BytesFreed))
}
