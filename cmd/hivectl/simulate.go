package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/hivekit/hive"
	"github.com/joshuapare/hivekit/hive/alloc"
	"github.com/joshuapare/hivekit/hive/class"
	"github.com/joshuapare/hivekit/hive/raw"
	"github.com/joshuapare/hivekit/hive/ref"
	"github.com/joshuapare/hivekit/hive/store"
)

var (
	simObjects     int
	simWorkers     int
	simRemoveEvery int
	simHoldEvery   int
	simRawElems    int
	simCloseFirst  bool
)

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().IntVarP(&simObjects, "objects", "n", 10000, "Objects added per worker")
	cmd.Flags().IntVarP(&simWorkers, "workers", "w", 4, "Concurrent workers")
	cmd.Flags().IntVar(&simRemoveEvery, "remove-every", 3, "Remove every Nth object (0 disables)")
	cmd.Flags().IntVar(&simHoldEvery, "hold-every", 10, "Keep a handle to every Nth removed object until the end (0 disables)")
	cmd.Flags().IntVar(&simRawElems, "raw", 1000, "Raw elements allocated per worker")
	cmd.Flags().BoolVar(&simCloseFirst, "close-with-handles", false, "Close the store while held handles are still alive")
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a synthetic workload against a pool store",
		Long: `The simulate command registers a small particle class, creates its
object pool and a raw pool through a store, and runs concurrent workers that
add, touch, remove and hold objects. It prints the resulting pool statistics
and page accounting.

Example:
  hivectl simulate
  hivectl simulate -n 50000 -w 8 --remove-every 2
  hivectl simulate --close-with-handles --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate()
		},
	}
	return cmd
}

// particle is the object class the simulation pools.
type particle struct {
	ref.Base
	Pos, Vel [3]float32
	Age      int32
}

func (p *particle) Init() { p.Vel = [3]float32{1, 1, 1} }

func (p *particle) step() {
	for i := range p.Pos {
		p.Pos[i] += p.Vel[i]
	}
	p.Age++
}

// sample is the raw element type.
type sample struct {
	Tick  uint64
	Value float64
}

// SimulateResult is the output of the simulate command.
type SimulateResult struct {
	Workers    int                       `json:"workers"`
	Added      int                       `json:"added"`
	Removed    int                       `json:"removed"`
	Held       int                       `json:"held"`
	Visited    int                       `json:"visited"`
	Hive       hive.Stats                `json:"hive"`
	Raw        raw.Stats                 `json:"raw"`
	Accounting alloc.AccountingSnapshot  `json:"accounting"`
	AfterClose *alloc.AccountingSnapshot `json:"after_close,omitempty"`
	Elapsed    time.Duration             `json:"elapsed_ns"`
}

func runSimulate() error {
	if simWorkers < 1 || simObjects < 0 || simRawElems < 0 {
		return fmt.Errorf("workers must be positive and counts non-negative")
	}

	reg := &class.Registry{}
	reg.MustRegister(class.NewFactory[particle]("hivectl.particle"))

	s := store.New(reg, cfg, store.WithLogger(poolLogger()))
	h, err := s.GetHive(class.IDOf[particle]())
	if err != nil {
		return err
	}
	rp, err := store.RawHiveOf[sample](s)
	if err != nil {
		return err
	}

	printVerbose("Running %d workers x %d objects\n", simWorkers, simObjects)
	start := time.Now()

	var (
		mu      sync.Mutex
		held    []ref.Ptr[ref.Object]
		removed int
		wg      sync.WaitGroup
	)
	for w := 0; w < simWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var (
				mine []ref.Ptr[ref.Object]
				rm   int
			)
			for i := 1; i <= simObjects; i++ {
				p := h.Add()
				p.Get().(*particle).step()
				if simRemoveEvery > 0 && i%simRemoveEvery == 0 {
					if err := h.Remove(p.Get()); err == nil {
						rm++
					}
					if simHoldEvery > 0 && rm%simHoldEvery == 0 {
						mine = append(mine, p.Take())
						continue
					}
				}
				p.Release()
			}
			for i := 0; i < simRawElems; i++ {
				slot := rp.Allocate()
				if b := rp.Bytes(slot); b != nil {
					b[0] = byte(i)
				}
			}
			mu.Lock()
			held = append(held, mine...)
			removed += rm
			mu.Unlock()
		}()
	}
	wg.Wait()

	visited := 0
	h.ForEach(func(obj ref.Object) bool {
		obj.(*particle).step()
		visited++
		return true
	})

	res := SimulateResult{
		Workers:    simWorkers,
		Added:      simWorkers * simObjects,
		Removed:    removed,
		Held:       len(held),
		Visited:    visited,
		Hive:       h.Stats(),
		Raw:        rp.Stats(),
		Accounting: s.Accounting().Snapshot(),
	}

	if simCloseFirst {
		s.Close()
		for i := range held {
			held[i].Get().(*particle).step()
			held[i].Release()
		}
	} else {
		for i := range held {
			held[i].Release()
		}
		s.Close()
	}
	after := s.Accounting().Snapshot()
	res.AfterClose = &after
	res.Elapsed = time.Since(start)

	if jsonOut {
		return printJSON(res)
	}
	printSimulate(res)
	return nil
}

func printSimulate(r SimulateResult) {
	p := message.NewPrinter(language.English)
	printInfo("%s", p.Sprintf("Workload: %d workers, %d added, %d removed, %d held, %d visited\n",
		r.Workers, r.Added, r.Removed, r.Held, r.Visited))
	printInfo("%s", p.Sprintf("Hive %s: %d pages, %d slots (%d live, %d zombie, %d expired, %d free)\n",
		r.Hive.Name, r.Hive.Pages, r.Hive.Capacity, r.Hive.Live, r.Hive.Zombies, r.Hive.Expired, r.Hive.Free))
	printInfo("%s", p.Sprintf("Raw: %d pages, %d live of %d slots, %d bytes\n",
		r.Raw.Pages, r.Raw.Live, r.Raw.Capacity, r.Raw.Bytes))
	printInfo("%s", p.Sprintf("Pages: %d allocated, %d freed, %d orphaned\n",
		r.Accounting.PagesAllocated, r.Accounting.PagesFreed, r.Accounting.PagesOrphaned))
	if a := r.AfterClose; a != nil {
		printInfo("%s", p.Sprintf("After close: %d allocated, %d freed, %d orphaned\n",
			a.PagesAllocated, a.PagesFreed, a.PagesOrphaned))
	}
	printInfo("Elapsed: %s\n", r.Elapsed)
}
