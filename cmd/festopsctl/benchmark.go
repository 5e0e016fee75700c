package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
	"github.com/spf13/cobra"

	"festops/internal/domain"
	"festops/internal/listview"
)

const (
	FlagBenchWorkers  = "workers"
	FlagBenchDuration = "duration"
	FlagBenchWorkload = "workload"
)

// benchStats is shared across workers.
type benchStats struct {
	total       uint64
	failedVal   uint64
	failedNet   uint64
	failedSrv   uint64
	latencyMu   sync.Mutex
	latencyMsMA *movingaverage.MovingAverage
}

func (s *benchStats) observe(start time.Time, err error) {
	atomic.AddUint64(&s.total, 1)
	if err != nil {
		switch listview.KindOf(err) {
		case listview.KindValidation:
			atomic.AddUint64(&s.failedVal, 1)
		case listview.KindNetwork:
			atomic.AddUint64(&s.failedNet, 1)
		default:
			atomic.AddUint64(&s.failedSrv, 1)
		}
		return
	}
	s.latencyMu.Lock()
	s.latencyMsMA.Add(float64(time.Since(start)) / float64(time.Millisecond))
	s.latencyMu.Unlock()
}

// GetBenchmarkCmd returns the load-test command. Workloads: "read" hammers
// the paginated clients list, "write" creates clients.
func GetBenchmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Load-test the API with concurrent workers",
		Run: func(cmd *cobra.Command, args []string) {
			workers, err := cmd.Flags().GetInt(FlagBenchWorkers)
			if err != nil {
				log.Fatalf("%s flag: %v", FlagBenchWorkers, err)
			}
			duration, err := cmd.Flags().GetDuration(FlagBenchDuration)
			if err != nil {
				log.Fatalf("%s flag: %v", FlagBenchDuration, err)
			}
			workload, err := cmd.Flags().GetString(FlagBenchWorkload)
			if err != nil {
				log.Fatalf("%s flag: %v", FlagBenchWorkload, err)
			}
			if workload != "read" && workload != "write" {
				log.Fatalf("unknown workload %q", workload)
			}

			log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, workers, duration)

			stats := &benchStats{latencyMsMA: movingaverage.New(200)}
			start := time.Now()

			var wg sync.WaitGroup
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					benchWorker(cmd, workload, start, duration, stats)
				}()
			}
			wg.Wait()

			printBenchResults(workload, time.Since(start), stats)
		},
	}
	cmd.Flags().Int(FlagBenchWorkers, 10, "number of concurrent workers")
	cmd.Flags().Duration(FlagBenchDuration, 30*time.Second, "test duration")
	cmd.Flags().String(FlagBenchWorkload, "read", "workload type: read | write")

	return cmd
}

func benchWorker(cmd *cobra.Command, workload string, start time.Time, duration time.Duration, stats *benchStats) {
	ctx := context.Background()
	c, err := loginFromFlags(cmd)
	if err != nil {
		log.Fatalf("login: %v", err)
	}

	clients := c.ClientsRemote()
	for time.Since(start) < duration {
		began := time.Now()
		switch workload {
		case "read":
			q := domain.ListQuery{Page: rand.Intn(5) + 1, Limit: 20}
			_, err = clients.List(ctx, q)
		case "write":
			_, err = clients.Create(ctx, domain.CreateClientRequest{
				Name:  fmt.Sprintf("bench-%d", time.Now().UnixNano()),
				Email: fmt.Sprintf("bench%d@example.com", time.Now().UnixNano()),
			})
		}
		stats.observe(began, err)
	}
}

func printBenchResults(workload string, d time.Duration, stats *benchStats) {
	total := atomic.LoadUint64(&stats.total)
	results := map[string]interface{}{
		"workload":          workload,
		"duration_sec":      d.Seconds(),
		"total_requests":    total,
		"throughput_rps":    float64(total) / d.Seconds(),
		"avg_latency_ms":    stats.latencyMsMA.Avg(),
		"validation_errors": atomic.LoadUint64(&stats.failedVal),
		"network_errors":    atomic.LoadUint64(&stats.failedNet),
		"server_errors":     atomic.LoadUint64(&stats.failedSrv),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)
}

func init() {
	rootCmd.AddCommand(GetBenchmarkCmd())
}
