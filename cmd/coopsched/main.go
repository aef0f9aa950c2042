package main

import (
	"fmt"
	"sync"
	"time"

	"coopsched/internal/job"
	"coopsched/internal/sched"
)

func main() {
	cfg := sched.Load("config.yml")
	fmt.Printf("loaded config: %+v\n", cfg)

	s := sched.New(cfg, sched.WithLogger(sched.Printf))

	trace, err := sched.NewCSVTrace("events.csv")
	if err != nil {
		fmt.Printf("csv trace disabled: %v\n", err)
	}
	traceDone := make(chan struct{})
	go func() {
		defer close(traceDone)
		if trace != nil {
			trace.Consume(s.StatusChannel())
		} else {
			for range s.StatusChannel() {
			}
		}
	}()

	var wg sync.WaitGroup
	finish := func() { wg.Done() }

	// A chunked Normal-priority job that checkpoints between chunks.
	wg.Add(1)
	s.Schedule(sched.Normal, job.Chunked(40, func(i int) {
		time.Sleep(200 * time.Microsecond) // simulated chunk cost
		if i == 39 {
			finish()
		}
	}, s.ShouldYield))

	// A burst of short user-blocking units.
	for i := 0; i < 5; i++ {
		wg.Add(1)
		n := i
		s.Schedule(sched.UserBlocking, func() sched.Callback {
			fmt.Printf("user-blocking unit %d at %s\n", n, s.Now().Format("15:04:05.000"))
			finish()
			return nil
		})
	}

	// A delayed low-priority job.
	wg.Add(1)
	s.Schedule(sched.Low, func() sched.Callback {
		fmt.Println("delayed low-priority job ran")
		finish()
		return nil
	}, sched.WithDelay(50*time.Millisecond))

	// Idle work picks up once everything above has drained.
	s.Schedule(sched.Idle, job.Busy(time.Millisecond))
	wg.Add(1)
	s.Schedule(sched.Idle, func() sched.Callback {
		finish()
		return nil
	})

	wg.Wait()
	s.Close()
	<-traceDone
	if trace != nil {
		trace.Close()
	}
	fmt.Println("all jobs finished")
}
