package simulation

import (
	"context"
	"time"

	"elevsim/source/config"
	"elevsim/source/elevator"
)

type BatchResult struct {
	Trips        int
	Passengers   int
	Queued       int // passengers queued during the batch, before the final drain
	OutOfService int // units out of service when the batch ended
	Elapsed      time.Duration
}

func (s *Service) outOfService() int {
	n := 0
	for _, ok := range s.fleet.InService() {
		if !ok {
			n++
		}
	}
	return n
}

// Requests turns configured trips into validated requests.
func Requests(trips []config.Trip) ([]elevator.Request, error) {
	out := make([]elevator.Request, 0, len(trips))
	for _, t := range trips {
		r, err := elevator.NewRequest(t.From, t.To, t.Passengers)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// RunBatch submits requests one by one, or all at once when concurrent, then
// drains the queue.
func (s *Service) RunBatch(ctx context.Context, requests []elevator.Request, concurrent bool) (BatchResult, error) {
	start := time.Now()
	result := BatchResult{Trips: len(requests)}
	for _, r := range requests {
		result.Passengers += r.Passengers
	}
	Log.Info().
		Int("trips", result.Trips).
		Int("passengers", result.Passengers).
		Int("capacity", s.fleet.TotalCapacity()).
		Bool("concurrent", concurrent).
		Msg("Starting batch")

	if concurrent {
		remainders, err := s.ProcessMultipleConcurrently(ctx, requests)
		for _, n := range remainders {
			result.Queued += n
		}
		if err != nil {
			result.OutOfService = s.outOfService()
			result.Elapsed = time.Since(start)
			return result, err
		}
	} else {
		for i, r := range requests {
			n, err := s.Submit(ctx, r)
			result.Queued += n
			if err != nil {
				result.OutOfService = s.outOfService()
				result.Elapsed = time.Since(start)
				return result, err
			}
			if n > 0 {
				Log.Warn().Int("trip", i+1).Int("passengers", n).Msg("Passengers queued due to capacity limits")
			}
		}
	}

	err := s.DrainQueue(ctx)
	result.OutOfService = s.outOfService()
	result.Elapsed = time.Since(start)
	Log.Info().
		Int("queued", result.Queued).
		Int("out_of_service", result.OutOfService).
		Int("pending", s.queue.PendingCount()).
		Dur("elapsed", result.Elapsed).
		Msg("Batch completed")
	return result, err
}
