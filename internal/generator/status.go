package generator

import (
	"sort"
	"time"

	"ai4l/pkg/types"
)

// Status builds the response for GET /api/status.
func (s *Service) Status() types.StatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := "ready"
	switch {
	case s.closed:
		state = "draining"
	case s.engine.Available() != nil:
		state = "unavailable"
	}
	resp := types.StatusResponse{
		Engine:         s.engine.Name(),
		State:          state,
		GeneratedTotal: s.generated.Load(),
		FailedTotal:    s.failed.Load(),
		LastError:      s.lastErr,
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	resp.Models = make([]types.ModelStatus, 0, len(s.slots))
	for _, sl := range s.slots {
		resp.Models = append(resp.Models, types.ModelStatus{
			ModelID:       sl.modelID,
			QueueLen:      len(sl.queueCh),
			Inflight:      len(sl.genCh),
			MaxQueueDepth: cap(sl.queueCh),
			LastUsed:      sl.lastUsed.Unix(),
		})
	}
	sort.Slice(resp.Models, func(i, j int) bool { return resp.Models[i].ModelID < resp.Models[j].ModelID })
	return resp
}
