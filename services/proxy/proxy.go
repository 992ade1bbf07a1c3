package proxy

import (
	"net"
	"sort"
	"sync"
	"time"

	"compscout/scraper/logger"
)

// Info holds one proxy's probe result.
type Info struct {
	Addr     string        `json:"addr"`
	Latency  time.Duration `json:"latency"`
	LastTest time.Time     `json:"last_test"`
	Working  bool          `json:"working"`
}

// Selector picks the fastest working proxy from an operator-configured set.
// Addresses are probed concurrently with a plain TCP dial; results are kept
// until they go stale so consecutive fetch sessions reuse one probe round.
type Selector struct {
	addrs  []string
	probe  func(addr string, timeout time.Duration) (time.Duration, error)
	maxAge time.Duration
	log    *logger.Logger

	mu       sync.RWMutex
	results  []Info
	lastTest time.Time
}

// NewSelector creates a selector over the given proxy addresses. An empty
// set means proxying is disabled.
func NewSelector(addrs []string) *Selector {
	return &Selector{
		addrs:  addrs,
		probe:  dialProbe,
		maxAge: 30 * time.Minute,
		log:    logger.ForProxy(),
	}
}

// Enabled reports whether any proxies are configured.
func (s *Selector) Enabled() bool {
	return s != nil && len(s.addrs) > 0
}

// Refresh probes every configured address and records the results sorted by
// latency, working proxies first.
func (s *Selector) Refresh(timeout time.Duration) {
	results := make([]Info, len(s.addrs))

	var wg sync.WaitGroup
	for i, addr := range s.addrs {
		wg.Add(1)
		go func(i int, addr string) {
			defer wg.Done()

			latency, err := s.probe(addr, timeout)
			results[i] = Info{
				Addr:     addr,
				Latency:  latency,
				LastTest: time.Now(),
				Working:  err == nil,
			}
			if err != nil {
				s.log.Debug().Str("addr", addr).Err(err).Msg("proxy probe failed")
			}
		}(i, addr)
	}
	wg.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Working != results[b].Working {
			return results[a].Working
		}
		return results[a].Latency < results[b].Latency
	})

	working := 0
	for _, r := range results {
		if r.Working {
			working++
		}
	}
	s.log.Info().Int("configured", len(results)).Int("working", working).Msg("proxy probe round finished")

	s.mu.Lock()
	s.results = results
	s.lastTest = time.Now()
	s.mu.Unlock()
}

// Fastest returns the lowest-latency working proxy, probing first when no
// fresh results exist. false means no configured proxy is reachable.
func (s *Selector) Fastest(timeout time.Duration) (string, bool) {
	if !s.Enabled() {
		return "", false
	}

	s.mu.RLock()
	stale := len(s.results) == 0 || time.Since(s.lastTest) > s.maxAge
	s.mu.RUnlock()

	if stale {
		s.Refresh(timeout)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.results) > 0 && s.results[0].Working {
		return s.results[0].Addr, true
	}
	return "", false
}

// Results returns a copy of the last probe round, for diagnostics.
func (s *Selector) Results() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, len(s.results))
	copy(out, s.results)
	return out
}

// dialProbe measures connect latency with a plain TCP dial. A proxy that
// does not accept connections is useless no matter what protocol it speaks.
func dialProbe(addr string, timeout time.Duration) (time.Duration, error) {
	start := time.Now()
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return 0, err
	}
	conn.Close()
	return time.Since(start), nil
}
