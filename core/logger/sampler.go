package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// sampler lets keep out of every consecutive events through. A zero ratio
// disables sampling.
type sampler struct {
	ratio atomic.Uint64 // keep<<32 | every
	seen  atomic.Uint64
}

func (s *sampler) set(keep, every int) {
	if keep <= 0 || every <= 0 {
		s.ratio.Store(0)
	} else {
		keep = min(keep, every)
		s.ratio.Store(uint64(keep)<<32 | uint64(uint32(every)))
	}
	s.seen.Store(0)
}

func (s *sampler) allow() bool {
	r := s.ratio.Load()
	keep, every := r>>32, r&0xffffffff
	if keep == 0 || every == 0 {
		return true
	}
	return (s.seen.Add(1)-1)%every < keep
}

// parseSampleSpec accepts "keep/every" or a bare "every" meaning 1/every.
// "0" turns sampling off.
func parseSampleSpec(spec string) (keep, every int, ok bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, false
	}
	if a, b, found := strings.Cut(spec, "/"); found {
		k, err1 := strconv.Atoi(strings.TrimSpace(a))
		e, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil || k <= 0 || e <= 0 {
			return 0, 0, false
		}
		return k, e, true
	}
	e, err := strconv.Atoi(spec)
	switch {
	case err != nil || e < 0:
		return 0, 0, false
	case e == 0:
		return 0, 0, true
	}
	return 1, e, true
}
