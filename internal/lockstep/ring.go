package lockstep

import "github.com/vovakirdan/lockstep-pong/internal/pong"

// DefaultBufferCapacity is the input window in ticks, about two seconds at 60 Hz.
const DefaultBufferCapacity = 128

// slot holds the input for one tick. A consumed slot keeps its input so a
// snapshot that rewinds a few ticks can replay exactly what was already sent,
// and so late duplicates can be checked against what was used.
type slot struct {
	tick     pong.Tick
	input    pong.Input
	present  bool
	consumed bool
}

// inputRing is a fixed-capacity per-tick input buffer indexed by tick % cap.
// A slot is reused once the window has moved a full capacity past it.
type inputRing struct {
	slots []slot
}

func newInputRing(capacity int) *inputRing {
	return &inputRing{slots: make([]slot, capacity)}
}

func (r *inputRing) capacity() int {
	return len(r.slots)
}

func (r *inputRing) at(tick pong.Tick) *slot {
	return &r.slots[int(tick%pong.Tick(len(r.slots)))]
}

// lookup returns the stored input for tick, consumed or not.
func (r *inputRing) lookup(tick pong.Tick) (pong.Input, bool) {
	s := r.at(tick)
	if !s.present || s.tick != tick {
		return pong.Input{}, false
	}
	return s.input, true
}

// pending reports whether tick has an input that has not been consumed.
func (r *inputRing) pending(tick pong.Tick) bool {
	s := r.at(tick)
	return s.present && s.tick == tick && !s.consumed
}

// put stores in for tick, replacing whatever older tick shared the slot.
// It reports false without storing if tick already has an input.
func (r *inputRing) put(tick pong.Tick, in pong.Input) bool {
	s := r.at(tick)
	if s.present && s.tick == tick {
		return false
	}
	*s = slot{tick: tick, input: in, present: true}
	return true
}

// consume marks tick as used by a step.
func (r *inputRing) consume(tick pong.Tick) {
	s := r.at(tick)
	if s.present && s.tick == tick {
		s.consumed = true
	}
}

// rewind marks inputs for ticks in [from, to) as pending again. A rewind by
// a full capacity or more clears the ring instead: nothing it holds can be
// an input for the replayed ticks.
func (r *inputRing) rewind(from, to pong.Tick) {
	if to <= from {
		return
	}
	if to-from >= pong.Tick(len(r.slots)) {
		r.clear()
		return
	}
	for i := range r.slots {
		s := &r.slots[i]
		if s.present && s.tick >= from && s.tick < to {
			s.consumed = false
		}
	}
}

// pendingCount counts unconsumed inputs at or after from.
func (r *inputRing) pendingCount(from pong.Tick) int {
	n := 0
	for _, s := range r.slots {
		if s.present && !s.consumed && s.tick >= from {
			n++
		}
	}
	return n
}

func (r *inputRing) clear() {
	clear(r.slots)
}
