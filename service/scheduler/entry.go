package scheduler

// entry tracks one schedulable identifier. seq records arrival order and
// breaks ties deterministically for the priority and fair policies.
type entry struct {
	id        uint32
	priority  uint8
	weight    uint64
	vruntime  uint64 // microseconds, weighted
	seq       uint64
	scheduled uint64 // times this entry was selected
	cpuMicros uint64 // logical CPU time granted, microseconds
}

// priorityToWeight maps the 0-255 priority range onto proportional-share
// tiers. Higher weight slows virtual-runtime growth, earning more turns.
func priorityToWeight(priority uint8) uint64 {
	switch {
	case priority < 85:
		return 50
	case priority < 170:
		return 100
	default:
		return 200
	}
}

func (e *entry) setPriority(priority uint8) {
	e.priority = priority
	e.weight = priorityToWeight(priority)
}

// charge advances the virtual runtime by one quantum scaled by weight.
func (e *entry) charge(quantumMicros uint64) {
	e.vruntime += quantumMicros * 100 / e.weight
}
