package threadpool

// NumThreads returns the pool size for the given core count.
//
//	1 core  -> 1 thread
//	2 cores -> 2 threads
//	4 cores -> 3 threads
//	8 cores -> 4 threads
//	more, half of the cores
func NumThreads(cores int, capped bool) int {
	if cores < 1 {
		cores = 1
	}
	if !capped {
		return cores
	}
	switch {
	case cores <= 3:
		return cores
	case cores <= 5:
		return 3
	default:
		return cores / 2
	}
}

// CapEnabled reports whether the mobile cap applies on goos.
func CapEnabled(goos string, androidCap, iosCap bool) bool {
	switch goos {
	case "android":
		return androidCap
	case "ios":
		return iosCap
	default:
		return false
	}
}
