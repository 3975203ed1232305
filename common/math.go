package common

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// Progress maps elapsed over total onto [0, 1].
func Progress(elapsed, total float64) float32 {
	if total <= 0 || elapsed >= total {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float32(elapsed / total)
}
