package distance

// Envelope holds the LB_Keogh upper and lower envelopes of a series at a
// given warping band: Upper[i] = max(S[i-w..i+w]), Lower[i] = min(S[i-w..
// i+w]), clipped to valid indices.
type Envelope struct {
	Upper, Lower []float64
}

// KeoghEnvelope computes Upper and Lower for series at band w in O(len(
// series)) using a monotonic deque per side, rather than the naive O(len *
// w) sliding-window scan.
func KeoghEnvelope(series []float64, band int) Envelope {
	return slidingMinMax(series, band)
}

// slidingMinMax computes, for every index i, the max/min of series over
// the clipped window [i-band, i+band] using the standard two-pointer
// monotonic-deque technique (each index enters and leaves each deque at
// most once, so this is O(n) total).
func slidingMinMax(series []float64, band int) Envelope {
	n := len(series)
	upper := make([]float64, n)
	lower := make([]float64, n)
	if n == 0 {
		return Envelope{Upper: upper, Lower: lower}
	}

	maxDeque := make([]int, 0, n)
	minDeque := make([]int, 0, n)
	addIdx := 0

	for i := 0; i < n; i++ {
		hi := i + band
		if hi >= n {
			hi = n - 1
		}
		for addIdx <= hi {
			for len(maxDeque) > 0 && series[maxDeque[len(maxDeque)-1]] <= series[addIdx] {
				maxDeque = maxDeque[:len(maxDeque)-1]
			}
			maxDeque = append(maxDeque, addIdx)
			for len(minDeque) > 0 && series[minDeque[len(minDeque)-1]] >= series[addIdx] {
				minDeque = minDeque[:len(minDeque)-1]
			}
			minDeque = append(minDeque, addIdx)
			addIdx++
		}

		lo := i - band
		for len(maxDeque) > 0 && maxDeque[0] < lo {
			maxDeque = maxDeque[1:]
		}
		for len(minDeque) > 0 && minDeque[0] < lo {
			minDeque = minDeque[1:]
		}

		upper[i] = series[maxDeque[0]]
		lower[i] = series[minDeque[0]]
	}
	return Envelope{Upper: upper, Lower: lower}
}
