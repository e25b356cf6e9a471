package simulation

import "sort"

// DepletionRisk is the fraction of paths whose balance ever reaches zero.
func DepletionRisk(paths [][]float64) float64 {
	if len(paths) == 0 {
		return 0
	}
	depleted := 0
	for _, path := range paths {
		for _, value := range path {
			if value <= 0 {
				depleted++
				break
			}
		}
	}
	return float64(depleted) / float64(len(paths))
}

// MedianFinal is the median of the paths' final balances.
func MedianFinal(paths [][]float64) float64 {
	if len(paths) == 0 {
		return 0
	}
	finals := make([]float64, 0, len(paths))
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		finals = append(finals, path[len(path)-1])
	}
	if len(finals) == 0 {
		return 0
	}
	sort.Float64s(finals)
	mid := len(finals) / 2
	if len(finals)%2 == 1 {
		return finals[mid]
	}
	return (finals[mid-1] + finals[mid]) / 2
}
