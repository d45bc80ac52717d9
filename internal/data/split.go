package data

import "math/rand"

// StratifiedSplit shuffles each label group and puts trainFrac of every group
// into the training set, so both sides keep the original class ratio.
func StratifiedSplit(d Dataset, trainFrac float64, rng *rand.Rand) (train, test Dataset) {
	groups := map[int][]int{}
	for i, l := range d.Y {
		groups[l] = append(groups[l], i)
	}
	var trainIdx, testIdx []int
	for _, label := range d.Labels() {
		idx := groups[label]
		perm := rng.Perm(len(idx))
		cut := int(trainFrac * float64(len(idx)))
		for k, p := range perm {
			if k < cut {
				trainIdx = append(trainIdx, idx[p])
			} else {
				testIdx = append(testIdx, idx[p])
			}
		}
	}
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
	return d.Subset(trainIdx), d.Subset(testIdx)
}
