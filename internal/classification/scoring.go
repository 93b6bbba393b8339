package classification

// ReliabilityFloor is the confidence below which tier depth earns no bonus.
// Under the floor, rewarding depth would let an uncertain-but-specific guess
// outrank a confident-but-shallow one.
const ReliabilityFloor = 0.7

// DefaultGranularityBonus is the per-tier score bonus above the floor.
const DefaultGranularityBonus = 0.05

// GranularityScore maps raw confidence and tier depth to the comparable
// ranking score. Above the reliability floor, depth can legitimately flip
// ordering: 0.95 at depth 3 scores 1.10 and outranks 0.999 at depth 2
// (1.099). The score is used only for ranking, never surfaced as
// confidence.
func GranularityScore(confidence float64, tierDepth int, bonus float64) float64 {
	if confidence >= ReliabilityFloor {
		return confidence + float64(tierDepth)*bonus
	}
	return confidence
}
