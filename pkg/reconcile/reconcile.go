package reconcile

import (
	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
)

// DefaultIoUThreshold is the spatial-overlap ratio above which two
// detections of the same class are treated as the same physical object.
const DefaultIoUThreshold = 0.4

// Stats counts what the merge skipped, for diagnostics. A malformed
// detection never aborts the run.
type Stats struct {
	SkippedPrimary   int `json:"skipped_primary"`
	SkippedSecondary int `json:"skipped_secondary"`
	MergedPairs      int `json:"merged_pairs"`
}

// Merge combines the result lists of two independent detectors into one
// deduplicated, provenance-tracked list.
//
// Secondary detections are walked in their original order. Each is compared
// by mask IoU against every unclaimed primary detection of the same class
// (classes never merge across, a door is never a window). The best match at
// or above the threshold forms a duplicate pair: the higher-confidence side
// is kept (ties favor primary), the primary index is claimed, and one
// reconciled detection with merged provenance is emitted. Unmatched
// secondary detections are emitted as secondary-only; after the walk every
// unclaimed primary detection is emitted as primary-only. Each raw detection
// contributes to at most one reconciled detection.
//
// Zero-area regions and detections without a class are skipped and counted
// in Stats. An empty secondary list degenerates to a passthrough of primary,
// which is an expected condition when the local detector is unavailable.
// Iteration order is fixed, so identical input yields identical output.
func Merge(primary, secondary []entity.Detection, iouThreshold float64) ([]entity.ReconciledDetection, Stats) {
	if iouThreshold <= 0 {
		iouThreshold = DefaultIoUThreshold
	}

	var stats Stats
	out := make([]entity.ReconciledDetection, 0, len(primary)+len(secondary))

	usablePrimary := make([]bool, len(primary))
	for i, d := range primary {
		if isUsable(d) {
			usablePrimary[i] = true
		} else {
			stats.SkippedPrimary++
		}
	}

	claimed := make([]bool, len(primary))

	for _, sec := range secondary {
		if !isUsable(sec) {
			stats.SkippedSecondary++
			continue
		}

		bestIdx := -1
		bestIoU := 0.0
		secRegion := sec.Region()

		for i, prim := range primary {
			if !usablePrimary[i] || claimed[i] || prim.Class != sec.Class {
				continue
			}

			iou := geometry.MaskIoU(secRegion, prim.Region())
			if iou > bestIoU {
				bestIoU = iou
				bestIdx = i
			}
		}

		if bestIdx >= 0 && bestIoU >= iouThreshold {
			claimed[bestIdx] = true
			stats.MergedPairs++

			winner := primary[bestIdx]
			if sec.Confidence > winner.Confidence {
				winner = sec
			}

			out = append(out, entity.ReconciledDetection{
				Detection:  winner,
				Provenance: entity.ProvenanceMerged,
				Sources:    []entity.Source{entity.SourcePrimary, entity.SourceSecondary},
			})
			continue
		}

		out = append(out, entity.ReconciledDetection{
			Detection:  sec,
			Provenance: entity.ProvenanceSecondary,
			Sources:    []entity.Source{entity.SourceSecondary},
		})
	}

	for i, prim := range primary {
		if !usablePrimary[i] || claimed[i] {
			continue
		}
		out = append(out, entity.ReconciledDetection{
			Detection:  prim,
			Provenance: entity.ProvenancePrimary,
			Sources:    []entity.Source{entity.SourcePrimary},
		})
	}

	return out, stats
}

// isUsable rejects detections that cannot participate in spatial matching:
// no class label, no region, or a region with zero area (IoU is undefined
// for them).
func isUsable(d entity.Detection) bool {
	if d.Class == "" {
		return false
	}
	region := d.Region()
	if len(region) < 3 {
		return false
	}
	return geometry.PolygonArea(region) > 0
}
