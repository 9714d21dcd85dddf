package anatomy

import (
	"alcyxob/painrelief/internal/domain"
)

// adjacency is the hand-authored neighbour table. Each list starts with the
// region itself. The table is kept symmetric: if A lists B, B lists A.
var adjacency = map[domain.BodyRegion][]domain.BodyRegion{
	// Head and neck
	domain.RegionHead: {domain.RegionHead, domain.RegionNeck},
	domain.RegionNeck: {domain.RegionNeck, domain.RegionHead, domain.RegionShoulderLeft, domain.RegionShoulderRight, domain.RegionBackUpper},

	// Upper limbs
	domain.RegionShoulderLeft:  {domain.RegionShoulderLeft, domain.RegionArmUpperLeft, domain.RegionBackUpper, domain.RegionNeck},
	domain.RegionShoulderRight: {domain.RegionShoulderRight, domain.RegionArmUpperRight, domain.RegionBackUpper, domain.RegionNeck},
	domain.RegionArmUpperLeft:  {domain.RegionArmUpperLeft, domain.RegionShoulderLeft, domain.RegionArmLowerLeft},
	domain.RegionArmUpperRight: {domain.RegionArmUpperRight, domain.RegionShoulderRight, domain.RegionArmLowerRight},
	domain.RegionArmLowerLeft:  {domain.RegionArmLowerLeft, domain.RegionArmUpperLeft, domain.RegionHandLeft},
	domain.RegionArmLowerRight: {domain.RegionArmLowerRight, domain.RegionArmUpperRight, domain.RegionHandRight},
	domain.RegionHandLeft:      {domain.RegionHandLeft, domain.RegionArmLowerLeft},
	domain.RegionHandRight:     {domain.RegionHandRight, domain.RegionArmLowerRight},

	// Torso
	domain.RegionChest:     {domain.RegionChest, domain.RegionBackUpper, domain.RegionAbdomen},
	domain.RegionAbdomen:   {domain.RegionAbdomen, domain.RegionChest, domain.RegionBackLower},
	domain.RegionBackUpper: {domain.RegionBackUpper, domain.RegionNeck, domain.RegionShoulderLeft, domain.RegionShoulderRight, domain.RegionBackLower, domain.RegionChest},
	domain.RegionBackLower: {domain.RegionBackLower, domain.RegionBackUpper, domain.RegionHipLeft, domain.RegionHipRight, domain.RegionAbdomen},

	// Lower limbs
	domain.RegionHipLeft:       {domain.RegionHipLeft, domain.RegionBackLower, domain.RegionLegUpperLeft},
	domain.RegionHipRight:      {domain.RegionHipRight, domain.RegionBackLower, domain.RegionLegUpperRight},
	domain.RegionLegUpperLeft:  {domain.RegionLegUpperLeft, domain.RegionHipLeft, domain.RegionKneeLeft, domain.RegionLegLowerLeft},
	domain.RegionLegUpperRight: {domain.RegionLegUpperRight, domain.RegionHipRight, domain.RegionKneeRight, domain.RegionLegLowerRight},
	domain.RegionKneeLeft:      {domain.RegionKneeLeft, domain.RegionLegUpperLeft, domain.RegionLegLowerLeft},
	domain.RegionKneeRight:     {domain.RegionKneeRight, domain.RegionLegUpperRight, domain.RegionLegLowerRight},
	domain.RegionLegLowerLeft:  {domain.RegionLegLowerLeft, domain.RegionKneeLeft, domain.RegionLegUpperLeft, domain.RegionFootLeft},
	domain.RegionLegLowerRight: {domain.RegionLegLowerRight, domain.RegionKneeRight, domain.RegionLegUpperRight, domain.RegionFootRight},
	domain.RegionFootLeft:      {domain.RegionFootLeft, domain.RegionLegLowerLeft},
	domain.RegionFootRight:     {domain.RegionFootRight, domain.RegionLegLowerRight},
}

// RelatedRegions returns region followed by its anatomical neighbours.
// A region missing from the table degenerates to just itself.
func RelatedRegions(region domain.BodyRegion) []domain.BodyRegion {
	related, ok := adjacency[region]
	if !ok {
		return []domain.BodyRegion{region}
	}
	out := make([]domain.BodyRegion, len(related))
	copy(out, related)
	return out
}

// RegionPair is a directed adjacency edge.
type RegionPair struct {
	From domain.BodyRegion
	To   domain.BodyRegion
}

// AsymmetricPairs lists edges A->B where B does not list A, in head-to-toe
// order. An empty result means the table is symmetric.
func AsymmetricPairs() []RegionPair {
	var out []RegionPair
	for _, from := range domain.AllRegions() {
		for _, to := range RelatedRegions(from)[1:] {
			if !contains(adjacency[to], from) {
				out = append(out, RegionPair{From: from, To: to})
			}
		}
	}
	return out
}

func contains(set []domain.BodyRegion, r domain.BodyRegion) bool {
	for _, s := range set {
		if s == r {
			return true
		}
	}
	return false
}
