package domain

import (
	"errors"
	"strings"
)

// BodyRegion is the addressing scheme shared by the mesh, the selection
// state and the recommendation catalog. The set of values is closed.
type BodyRegion string

const (
	RegionHead          BodyRegion = "head"
	RegionNeck          BodyRegion = "neck"
	RegionShoulderLeft  BodyRegion = "shoulder_left"
	RegionShoulderRight BodyRegion = "shoulder_right"
	RegionArmUpperLeft  BodyRegion = "arm_upper_left"
	RegionArmUpperRight BodyRegion = "arm_upper_right"
	RegionArmLowerLeft  BodyRegion = "arm_lower_left"
	RegionArmLowerRight BodyRegion = "arm_lower_right"
	RegionHandLeft      BodyRegion = "hand_left"
	RegionHandRight     BodyRegion = "hand_right"
	RegionChest         BodyRegion = "chest"
	RegionAbdomen       BodyRegion = "abdomen"
	RegionBackUpper     BodyRegion = "back_upper"
	RegionBackLower     BodyRegion = "back_lower"
	RegionHipLeft       BodyRegion = "hip_left"
	RegionHipRight      BodyRegion = "hip_right"
	RegionLegUpperLeft  BodyRegion = "leg_upper_left"
	RegionLegUpperRight BodyRegion = "leg_upper_right"
	RegionKneeLeft      BodyRegion = "knee_left"
	RegionKneeRight     BodyRegion = "knee_right"
	RegionLegLowerLeft  BodyRegion = "leg_lower_left"
	RegionLegLowerRight BodyRegion = "leg_lower_right"
	RegionFootLeft      BodyRegion = "foot_left"
	RegionFootRight     BodyRegion = "foot_right"
)

// ErrUnknownRegion is returned when a string is not a member of the region set.
var ErrUnknownRegion = errors.New("unknown body region")

// allRegions is ordered head to toe; callers get a copy from AllRegions.
var allRegions = []BodyRegion{
	RegionHead, RegionNeck,
	RegionShoulderLeft, RegionShoulderRight,
	RegionArmUpperLeft, RegionArmUpperRight,
	RegionArmLowerLeft, RegionArmLowerRight,
	RegionHandLeft, RegionHandRight,
	RegionChest, RegionAbdomen,
	RegionBackUpper, RegionBackLower,
	RegionHipLeft, RegionHipRight,
	RegionLegUpperLeft, RegionLegUpperRight,
	RegionKneeLeft, RegionKneeRight,
	RegionLegLowerLeft, RegionLegLowerRight,
	RegionFootLeft, RegionFootRight,
}

var displayNames = map[BodyRegion]string{
	RegionHead:          "Head",
	RegionNeck:          "Neck",
	RegionShoulderLeft:  "Left Shoulder",
	RegionShoulderRight: "Right Shoulder",
	RegionArmUpperLeft:  "Left Upper Arm",
	RegionArmUpperRight: "Right Upper Arm",
	RegionArmLowerLeft:  "Left Forearm",
	RegionArmLowerRight: "Right Forearm",
	RegionHandLeft:      "Left Hand",
	RegionHandRight:     "Right Hand",
	RegionChest:         "Chest",
	RegionAbdomen:       "Abdomen",
	RegionBackUpper:     "Upper Back",
	RegionBackLower:     "Lower Back",
	RegionHipLeft:       "Left Hip",
	RegionHipRight:      "Right Hip",
	RegionLegUpperLeft:  "Left Thigh",
	RegionLegUpperRight: "Right Thigh",
	RegionKneeLeft:      "Left Knee",
	RegionKneeRight:     "Right Knee",
	RegionLegLowerLeft:  "Left Calf",
	RegionLegLowerRight: "Right Calf",
	RegionFootLeft:      "Left Foot",
	RegionFootRight:     "Right Foot",
}

// AllRegions returns every member of the region set, head to toe.
func AllRegions() []BodyRegion {
	out := make([]BodyRegion, len(allRegions))
	copy(out, allRegions)
	return out
}

// IsValid reports whether r is a member of the closed region set.
func (r BodyRegion) IsValid() bool {
	_, ok := displayNames[r]
	return ok
}

// DisplayName returns a human readable label, e.g. "Left Forearm".
func (r BodyRegion) DisplayName() string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	return "Unknown Region"
}

func (r BodyRegion) String() string {
	return string(r)
}

// ParseRegion validates a raw identifier (as received from a client or a
// scene object name) against the region set.
func ParseRegion(raw string) (BodyRegion, error) {
	r := BodyRegion(strings.TrimSpace(raw))
	if !r.IsValid() {
		return "", ErrUnknownRegion
	}
	return r, nil
}
