package analysis

import (
	"math"
	"sort"
)

// Race distances of the VDOT table columns, in meters
var vdotDistances = [6]float64{1500, 1609.34, 5000, 10000, DistanceHalfMarathon, DistanceMarathon}

// vdotRow holds the equivalent race times, in seconds, for one VDOT value.
// Times follow vdotDistances.
type vdotRow struct {
	vdot  float64
	times [6]float64
}

// Jack Daniels' running formula, VDOT 30 to 85
var vdotTable = []vdotRow{
	{30, [6]float64{510, 552, 1860, 3876, 8388, 17496}},
	{31, [6]float64{496, 536, 1806, 3762, 8136, 16980}},
	{32, [6]float64{482, 521, 1752, 3654, 7896, 16488}},
	{33, [6]float64{469, 507, 1704, 3552, 7674, 16020}},
	{34, [6]float64{457, 494, 1656, 3450, 7458, 15570}},
	{35, [6]float64{445, 481, 1614, 3360, 7254, 15138}},
	{36, [6]float64{434, 469, 1572, 3270, 7062, 14730}},
	{37, [6]float64{423, 457, 1530, 3186, 6876, 14334}},
	{38, [6]float64{413, 446, 1494, 3102, 6702, 13956}},
	{39, [6]float64{403, 435, 1458, 3024, 6534, 13596}},
	{40, [6]float64{394, 425, 1422, 2952, 6372, 13248}},
	{41, [6]float64{385, 416, 1392, 2880, 6222, 12918}},
	{42, [6]float64{376, 406, 1356, 2814, 6078, 12600}},
	{43, [6]float64{368, 398, 1326, 2748, 5940, 12300}},
	{44, [6]float64{360, 389, 1296, 2688, 5802, 12006}},
	{45, [6]float64{352, 381, 1266, 2628, 5676, 11730}},
	{46, [6]float64{345, 373, 1242, 2568, 5550, 11460}},
	{47, [6]float64{338, 365, 1212, 2514, 5430, 11202}},
	{48, [6]float64{331, 358, 1188, 2460, 5316, 10956}},
	{49, [6]float64{324, 351, 1164, 2412, 5208, 10722}},
	{50, [6]float64{318, 344, 1140, 2364, 5100, 10494}},
	{51, [6]float64{312, 337, 1116, 2316, 4998, 10278}},
	{52, [6]float64{306, 331, 1098, 2274, 4902, 10068}},
	{53, [6]float64{300, 325, 1074, 2232, 4806, 9870}},
	{54, [6]float64{295, 319, 1056, 2190, 4716, 9678}},
	{55, [6]float64{290, 313, 1038, 2154, 4632, 9492}},
	{56, [6]float64{285, 308, 1020, 2112, 4548, 9312}},
	{57, [6]float64{280, 302, 1002, 2076, 4470, 9144}},
	{58, [6]float64{275, 297, 984, 2040, 4392, 8976}},
	{59, [6]float64{270, 292, 972, 2010, 4320, 8820}},
	{60, [6]float64{266, 288, 954, 1974, 4248, 8664}},
	{61, [6]float64{262, 283, 942, 1944, 4182, 8520}},
	{62, [6]float64{258, 279, 924, 1914, 4116, 8376}},
	{63, [6]float64{254, 274, 912, 1884, 4050, 8238}},
	{64, [6]float64{250, 270, 900, 1860, 3990, 8106}},
	{65, [6]float64{246, 266, 888, 1830, 3930, 7980}},
	{66, [6]float64{242, 262, 876, 1806, 3876, 7860}},
	{67, [6]float64{239, 258, 864, 1782, 3822, 7740}},
	{68, [6]float64{235, 254, 852, 1758, 3768, 7626}},
	{69, [6]float64{232, 251, 840, 1734, 3720, 7518}},
	{70, [6]float64{229, 247, 834, 1716, 3672, 7410}},
	{71, [6]float64{226, 244, 822, 1692, 3624, 7308}},
	{72, [6]float64{223, 241, 810, 1674, 3582, 7212}},
	{73, [6]float64{220, 238, 804, 1656, 3540, 7116}},
	{74, [6]float64{217, 235, 792, 1632, 3498, 7026}},
	{75, [6]float64{214, 232, 786, 1614, 3456, 6936}},
	{76, [6]float64{212, 229, 774, 1596, 3420, 6852}},
	{77, [6]float64{209, 226, 768, 1578, 3384, 6768}},
	{78, [6]float64{206, 223, 756, 1560, 3348, 6690}},
	{79, [6]float64{204, 221, 750, 1548, 3312, 6612}},
	{80, [6]float64{201, 218, 744, 1530, 3282, 6540}},
	{81, [6]float64{199, 215, 738, 1518, 3246, 6468}},
	{82, [6]float64{197, 213, 726, 1500, 3216, 6396}},
	{83, [6]float64{194, 210, 720, 1488, 3186, 6330}},
	{84, [6]float64{192, 208, 714, 1470, 3156, 6264}},
	{85, [6]float64{190, 206, 708, 1458, 3126, 6198}},
}

// RacePrediction is an equivalent race time for a VDOT
type RacePrediction struct {
	Name     string
	Distance float64 // meters
	Seconds  int
}

var predictedRaces = []struct {
	name     string
	distance float64
}{
	{"5 km", 5000},
	{"10 km", 10000},
	{"Half marathon", DistanceHalfMarathon},
	{"Marathon", DistanceMarathon},
}

// timeAt returns the row's time for any distance. Table distances within 5 %
// use their column, others are interpolated on a log-log scale between the
// nearest columns.
func (r vdotRow) timeAt(distance float64) float64 {
	for i, d := range vdotDistances {
		if math.Abs(distance-d) <= d*0.05 {
			return r.times[i]
		}
	}

	hi := sort.SearchFloat64s(vdotDistances[:], distance)
	hi = min(max(hi, 1), len(vdotDistances)-1)
	lo := hi - 1

	ratio := math.Log(distance/vdotDistances[lo]) / math.Log(vdotDistances[hi]/vdotDistances[lo])
	return math.Exp(math.Log(r.times[lo]) + ratio*(math.Log(r.times[hi])-math.Log(r.times[lo])))
}

// EstimateVDOT derives a VDOT from a performance over distance meters, rounded
// to one decimal and clamped to the table range. It returns 0 for a
// non-positive duration.
func EstimateVDOT(distance float64, seconds int) float64 {
	if seconds <= 0 || distance <= 0 {
		return 0
	}
	t := float64(seconds)

	last := len(vdotTable) - 1
	if t >= vdotTable[0].timeAt(distance) {
		return vdotTable[0].vdot
	}
	if t <= vdotTable[last].timeAt(distance) {
		return vdotTable[last].vdot
	}

	// First row at least as fast as t; times shrink as VDOT grows
	hi := sort.Search(len(vdotTable), func(i int) bool {
		return vdotTable[i].timeAt(distance) <= t
	})
	lo := hi - 1

	slow, fast := vdotTable[lo].timeAt(distance), vdotTable[hi].timeAt(distance)
	if slow == fast {
		return vdotTable[lo].vdot
	}
	v := vdotTable[lo].vdot + (slow-t)/(slow-fast)*(vdotTable[hi].vdot-vdotTable[lo].vdot)
	return math.Round(v*10) / 10
}

// PredictRaceTime returns the equivalent time in seconds over distance for a VDOT
func PredictRaceTime(vdot, distance float64) int {
	if vdot <= 0 || distance <= 0 {
		return 0
	}

	last := len(vdotTable) - 1
	switch {
	case vdot <= vdotTable[0].vdot:
		return int(math.Round(vdotTable[0].timeAt(distance)))
	case vdot >= vdotTable[last].vdot:
		return int(math.Round(vdotTable[last].timeAt(distance)))
	}

	hi := sort.Search(len(vdotTable), func(i int) bool { return vdotTable[i].vdot > vdot })
	lo := hi - 1
	frac := (vdot - vdotTable[lo].vdot) / (vdotTable[hi].vdot - vdotTable[lo].vdot)
	slow, fast := vdotTable[lo].timeAt(distance), vdotTable[hi].timeAt(distance)
	return int(math.Round(slow + frac*(fast-slow)))
}

// PredictRaces returns equivalent times for the standard road races
func PredictRaces(vdot float64) []RacePrediction {
	if vdot <= 0 {
		return nil
	}
	predictions := make([]RacePrediction, 0, len(predictedRaces))
	for _, r := range predictedRaces {
		predictions = append(predictions, RacePrediction{
			Name:     r.name,
			Distance: r.distance,
			Seconds:  PredictRaceTime(vdot, r.distance),
		})
	}
	return predictions
}

// BestVDOT returns the highest VDOT among run efforts of at least 1500 m,
// with the effort it came from
func BestVDOT(efforts []*Effort) (float64, *Effort) {
	var best float64
	var source *Effort
	for _, e := range efforts {
		if e == nil || e.Distance < vdotDistances[0]*0.95 || e.Seconds <= 0 {
			continue
		}
		if v := EstimateVDOT(e.Distance, e.Seconds); v > best {
			best, source = v, e
		}
	}
	return best, source
}

// VDOTLevel names the fitness level of a VDOT
func VDOTLevel(vdot float64) string {
	switch {
	case vdot >= 75:
		return "Elite"
	case vdot >= 65:
		return "Highly competitive"
	case vdot >= 55:
		return "Competitive"
	case vdot >= 45:
		return "Advanced recreational"
	case vdot >= 38:
		return "Intermediate"
	case vdot >= 30:
		return "Beginner"
	default:
		return "Novice"
	}
}
