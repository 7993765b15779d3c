package motion

// MapRange linearly maps v from [inLo, inHi] onto [outLo, outHi].
func MapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	return outLo + (v-inLo)*(outHi-outLo)/(inHi-inLo)
}

// IndependentDelta maps one noise sample per axis onto the asymmetric range
// [-activity*bias, activity].
func IndependentDelta(n Vec, activity, bias float64) Vec {
	return Vec{
		X: MapRange(n.X, 0, 1, -activity*bias, activity),
		Y: MapRange(n.Y, 0, 1, -activity*bias, activity),
	}
}

// CooperativeDelta picks, per axis, the candidate that moves self toward
// other when attract is set and away from it otherwise. The favoured
// direction has its range end stretched by rate.
func CooperativeDelta(n Vec, activity, bias, rate float64, attract bool, self, other Vec) Vec {
	toRight := MapRange(n.X, 0, 1, -activity*bias, activity*rate)
	toLeft := MapRange(n.X, 0, 1, -activity*bias*rate, activity)
	toBottom := MapRange(n.Y, 0, 1, -activity*bias, activity*rate)
	toTop := MapRange(n.Y, 0, 1, -activity*bias*rate, activity)

	onRight, onLeft := toRight, toLeft
	onBottom, onTop := toBottom, toTop
	if attract {
		onRight, onLeft = toLeft, toRight
		onBottom, onTop = toTop, toBottom
	}

	var d Vec
	if self.X > other.X {
		d.X = onRight
	} else {
		d.X = onLeft
	}
	if self.Y > other.Y {
		d.Y = onBottom
	} else {
		d.Y = onTop
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
