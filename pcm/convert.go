package pcm

// Float32ToInt16 converts a normalized sample to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Int16ToFloat32 converts a 16-bit PCM sample to the normalized range.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}
