// SPDX-License-Identifier: MIT
package noise

// ApplyStereoWidth blends every channel toward the mono mix:
// out = width·x + (1−width)·mono. Width 1 is a no-op, width 0 makes all
// channels identical. Single-channel buffers are left untouched.
func ApplyStereoWidth(buf *SampleBuffer, width float64) {
	if buf.Channels() < 2 || width == 1 {
		return
	}
	mono := buf.Mono()
	side := 1 - width
	for _, ch := range buf.Data {
		for i := range ch {
			ch[i] = width*ch[i] + side*mono[i]
		}
	}
}
