package geometry

import "math"

// Quickselect partially sorts s[left:right+1] in place so that s[k] holds
// the element that would be there after a full sort, every element in
// s[left:k] compares less than or equal to it, and every element in
// s[k+1:right+1] compares greater than or equal to it.
//
// It uses the Floyd-Rivest selection algorithm, which recurses on a sample
// of the range when the range is large.
func Quickselect[T any](s []T, k, left, right int, compare func(a, b T) int) {
	for right > left {
		if right-left > 600 {
			n := float64(right - left + 1)
			m := float64(k - left + 1)
			z := math.Log(n)
			sz := 0.5 * math.Exp(2*z/3)

			sign := 1.0
			if m-n/2 < 0 {
				sign = -1
			}

			sd := 0.5 * math.Sqrt(z*sz*(n-sz)/n) * sign
			newLeft := max(left, int(math.Floor(float64(k)-m*sz/n+sd)))
			newRight := min(right, int(math.Floor(float64(k)+(n-m)*sz/n+sd)))
			Quickselect(s, k, newLeft, newRight, compare)
		}

		t := s[k]
		i, j := left, right

		s[left], s[k] = s[k], s[left]
		if compare(s[right], t) > 0 {
			s[left], s[right] = s[right], s[left]
		}

		for i < j {
			s[i], s[j] = s[j], s[i]
			i++
			j--

			for compare(s[i], t) < 0 {
				i++
			}

			for compare(s[j], t) > 0 {
				j--
			}
		}

		if compare(s[left], t) == 0 {
			s[left], s[j] = s[j], s[left]
		} else {
			j++
			s[j], s[right] = s[right], s[j]
		}

		if j <= k {
			left = j + 1
		}

		if k <= j {
			right = j - 1
		}
	}
}
