package algorithms

// BubbleSort sorts data in place, O(n^2).
func BubbleSort(data []int) {
	n := len(data)
	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-1-i; j++ {
			if data[j] > data[j+1] {
				data[j], data[j+1] = data[j+1], data[j]
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

// MergeSort sorts data in place using a single scratch buffer, O(n log n).
func MergeSort(data []int) {
	if len(data) < 2 {
		return
	}
	buf := make([]int, len(data))
	mergeSort(data, buf)
}

func mergeSort(data, buf []int) {
	if len(data) < 2 {
		return
	}

	mid := len(data) / 2
	mergeSort(data[:mid], buf[:mid])
	mergeSort(data[mid:], buf[mid:])

	copy(buf, data)
	left, right := buf[:mid], buf[mid:len(data)]

	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			data[k] = left[i]
			i++
		} else {
			data[k] = right[j]
			j++
		}
		k++
	}
	k += copy(data[k:], left[i:])
	copy(data[k:], right[j:])
}

// QuickSort sorts data in place, O(n log n) on average. The pivot is the
// middle element, so already sorted input does not degrade to O(n^2).
func QuickSort(data []int) {
	quickSort(data, 0, len(data)-1)
}

func quickSort(data []int, lo, hi int) {
	for lo < hi {
		p := partition(data, lo, hi)
		// recurse into the smaller half to bound stack depth
		if p-lo < hi-p {
			quickSort(data, lo, p)
			lo = p + 1
		} else {
			quickSort(data, p+1, hi)
			hi = p
		}
	}
}

// partition is Hoare's scheme; returns j such that data[lo..j] <= data[j+1..hi].
func partition(data []int, lo, hi int) int {
	pivot := data[lo+(hi-lo)/2]
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if data[i] >= pivot {
				break
			}
		}
		for {
			j--
			if data[j] <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		data[i], data[j] = data[j], data[i]
	}
}
