package algorithms

// NotFound is returned by the search functions when the target is absent.
const NotFound = -1

// LinearSearch scans data front to back, O(n).
func LinearSearch(data []int, target int) int {
	for i, v := range data {
		if v == target {
			return i
		}
	}
	return NotFound
}

// BinarySearch requires data in ascending order, O(log n).
func BinarySearch(data []int, target int) int {
	left, right := 0, len(data)-1
	for left <= right {
		mid := left + (right-left)/2
		switch {
		case data[mid] == target:
			return mid
		case data[mid] < target:
			left = mid + 1
		default:
			right = mid - 1
		}
	}
	return NotFound
}
