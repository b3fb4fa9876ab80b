// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package qsort provides quicksort and quickselect over any ordered type,
// used by the median filter (C3) to find the order statistic of a pixel
// window without a full sort.
package qsort

import "cmp"

// Sort an array in ascending order. Array must not contain IEEE NaN.
func QSort[T cmp.Ordered](a []T) {
	if len(a) > 1 {
		index := QPartition(a)
		QSort(a[:index+1])
		QSort(a[index+1:])
	}
}

// Partitions an array around its middle element as pivot, and returns a split index r:
// every element of a[:r+1] is <= pivot and every element of a[r+1:] is >= pivot.
// Array must not contain IEEE NaN.
func QPartition[T cmp.Ordered](a []T) int {
	left, right := 0, len(a)-1
	mid := (left + right) >> 1
	pivot := a[mid]
	l := left - 1
	r := right + 1
	for {
		for {
			l++
			if a[l] >= pivot {
				break
			}
		}
		for {
			r--
			if a[r] <= pivot {
				break
			}
		}
		if l >= r {
			return r
		}
		a[l], a[r] = a[r], a[l]
	}
}

// Select first quartile of an array. Partially reorders the array.
// Array must not contain IEEE NaN.
func QSelectFirstQuartile[T cmp.Ordered](a []T) T {
	return QSelect(a, (len(a)>>2)+1)
}

// Select median of an array. Partially reorders the array.
// Array must not contain IEEE NaN.
func QSelectMedian[T cmp.Ordered](a []T) T {
	return QSelect(a, (len(a)>>1)+1)
}

// Select kth lowest element (1-based) from an array. Partially reorders the array.
// Array must not contain IEEE NaN.
func QSelect[T cmp.Ordered](a []T, k int) T {
	left, right := 0, len(a)-1
	for left < right {
		mid := (left + right) >> 1
		pivot := a[mid]
		l, r := left-1, right+1
		for {
			for {
				l++
				if a[l] >= pivot {
					break
				}
			}
			for {
				r--
				if a[r] <= pivot {
					break
				}
			}
			if l >= r {
				break // index in r
			}
			a[l], a[r] = a[r], a[l]
		}
		index := r

		offset := index - left + 1
		if k <= offset {
			right = index
		} else {
			left = index + 1
			k = k - offset
		}
	}
	return a[left]
}

// Calculates the median of a slice of length nine via a fixed sorting network.
// Modifies the elements in place.
// From https://stackoverflow.com/questions/45453537/optimal-9-element-sorting-network-that-reduces-to-an-optimal-median-of-9-network
// See also http://ndevilla.free.fr/median/median/src/optmed.c for other sizes.
// Array must not contain IEEE NaN.
func MedianOfNine[T cmp.Ordered](a []T) T { // 30x min/max
	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	}
	if a[3] > a[4] {
		a[3], a[4] = a[4], a[3]
	}
	if a[6] > a[7] {
		a[6], a[7] = a[7], a[6]
	}
	if a[1] > a[2] {
		a[1], a[2] = a[2], a[1]
	}
	if a[4] > a[5] {
		a[4], a[5] = a[5], a[4]
	}
	if a[7] > a[8] {
		a[7], a[8] = a[8], a[7]
	}
	if a[0] > a[1] {
		a[0], a[1] = a[1], a[0]
	}
	if a[3] > a[4] {
		a[3], a[4] = a[4], a[3]
	}
	if a[6] > a[7] {
		a[6], a[7] = a[7], a[6]
	}
	if a[0] > a[3] {
		a[3] = a[0]
	}
	if a[3] > a[6] {
		a[6] = a[3]
	}
	if a[1] > a[4] {
		a[1], a[4] = a[4], a[1]
	}
	if a[4] > a[7] {
		a[4] = a[7]
	}
	if a[1] > a[4] {
		a[4] = a[1]
	}
	if a[5] > a[8] {
		a[5] = a[8]
	}
	if a[2] > a[5] {
		a[2] = a[5]
	}
	if a[2] > a[4] {
		a[2], a[4] = a[4], a[2]
	}
	if a[4] > a[6] {
		a[4] = a[6]
	}
	if a[2] > a[4] {
		a[4] = a[2]
	}
	return a[4]
}

// Calculates the median of a slice of any length. Modifies the elements in place.
// Array must not contain IEEE NaN.
func Median[T cmp.Ordered](a []T) T {
	switch len(a) {
	case 0:
		var zero T
		return zero
	case 9:
		return MedianOfNine(a)
	default:
		return QSelectMedian(a)
	}
}
