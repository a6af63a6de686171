// Package intarr computes duplicate statistics and the de-duplicated
// ordering of a ';'-delimited list of integers.
//
// The pipeline is Tokenize -> CountFrequencies -> ClassifyDuplicates, with
// BuildUniqueOrder running off the same number sequence; Format joins both
// results into a single summary line such as "2; 5; 6; 5; 2; 6; 10".
package intarr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/CodeMonkeyCybersecurity/intarr/pkg/types"
)

// EmptyInputOutput is returned verbatim for a zero-length input.
const EmptyInputOutput = "0; 0; 0"

const separator = "; "

// DuplicateStats describes the values that occur more than once.
type DuplicateStats struct {
	// Duplicates holds each repeated value once, in first-appearance order.
	Duplicates []int
	Lowest     int
	Highest    int
}

// Count is the number of distinct duplicated values.
func (s DuplicateStats) Count() int {
	return len(s.Duplicates)
}

// CountFrequencies returns the number of occurrences of every value.
func CountFrequencies(numbers []int) map[int]int {
	freq := make(map[int]int, len(numbers))
	for _, n := range numbers {
		freq[n]++
	}
	return freq
}

// ClassifyDuplicates scans numbers left to right and collects every value
// whose frequency is above one. Lowest and Highest range over the distinct
// duplicated values and are both 0 when nothing repeats.
func ClassifyDuplicates(numbers []int, freq map[int]int) DuplicateStats {
	stats := DuplicateStats{Duplicates: []int{}}
	added := make(map[int]bool)

	for _, n := range numbers {
		if freq[n] <= 1 || added[n] {
			continue
		}
		added[n] = true

		if len(stats.Duplicates) == 0 {
			stats.Lowest, stats.Highest = n, n
		} else {
			stats.Lowest = min(stats.Lowest, n)
			stats.Highest = max(stats.Highest, n)
		}
		stats.Duplicates = append(stats.Duplicates, n)
	}

	return stats
}

// BuildUniqueOrder returns every distinct value of numbers exactly once,
// first in order of first appearance and then reordered per mode.
func BuildUniqueOrder(numbers []int, mode types.OrderMode) []int {
	seen := make(map[int]bool, len(numbers))
	unique := make([]int, 0, len(numbers))

	for _, n := range numbers {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}

	return applyOrder(unique, mode)
}

func applyOrder(values []int, mode types.OrderMode) []int {
	switch mode {
	case types.OrderAscending:
		sort.SliceStable(values, func(i, j int) bool { return values[i] < values[j] })
	case types.OrderDescending:
		sort.SliceStable(values, func(i, j int) bool { return values[i] > values[j] })
	}
	return values
}

// Format renders "<count>; <lowest>; <highest>; <v1>; ...; <vn>". The
// separator after the three stats is always written, so an empty unique list
// yields "0; 0; 0; ".
func Format(stats DuplicateStats, unique []int) string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(stats.Count()))
	b.WriteString(separator)
	b.WriteString(strconv.Itoa(stats.Lowest))
	b.WriteString(separator)
	b.WriteString(strconv.Itoa(stats.Highest))
	b.WriteString(separator)

	for i, n := range unique {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}

// Analyze runs the whole pipeline on raw and returns the structured result.
// Nothing is returned alongside an error.
func Analyze(raw string, mode types.OrderMode) (*types.Summary, error) {
	if raw == "" {
		return &types.Summary{
			Input:      raw,
			Mode:       mode,
			Duplicates: []int{},
			Unique:     []int{},
			Empty:      true,
			Output:     EmptyInputOutput,
		}, nil
	}

	numbers, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}

	freq := CountFrequencies(numbers)
	stats := ClassifyDuplicates(numbers, freq)
	unique := BuildUniqueOrder(numbers, mode)

	return &types.Summary{
		Input:            raw,
		Mode:             mode,
		DuplicateCount:   stats.Count(),
		LowestDuplicate:  stats.Lowest,
		HighestDuplicate: stats.Highest,
		Duplicates:       stats.Duplicates,
		Unique:           unique,
		Output:           Format(stats, unique),
	}, nil
}

// Process is Analyze reduced to the formatted summary line.
func Process(raw string, mode types.OrderMode) (string, error) {
	summary, err := Analyze(raw, mode)
	if err != nil {
		return "", err
	}
	return summary.Output, nil
}
