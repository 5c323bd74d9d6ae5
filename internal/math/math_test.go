// SPDX-License-Identifier: Apache-2.0

package math

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64

		wantAvg float64
	}{
		{
			name:   "ok - simple values",
			values: []float64{1, 2, 3, 4},

			wantAvg: 2.5,
		},
		{
			name:   "ok - single value",
			values: []float64{42},

			wantAvg: 42,
		},
		{
			name:   "ok - empty slice",
			values: []float64{},

			wantAvg: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.InDelta(t, tc.wantAvg, Average(tc.values), 1e-9)
		})
	}
}

func TestStandardDeviation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64

		wantStddev float64
	}{
		{
			name:   "ok - sample stddev",
			values: []float64{2, 4, 4, 4, 5, 5, 7, 9},

			wantStddev: 2.13808993529939517,
		},
		{
			name:   "ok - constant values",
			values: []float64{3, 3, 3},

			wantStddev: 0,
		},
		{
			name:   "ok - fewer than two values",
			values: []float64{1},

			wantStddev: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.InDelta(t, tc.wantStddev, StandardDeviation(tc.values), 1e-9)
		})
	}
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		values     []float64
		percentile float64

		wantValue float64
	}{
		{
			name:       "ok - median of odd count",
			values:     []float64{3, 1, 2},
			percentile: 0.5,

			wantValue: 2,
		},
		{
			name:       "ok - median interpolates between ranks",
			values:     []float64{1, 2, 3, 4},
			percentile: 0.5,

			wantValue: 2.5,
		},
		{
			name:       "ok - first quartile with interpolation",
			values:     []float64{10, 12, 11, 13, 1000},
			percentile: 0.25,

			wantValue: 11,
		},
		{
			name:       "ok - third quartile with interpolation",
			values:     []float64{10, 12, 11, 13, 1000},
			percentile: 0.75,

			wantValue: 13,
		},
		{
			name:       "ok - maximum",
			values:     []float64{1, 2, 3},
			percentile: 1,

			wantValue: 3,
		},
		{
			name:       "ok - empty slice",
			values:     []float64{},
			percentile: 0.5,

			wantValue: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.InDelta(t, tc.wantValue, Percentile(tc.values, tc.percentile), 1e-9)
		})
	}
}

func TestPercentile_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	values := []float64{5, 1, 4, 2, 3}
	Percentile(values, 0.5)
	require.Equal(t, []float64{5, 1, 4, 2, 3}, values)
}

func TestQuartiles(t *testing.T) {
	t.Parallel()

	q1, q3 := Quartiles([]float64{10, 12, 11, 13, 1000})
	require.InDelta(t, 11.0, q1, 1e-9)
	require.InDelta(t, 13.0, q3, 1e-9)
}

func TestMostFrequent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []string

		wantValue string
		wantFound bool
	}{
		{
			name:   "ok - clear winner",
			values: []string{"a", "b", "b", "c", "b"},

			wantValue: "b",
			wantFound: true,
		},
		{
			name:   "ok - tie keeps first occurrence",
			values: []string{"a", "b", "a", "b"},

			wantValue: "a",
			wantFound: true,
		},
		{
			name:   "ok - tie winner reached last",
			values: []string{"b", "a", "a", "b"},

			wantValue: "b",
			wantFound: true,
		},
		{
			name:   "ok - empty slice",
			values: []string{},

			wantValue: "",
			wantFound: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, found := MostFrequent(tc.values)
			require.Equal(t, tc.wantFound, found)
			require.Equal(t, tc.wantValue, got)
		})
	}
}
