// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scrubkit/scrub/pkg/dataset"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string

		wantPhone string
		wantValid bool
	}{
		{
			name:  "ok - bare nine digits",
			input: "666123456",

			wantPhone: "+34-666-123-456",
			wantValid: true,
		},
		{
			name:  "ok - formatted with dashes",
			input: "666-12-34-56",

			wantPhone: "+34-666-123-456",
			wantValid: true,
		},
		{
			name:  "ok - international prefix with spaces",
			input: "+34 666 123 456",

			wantPhone: "+34-666-123-456",
			wantValid: true,
		},
		{
			name:  "ok - zero zero prefix",
			input: "0034666123456",

			wantPhone: "+34-666-123-456",
			wantValid: true,
		},
		{
			name:  "ok - bare country prefix",
			input: "34666123456",

			wantPhone: "+34-666-123-456",
			wantValid: true,
		},
		{
			name:  "ok - fixed line starting with 9",
			input: "912345678",

			wantPhone: "+34-912-345-678",
			wantValid: true,
		},
		{
			name:  "invalid - too short",
			input: "12345",

			wantValid: false,
		},
		{
			name:  "invalid - too long",
			input: "666123456789",

			wantValid: false,
		},
		{
			name:  "invalid - first digit out of range",
			input: "166123456",

			wantValid: false,
		},
		{
			name:  "invalid - no digits",
			input: "not a phone",

			wantValid: false,
		},
		{
			name:  "invalid - nine digits starting with 34",
			input: "346123456",

			wantValid: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, valid := normalizePhone(tc.input)
			require.Equal(t, tc.wantValid, valid)
			require.Equal(t, tc.wantPhone, got)
		})
	}
}

func TestNormalizePhoneStep_Apply(t *testing.T) {
	t.Parallel()

	newDataset := func() *dataset.Dataset {
		return &dataset.Dataset{
			Columns: []string{"phone"},
			Rows: []dataset.Row{
				{"phone": "666 123 456"},
				{"phone": "bogus"},
				{"phone": nil},
			},
		}
	}

	t.Run("ok - default policy nulls invalid values", func(t *testing.T) {
		t.Parallel()

		step, err := NewNormalizePhoneStep("phones", Parameters{"columns": "phone"})
		require.NoError(t, err)

		got, err := step.Apply(context.Background(), newDataset())
		require.NoError(t, err)
		require.Equal(t, []string{"phone"}, got.Columns)
		require.Equal(t, "+34-666-123-456", got.Rows[0]["phone"])
		require.Nil(t, got.Rows[1]["phone"])
		require.Nil(t, got.Rows[2]["phone"])
	})

	t.Run("ok - keep policy leaves invalid values untouched", func(t *testing.T) {
		t.Parallel()

		step, err := NewNormalizePhoneStep("phones", Parameters{
			"columns":    "phone",
			"on_invalid": OnInvalidKeep,
		})
		require.NoError(t, err)

		got, err := step.Apply(context.Background(), newDataset())
		require.NoError(t, err)
		require.Equal(t, "+34-666-123-456", got.Rows[0]["phone"])
		require.Equal(t, "bogus", got.Rows[1]["phone"])
	})

	t.Run("ok - flag policy marks invalid values", func(t *testing.T) {
		t.Parallel()

		step, err := NewNormalizePhoneStep("phones", Parameters{
			"columns":    "phone",
			"on_invalid": OnInvalidFlag,
		})
		require.NoError(t, err)

		got, err := step.Apply(context.Background(), newDataset())
		require.NoError(t, err)
		require.Equal(t, []string{"phone", "phone_invalid"}, got.Columns)
		require.Equal(t, false, got.Rows[0]["phone_invalid"])
		require.Equal(t, "bogus", got.Rows[1]["phone"])
		require.Equal(t, true, got.Rows[1]["phone_invalid"])
		require.Equal(t, false, got.Rows[2]["phone_invalid"])
	})

	t.Run("error - unknown policy", func(t *testing.T) {
		t.Parallel()

		_, err := NewNormalizePhoneStep("phones", Parameters{
			"columns":    "phone",
			"on_invalid": "explode",
		})
		require.ErrorIs(t, err, ErrInvalidParameters)
	})

	t.Run("error - unknown column", func(t *testing.T) {
		t.Parallel()

		step, err := NewNormalizePhoneStep("phones", Parameters{"columns": "missing"})
		require.NoError(t, err)

		_, err = step.Apply(context.Background(), newDataset())
		require.ErrorIs(t, err, dataset.ErrColumnNotFound)
	})
}
