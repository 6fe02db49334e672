package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCron(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "daily at nine",
			input: "9:00 tous les jours",
			want:  "0 9 * * *",
		},
		{
			name:  "daily with minutes",
			input: "09:30 tous les jours",
			want:  "30 9 * * *",
		},
		{
			name:  "daily late evening",
			input: "23:45 tous les jours",
			want:  "45 23 * * *",
		},
		{
			name:  "surrounding whitespace and case",
			input: "  14:05 TOUS LES JOURS ",
			want:  "5 14 * * *",
		},
		{
			name:    "unsupported phrasing",
			input:   "tous les jours à 9h",
			wantErr: true,
		},
		{
			name:    "weekly phrasing",
			input:   "lundi 10:00",
			wantErr: true,
		},
		{
			name:    "hour out of range",
			input:   "25:00 tous les jours",
			wantErr: true,
		},
		{
			name:    "minute out of range",
			input:   "9:75 tous les jours",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToCron(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
