package save

import (
	"iter"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/savesvc/pkg/registry"
)

func entrySeq(entries ...registry.Entry) iter.Seq[registry.Entry] {
	return slices.Values(entries)
}

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry registry.Entry
		want  string
	}{
		{
			name:  "no instance qualifier",
			entry: registry.Entry{Name: "brightness", Value: registry.String("80")},
			want:  "brightness=80\n",
		},
		{
			name:  "instance qualifier",
			entry: registry.Entry{Name: "volume", InstanceID: 5, Value: registry.String("45")},
			want:  "[5]volume=45\n",
		},
		{
			name:  "int value uses canonical form",
			entry: registry.Entry{Name: "timeout", Value: registry.Int(30)},
			want:  "timeout=30\n",
		},
		{
			name:  "bool value uses canonical form",
			entry: registry.Entry{Name: "enabled", Value: registry.Bool(true)},
			want:  "enabled=true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatEntry(tt.entry)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatEntryConversionError(t *testing.T) {
	_, err := FormatEntry(registry.Entry{Name: "broken"})
	require.Error(t, err)
}

func TestWriteEntriesPreservesOrder(t *testing.T) {
	var buf strings.Builder

	err := writeEntries(&buf, entrySeq(
		registry.Entry{Name: "zeta", Value: registry.String("1")},
		registry.Entry{Name: "alpha", Value: registry.String("2")},
		registry.Entry{Name: "mid", InstanceID: 3, Value: registry.String("3")},
	))
	require.NoError(t, err)

	assert.Equal(t, "zeta=1\nalpha=2\n[3]mid=3\n", buf.String())
}

func TestWriteEntriesSkipsUnconvertible(t *testing.T) {
	var buf strings.Builder

	err := writeEntries(&buf, entrySeq(
		registry.Entry{Name: "good", Value: registry.String("1")},
		registry.Entry{Name: "bad"}, // zero Value cannot be converted
		registry.Entry{Name: "alsogood", Value: registry.String("2")},
	))
	require.NoError(t, err)

	assert.Equal(t, "good=1\nalsogood=2\n", buf.String())
}

func TestWriteEntriesIdempotent(t *testing.T) {
	entries := entrySeq(
		registry.Entry{Name: "brightness", Value: registry.String("80")},
		registry.Entry{Name: "volume", InstanceID: 2, Value: registry.String("45")},
	)

	var first, second strings.Builder
	require.NoError(t, writeEntries(&first, entries))
	require.NoError(t, writeEntries(&second, entries))

	assert.Equal(t, first.String(), second.String())
}
