package notify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HollaG/letsmeetup-bot/internal/domain"
)

func keys(minutes []int, date string) []string {
	out := make([]string, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, domain.EncodeSlot(m, date))
	}
	return out
}

func TestCompressRangesGap(t *testing.T) {
	// 0,30,60 are contiguous; 120 starts a new range after the gap.
	got := CompressRanges(keys([]int{0, 30, 60, 120}, "2024-01-05"))
	require.Equal(t, []Range{
		{Start: "0::2024-01-05", End: "90::2024-01-05"},
		{Start: "120::2024-01-05", End: "150::2024-01-05"},
	}, got)
}

func TestCompressRangesSingleKey(t *testing.T) {
	got := CompressRanges(keys([]int{570}, "2024-01-05"))
	require.Equal(t, []Range{{Start: "570::2024-01-05", End: "600::2024-01-05"}}, got)
}

func TestCompressRangesEmpty(t *testing.T) {
	require.Nil(t, CompressRanges(nil))
}

func TestCompressRangesDateChangeClosesRange(t *testing.T) {
	// 23:30 on day one and 00:00 on day two are not adjacent: ranges
	// never cross midnight.
	in := []string{"1410::2024-01-05", "0::2024-01-06"}
	got := CompressRanges(in)
	require.Equal(t, []Range{
		{Start: "1410::2024-01-05", End: "1439::2024-01-05"},
		{Start: "0::2024-01-06", End: "30::2024-01-06"},
	}, got)
}

func TestCompressRangesAllContiguous(t *testing.T) {
	got := CompressRanges(keys([]int{540, 570, 600, 630}, "2024-01-05"))
	require.Equal(t, []Range{{Start: "540::2024-01-05", End: "660::2024-01-05"}}, got)
}
