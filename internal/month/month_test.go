package month

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		from string
		n    int
		want string
	}{
		{"same month", "2024-05", 0, "2024-05"},
		{"forward within year", "2024-05", 3, "2024-08"},
		{"forward across year", "2024-11", 3, "2025-02"},
		{"backward across year", "2024-02", -3, "2023-11"},
		{"december to january", "2024-12", 1, "2025-01"},
		{"january to december", "2025-01", -1, "2024-12"},
		{"many years", "2024-01", 36, "2027-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.from).Add(tt.n)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-05", "2024-05", 0},
		{"2024-05", "2024-08", 3},
		{"2024-11", "2025-02", 3},
		{"2025-02", "2024-11", -3},
		{"2020-01", "2025-01", 60},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Diff(MustParse(tt.a), MustParse(tt.b)))
		})
	}
}

func TestAddDiffRoundTrip(t *testing.T) {
	base := New(2024, time.March)
	for n := -30; n <= 30; n++ {
		assert.Equal(t, n, Diff(base, base.Add(n)), "n=%d", n)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "2024", "2024-13", "24-01", "2024/01", "abcd-ef"} {
		_, err := Parse(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestOf(t *testing.T) {
	m := Of(time.Date(2023, time.December, 31, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, 2023, m.Year())
	assert.Equal(t, time.December, m.Month())
	assert.Equal(t, "2023-12", m.String())
}

func TestJSONMapKey(t *testing.T) {
	in := map[Month]int{MustParse("2025-03"): 1, MustParse("2024-12"): 2}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-03":1,"2024-12":2}`, string(data))

	var out map[Month]int
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestRange(t *testing.T) {
	got := Range(MustParse("2024-11"), 3)
	require.Len(t, got, 3)
	assert.Equal(t, "2024-11", got[0].String())
	assert.Equal(t, "2025-01", got[2].String())
	assert.Nil(t, Range(MustParse("2024-11"), 0))
}
