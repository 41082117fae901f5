package sorting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Criterion
	}{
		{"empty", "", nil},
		{"single ascending", "code", []Criterion{{"code", Asc}}},
		{"explicit plus", "+code", []Criterion{{"code", Asc}}},
		{"mixed", "lot_code, -quantity", []Criterion{{"lot_code", Asc}, {"quantity", Desc}}},
		{"skips blanks", "code,,", []Criterion{{"code", Asc}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCriteria(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCriteria_BareDash(t *testing.T) {
	_, err := ParseCriteria("code,-")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFormatCriteria(t *testing.T) {
	criteria := []Criterion{{"lot_code", Asc}, {"quantity", Desc}}
	assert.Equal(t, "lot_code,-quantity", FormatCriteria(criteria))

	parsed, err := ParseCriteria(FormatCriteria(criteria))
	require.NoError(t, err)
	assert.Equal(t, criteria, parsed)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" DESC ")
	require.NoError(t, err)
	assert.Equal(t, Desc, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

type measured struct {
	Name   string
	Volume decimal.Decimal
	At     time.Time
}

func TestFieldConstructors(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	small := measured{Name: "a", Volume: decimal.RequireFromString("1.5"), At: now}
	large := measured{Name: "b", Volume: decimal.RequireFromString("10.25"), At: now.Add(time.Hour)}

	fields := MustFields(
		String("name", "Name", "name", func(m measured) string { return m.Name }),
		Decimal("volume", "Volume", "volume", func(m measured) decimal.Decimal { return m.Volume }),
		Time("at", "Recorded", "", func(m measured) time.Time { return m.At }),
	)

	for _, key := range fields.Keys() {
		field, ok := fields.Lookup(key)
		require.True(t, ok)
		assert.Negative(t, field.Compare(small, large), key)
		assert.Positive(t, field.Compare(large, small), key)
		assert.Zero(t, field.Compare(small, small), key)
	}

	col, ok := fields.Column("volume")
	assert.True(t, ok)
	assert.Equal(t, "volume", col)
	_, ok = fields.Column("at")
	assert.False(t, ok, "fields without a column are not pushed to storage")

	assert.Equal(t, []FieldInfo{{"name", "Name"}, {"volume", "Volume"}, {"at", "Recorded"}}, fields.Infos())
}

func TestNewFields_Rejects(t *testing.T) {
	get := func(m measured) string { return m.Name }

	_, err := NewFields(String("", "Empty", "", get))
	assert.Error(t, err)

	_, err = NewFields(String("name", "Name", "", get), String("name", "Again", "", get))
	assert.Error(t, err)

	_, err = NewFields(Field[measured]{Key: "nil"})
	assert.Error(t, err)
}
