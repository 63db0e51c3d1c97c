package skinini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColour(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"30,144,255", "30,144,255", true},
		{" 1 , 2 ,3 ", "1,2,3", true},
		{"1,2,3,200", "1,2,3", true},
		{"1,2", "", false},
		{"256,0,0", "", false},
		{"-1,0,0", "", false},
		{"a,b,c", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeColour(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestComboCountCountsGaps(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetCombo(1, "1,1,1"))
	require.NoError(t, s.SetCombo(4, "4,4,4"))
	assert.Equal(t, 4, s.ComboCount())
}

func TestRemoveComboShiftsDown(t *testing.T) {
	s := Default()
	for _, c := range []string{"1,1,1", "2,2,2", "3,3,3", "4,4,4"} {
		_, err := s.AddCombo(c)
		require.NoError(t, err)
	}

	require.NoError(t, s.RemoveCombo(2))
	assert.Equal(t, "1,1,1", s.Colours.Combo[0])
	assert.Equal(t, "3,3,3", s.Colours.Combo[1])
	assert.Equal(t, "4,4,4", s.Colours.Combo[2])
	assert.Equal(t, "", s.Colours.Combo[3])
	assert.Equal(t, 3, s.ComboCount())
}

func TestAddComboFull(t *testing.T) {
	s := Default()
	for i := 0; i < MaxCombos; i++ {
		_, err := s.AddCombo("9,9,9")
		require.NoError(t, err)
	}
	_, err := s.AddCombo("9,9,9")
	assert.Error(t, err)
}

func TestSetComboBounds(t *testing.T) {
	s := Default()
	assert.Error(t, s.SetCombo(0, "1,1,1"))
	assert.Error(t, s.SetCombo(9, "1,1,1"))
	assert.Error(t, s.SetCombo(1, "nope"))
}
