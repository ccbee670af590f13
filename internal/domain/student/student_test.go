package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrade_Valid(t *testing.T) {
	for _, g := range []Grade{GradeTK, GradeSD, GradeSMP, GradeSMA, GradeSMK} {
		assert.True(t, g.Valid(), string(g))
	}
	assert.False(t, Grade("SMU").Valid())
	assert.False(t, Grade("").Valid())
}

func TestNewStudent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, err := NewStudent("20260042", "Budi Santoso", GradeSMA, "XI-IPA-1")
		require.NoError(t, err)

		assert.Equal(t, "20260042", s.NIS)
		assert.Equal(t, "Budi Santoso", s.Name)
		assert.Equal(t, GradeSMA, s.Grade)
		assert.Equal(t, "XI-IPA-1", s.ClassName)
		assert.Equal(t, StatusActive, s.Status)
		assert.Nil(t, s.Phone)
		assert.Nil(t, s.ParentPhone)
	})

	t.Run("empty nis", func(t *testing.T) {
		s, err := NewStudent("", "Budi", GradeSD, "1A")
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrEmptyNIS)
	})

	t.Run("empty name", func(t *testing.T) {
		s, err := NewStudent("20260042", "", GradeSD, "1A")
		assert.Nil(t, s)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("invalid grade", func(t *testing.T) {
		s, err := NewStudent("20260042", "Budi", Grade("SMU"), "1A")
		assert.Nil(t, s)
		assert.Error(t, err)
	})
}
