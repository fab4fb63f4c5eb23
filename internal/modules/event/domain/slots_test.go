package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_GenerateSlots_Returns_Slots_On_Half_Hour_Grid(t *testing.T) {
	// Arrange
	date := NewDate(2024, time.December, 15)
	windows := []DateWindow{{Date: date, From: 9 * 60, To: 13 * 60}}

	// Act
	slots, err := GenerateSlots(windows, 120)

	// Assert
	require.NoError(t, err)

	expected := []TimeSlot{
		{Date: date, Minute: 540},
		{Date: date, Minute: 570},
		{Date: date, Minute: 600},
		{Date: date, Minute: 630},
		{Date: date, Minute: 660},
	}
	require.Equal(t, expected, slots)
}

func Test_GenerateSlots_Window_Equal_To_Duration_Yields_Single_Slot(t *testing.T) {
	// Arrange
	date := NewDate(2024, time.December, 15)
	windows := []DateWindow{{Date: date, From: 1200, To: 1200 + 90}}

	// Act
	slots, err := GenerateSlots(windows, 90)

	// Assert
	require.NoError(t, err)
	require.Equal(t, []TimeSlot{{Date: date, Minute: 1200}}, slots)
}

func Test_GenerateSlots_Window_Shorter_Than_Duration_Yields_Nothing(t *testing.T) {
	// Arrange
	date := NewDate(2024, time.December, 15)
	windows := []DateWindow{{Date: date, From: 15 * 60, To: 16*60 + 30}}

	// Act
	slots, err := GenerateSlots(windows, 120)

	// Assert
	require.NoError(t, err)
	require.Empty(t, slots)
}

func Test_GenerateSlots_Preserves_Window_Input_Order(t *testing.T) {
	// Arrange - windows supplied out of date order on purpose.
	later := NewDate(2024, time.December, 20)
	earlier := NewDate(2024, time.December, 15)
	windows := []DateWindow{
		{Date: later, From: 600, To: 660},
		{Date: earlier, From: 600, To: 660},
	}

	// Act
	slots, err := GenerateSlots(windows, 60)

	// Assert
	require.NoError(t, err)

	expected := []TimeSlot{
		{Date: later, Minute: 600},
		{Date: earlier, Minute: 600},
	}
	require.Equal(t, expected, slots)
}

func Test_GenerateSlots_Empty_Input_Yields_Empty_Output(t *testing.T) {
	// Act
	slots, err := GenerateSlots(nil, 60)

	// Assert
	require.NoError(t, err)
	require.Empty(t, slots)
}

func Test_GenerateSlots_Rejects_Non_Positive_Duration(t *testing.T) {
	// Arrange
	windows := []DateWindow{{Date: NewDate(2024, time.December, 15), From: 540, To: 780}}

	for _, duration := range []int{0, -30} {
		// Act
		slots, err := GenerateSlots(windows, duration)

		// Assert
		require.ErrorIs(t, err, ErrInvalidDuration)
		require.Nil(t, slots)
	}
}

func Test_GenerateSlots_Rejects_Malformed_Window(t *testing.T) {
	// Arrange
	date := NewDate(2024, time.December, 15)
	windows := []DateWindow{
		{Date: date, From: 540, To: 780},
		{Date: date, From: 780, To: 780},
	}

	// Act
	slots, err := GenerateSlots(windows, 60)

	// Assert
	require.ErrorIs(t, err, ErrInvalidWindow)
	require.Nil(t, slots)
}

func Test_GenerateSlots_Every_Slot_Fits_Inside_Its_Window(t *testing.T) {
	// Arrange
	date := NewDate(2025, time.January, 10)
	durations := []int{30, 45, 60, 90, 120}
	window := DateWindow{Date: date, From: 480, To: 1140}

	for _, duration := range durations {
		// Act
		slots, err := GenerateSlots([]DateWindow{window}, duration)

		// Assert
		require.NoError(t, err)
		require.NotEmpty(t, slots)

		for _, slot := range slots {
			require.GreaterOrEqual(t, slot.Minute, window.From)
			require.LessOrEqual(t, slot.Minute+duration, window.To)
		}
	}
}

func Test_GenerateSlots_Is_Deterministic(t *testing.T) {
	// Arrange
	windows := []DateWindow{
		{Date: NewDate(2025, time.March, 1), From: 600, To: 840},
		{Date: NewDate(2025, time.February, 28), From: 540, To: 720},
	}

	// Act
	first, err := GenerateSlots(windows, 90)
	require.NoError(t, err)

	second, err := GenerateSlots(windows, 90)
	require.NoError(t, err)

	// Assert
	require.Equal(t, first, second)
}
