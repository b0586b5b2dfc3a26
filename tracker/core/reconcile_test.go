package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

func inLogFor(studentID uint, name string) model.AttendanceLog {
	return model.AttendanceLog{
		ID:              "in-" + name,
		StudentID:       studentID,
		Date:            "2026-01-05",
		Type:            TypeIn,
		StudentName:     name,
		StudentPhotoURL: "https://photos.example/" + name + ".jpg",
		ClassName:       "7A",
		Timestamp:       mondayAt(6, 40, 0),
		Status:          StatusOnTime,
	}
}

func TestMissingCheckoutsTiming(t *testing.T) {
	settings := referenceSettings()
	logs := []model.AttendanceLog{inLogFor(1, "budi")}

	tests := []struct {
		name      string
		now       time.Time
		wantCount int
	}{
		{"During check-in window", mondayAt(7, 0, 0), 0},
		{"During check-out window", mondayAt(13, 0, 0), 0},
		{"At scan-out end", mondayAt(15, 0, 0), 0},
		{"Inside the buffer", mondayAt(15, SweepBufferMinutes, 0), 0},
		{"Past the buffer", mondayAt(15, SweepBufferMinutes+1, 0), 1},
		{"Late evening", mondayAt(22, 0, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingCheckouts(tt.now, settings, logs)
			assert.Len(t, got, tt.wantCount)
		})
	}
}

func TestMissingCheckoutsClosedDays(t *testing.T) {
	logs := []model.AttendanceLog{inLogFor(1, "budi")}

	t.Run("Holiday is a no-op", func(t *testing.T) {
		s := referenceSettings()
		s.Holidays = []model.Holiday{{Date: "2026-01-05"}}
		assert.Empty(t, MissingCheckouts(mondayAt(22, 0, 0), s, logs))
	})

	t.Run("Sunday is a no-op", func(t *testing.T) {
		sunday := time.Date(2026, 1, 4, 22, 0, 0, 0, utils.JakartaTZ)
		assert.Empty(t, MissingCheckouts(sunday, referenceSettings(), logs))
	})
}

func TestMissingCheckoutsSynthesis(t *testing.T) {
	settings := referenceSettings()
	sweepTime := mondayAt(15, 30, 0)

	logs := []model.AttendanceLog{
		// checked in and out normally
		inLogFor(1, "siti"),
		{ID: "out-siti", StudentID: 1, Date: "2026-01-05", Type: TypeOut, Timestamp: mondayAt(13, 5, 0), Status: StatusOnTime},
		// forgot to check out
		inLogFor(2, "budi"),
		// manually recorded sick day, terminal
		{ID: "manual-3", StudentID: 3, Date: "2026-01-05", Type: TypeIn, Status: StatusSick, StudentName: "andi"},
	}

	got := MissingCheckouts(sweepTime, settings, logs)
	require.Len(t, got, 1)

	budi := got[0]
	assert.Equal(t, uint(2), budi.StudentID)
	assert.Equal(t, TypeOut, budi.Type)
	assert.Equal(t, StatusNoCheckout, budi.Status)
	assert.Equal(t, sweepTime, budi.Timestamp)
	assert.Equal(t, "2026-01-05", budi.Date)
	// denormalized fields come from the in log, not a fresh lookup
	assert.Equal(t, "budi", budi.StudentName)
	assert.Equal(t, "https://photos.example/budi.jpg", budi.StudentPhotoURL)
	assert.Equal(t, "7A", budi.ClassName)
}

// Running the sweep against a log set that already contains its output must
// produce nothing new.
func TestMissingCheckoutsIdempotent(t *testing.T) {
	settings := referenceSettings()
	sweepTime := mondayAt(15, 30, 0)

	logs := []model.AttendanceLog{inLogFor(2, "budi")}

	first := MissingCheckouts(sweepTime, settings, logs)
	require.Len(t, first, 1)

	second := MissingCheckouts(sweepTime.Add(15*time.Minute), settings, append(logs, first...))
	assert.Empty(t, second)
}
