package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

func testStudent() model.Student {
	return model.Student{
		ID:       7,
		NIS:      "20260001",
		Name:     "Budi Santoso",
		ClassID:  1,
		RfidUID:  utils.Ptr("04A1B2C3D4"),
		PhotoURL: utils.Ptr("https://photos.example/budi.jpg"),
	}
}

// monday at the given clock time, in the school zone
func mondayAt(hour, minute, second int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, second, 0, utils.JakartaTZ)
}

func TestDecideCheckIn(t *testing.T) {
	student := testStudent()
	settings := referenceSettings()

	tests := []struct {
		name           string
		now            time.Time
		existing       []model.AttendanceLog
		wantAccepted   bool
		wantReason     RejectReason
		wantType       string
		wantStatus     string
	}{
		{
			name:         "Early scan is on time",
			now:          mondayAt(6, 30, 0),
			wantAccepted: true,
			wantType:     TypeIn,
			wantStatus:   StatusOnTime,
		},
		{
			name:         "Exactly at late deadline is on time",
			now:          mondayAt(7, 15, 0),
			wantAccepted: true,
			wantType:     TypeIn,
			wantStatus:   StatusOnTime,
		},
		{
			name:         "One second past the deadline is late",
			now:          mondayAt(7, 15, 1),
			wantAccepted: true,
			wantType:     TypeIn,
			wantStatus:   StatusLate,
		},
		{
			name:         "Well past the deadline is late",
			now:          mondayAt(8, 0, 0),
			wantAccepted: true,
			wantType:     TypeIn,
			wantStatus:   StatusLate,
		},
		{
			name: "Second scan is rejected",
			now:  mondayAt(6, 45, 0),
			existing: []model.AttendanceLog{
				{StudentID: 7, Date: "2026-01-05", Type: TypeIn, Status: StatusOnTime},
			},
			wantReason: RejectAlreadyIn,
		},
		{
			name:       "Before the scan-in window",
			now:        mondayAt(5, 30, 0),
			wantReason: RejectWindowClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(student, "7A", tt.now, tt.existing, settings)
			assert.Equal(t, tt.wantAccepted, d.Accepted)

			if !tt.wantAccepted {
				assert.Equal(t, tt.wantReason, d.Reason)
				assert.Nil(t, d.Log)
				return
			}

			assert.Equal(t, tt.wantType, d.Log.Type)
			assert.Equal(t, tt.wantStatus, d.Log.Status)
			assert.Equal(t, "2026-01-05", d.Log.Date)
			assert.NotEmpty(t, d.Log.ID)
			// denormalized at creation time
			assert.Equal(t, "Budi Santoso", d.Log.StudentName)
			assert.Equal(t, "7A", d.Log.ClassName)
			assert.Equal(t, "https://photos.example/budi.jpg", d.Log.StudentPhotoURL)
			assert.Contains(t, d.Message, "Budi Santoso")
		})
	}
}

func TestDecideCheckOut(t *testing.T) {
	student := testStudent()
	settings := referenceSettings()
	checkedIn := []model.AttendanceLog{
		{StudentID: 7, Date: "2026-01-05", Type: TypeIn, Status: StatusOnTime},
	}

	tests := []struct {
		name         string
		now          time.Time
		existing     []model.AttendanceLog
		wantAccepted bool
		wantReason   RejectReason
		wantStatus   string
	}{
		{
			name:         "Before dismissal time is left-early",
			now:          mondayAt(12, 50, 0),
			existing:     checkedIn,
			wantAccepted: true,
			wantStatus:   StatusLeftEarly,
		},
		{
			name:         "At dismissal time is on time",
			now:          mondayAt(13, 0, 0),
			existing:     checkedIn,
			wantAccepted: true,
			wantStatus:   StatusOnTime,
		},
		{
			name:         "After dismissal time is on time",
			now:          mondayAt(14, 30, 0),
			existing:     checkedIn,
			wantAccepted: true,
			wantStatus:   StatusOnTime,
		},
		{
			name:       "Check-out without check-in",
			now:        mondayAt(13, 0, 0),
			wantReason: RejectNotCheckedIn,
		},
		{
			name: "Second check-out is rejected",
			now:  mondayAt(13, 5, 0),
			existing: append(append([]model.AttendanceLog{}, checkedIn...),
				model.AttendanceLog{StudentID: 7, Date: "2026-01-05", Type: TypeOut, Status: StatusOnTime}),
			wantReason: RejectAlreadyOut,
		},
		{
			name:       "After the scan-out end",
			now:        mondayAt(15, 1, 0),
			existing:   checkedIn,
			wantReason: RejectWindowClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(student, "7A", tt.now, tt.existing, settings)
			assert.Equal(t, tt.wantAccepted, d.Accepted)

			if !tt.wantAccepted {
				assert.Equal(t, tt.wantReason, d.Reason)
				return
			}
			assert.Equal(t, TypeOut, d.Log.Type)
			assert.Equal(t, tt.wantStatus, d.Log.Status)
		})
	}
}

func TestDecideClosedDays(t *testing.T) {
	student := testStudent()

	t.Run("Holiday rejects at any time of day", func(t *testing.T) {
		s := referenceSettings()
		s.Holidays = []model.Holiday{{Date: "2026-01-05"}}

		for _, hour := range []int{0, 7, 13, 23} {
			d := Decide(student, "7A", mondayAt(hour, 0, 0), nil, s)
			assert.False(t, d.Accepted)
			assert.Equal(t, RejectHoliday, d.Reason)
		}
	})

	t.Run("Holiday wins over disabled flag", func(t *testing.T) {
		s := referenceSettings()
		s.Holidays = []model.Holiday{{Date: "2026-01-05"}}
		for i := range s.OperatingHours {
			s.OperatingHours[i].Enabled = false
		}
		d := Decide(student, "7A", mondayAt(7, 0, 0), nil, s)
		assert.Equal(t, RejectHoliday, d.Reason)
	})

	t.Run("Sunday is always closed", func(t *testing.T) {
		sunday := time.Date(2026, 1, 4, 7, 0, 0, 0, utils.JakartaTZ)
		d := Decide(student, "7A", sunday, nil, referenceSettings())
		assert.False(t, d.Accepted)
		assert.Equal(t, RejectNoSchedule, d.Reason)
	})

	t.Run("Disabled day rejects", func(t *testing.T) {
		saturday := time.Date(2026, 1, 10, 8, 0, 0, 0, utils.JakartaTZ)
		d := Decide(student, "7A", saturday, nil, referenceSettings())
		assert.Equal(t, RejectDayClosed, d.Reason)
	})
}

func TestDecideManualStatusDays(t *testing.T) {
	student := testStudent()
	settings := referenceSettings()

	for _, status := range []string{StatusAbsent, StatusSick, StatusPermit} {
		t.Run(status+" day rejects a card tap in either window", func(t *testing.T) {
			existing := []model.AttendanceLog{
				{StudentID: 7, Date: "2026-01-05", Type: TypeIn, Status: status},
			}

			for _, now := range []time.Time{mondayAt(7, 0, 0), mondayAt(13, 0, 0)} {
				d := Decide(student, "7A", now, existing, settings)
				assert.False(t, d.Accepted)
				assert.Equal(t, RejectDayRecorded, d.Reason)
				assert.Nil(t, d.Log)
				assert.Contains(t, d.Message, "Budi Santoso")
			}
		})
	}
}

func TestDecideEarlyDismissal(t *testing.T) {
	student := testStudent()
	s := referenceSettings()
	s.EarlyDismissals = []model.EarlyDismissal{{Date: "2026-01-05", Time: "10:00"}}
	checkedIn := []model.AttendanceLog{
		{StudentID: 7, Date: "2026-01-05", Type: TypeIn, Status: StatusOnTime},
	}

	// scanOutStart moves to 09:45 with the override
	t.Run("Out window opens relative to dismissal time", func(t *testing.T) {
		d := Decide(student, "7A", mondayAt(9, 50, 0), checkedIn, s)
		assert.True(t, d.Accepted)
		assert.Equal(t, TypeOut, d.Log.Type)
		assert.Equal(t, StatusLeftEarly, d.Log.Status)
	})

	t.Run("At dismissal time is on time", func(t *testing.T) {
		d := Decide(student, "7A", mondayAt(10, 0, 0), checkedIn, s)
		assert.True(t, d.Accepted)
		assert.Equal(t, StatusOnTime, d.Log.Status)
	})

	t.Run("Window still closes at the configured end", func(t *testing.T) {
		d := Decide(student, "7A", mondayAt(14, 0, 0), checkedIn, s)
		assert.True(t, d.Accepted)
	})
}
