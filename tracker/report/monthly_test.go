package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

func reportLog(studentID uint, date, logType, status string) model.AttendanceLog {
	return model.AttendanceLog{
		ID:        date + "-" + logType,
		StudentID: studentID,
		Date:      date,
		Type:      logType,
		Status:    status,
		Timestamp: utils.MustParseDate(date),
	}
}

func TestBuildMonthly(t *testing.T) {
	students := []model.Student{
		{ID: 2, NIS: "2024002", Name: "Siti Rahma", Class: model.SchoolClass{Name: "8B"}},
		{ID: 1, NIS: "2024001", Name: "Budi Santoso", Class: model.SchoolClass{Name: "7A"}},
	}
	logs := []model.AttendanceLog{
		reportLog(1, "2026-01-05", tracker.TypeIn, tracker.StatusOnTime),
		reportLog(1, "2026-01-05", tracker.TypeOut, tracker.StatusOnTime),
		reportLog(1, "2026-01-06", tracker.TypeIn, tracker.StatusLate),
		reportLog(1, "2026-01-06", tracker.TypeOut, tracker.StatusNoCheckout),
		reportLog(1, "2026-01-07", tracker.TypeIn, tracker.StatusSick),
		reportLog(2, "2026-01-05", tracker.TypeIn, tracker.StatusOnTime),
		reportLog(2, "2026-01-05", tracker.TypeOut, tracker.StatusLeftEarly),
		// outside the requested month, must be ignored
		reportLog(2, "2025-12-15", tracker.TypeIn, tracker.StatusOnTime),
	}

	buf, err := BuildMonthly(2026, time.January, students, logs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	cell := func(ref string) string {
		v, err := f.GetCellValue(sheetName, ref)
		require.NoError(t, err)
		return v
	}

	// rows are sorted by NIS, so Budi comes first
	assert.Equal(t, "2024001", cell("A2"))
	assert.Equal(t, "Budi Santoso", cell("B2"))
	assert.Equal(t, "7A", cell("C2"))
	assert.Equal(t, "2024002", cell("A3"))

	// January has 31 day columns starting at D (day 1)
	assert.Equal(t, "H", cell("H2"))     // day 5
	assert.Equal(t, "T/TK", cell("I2"))  // day 6
	assert.Equal(t, "S", cell("J2"))     // day 7
	assert.Equal(t, "H/PA", cell("H3"))  // Siti, day 5
	assert.Equal(t, "", cell("H4"))      // no third student

	// totals: Hadir, Terlambat, Alpa, Sakit, Izin, Pulang Awal, Tanpa Checkout
	totalsStart := 4 + 31
	for i, want := range []string{"1", "1", "0", "1", "0", "0", "1"} {
		ref, err := excelize.CoordinatesToCellName(totalsStart+i, 2)
		require.NoError(t, err)
		assert.Equal(t, want, cell(ref))
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "rekap-presensi-2026-01.xlsx", Filename(2026, time.January))
}
